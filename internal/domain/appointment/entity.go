package appointment

import "time"

type AvailabilityInput struct {
	CompanyID      string
	ProfessionalID string
	ServiceID      string
	Date           time.Time
}
