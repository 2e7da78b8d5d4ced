package handlers

import (
	"time"

	"github.com/salonkit/salon-scheduler/internal/models"
	"github.com/salonkit/salon-scheduler/internal/timezone"
)

// --------------------------------------------------
// Timezone centralizado por empresa
// --------------------------------------------------

func locationFromCompany(company *models.Company) *time.Location {
	if company != nil {
		return timezone.Location(company.Timezone)
	}
	return timezone.Location("")
}

func parseDateInCompany(company *models.Company, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromCompany(company),
	)
}

// parseInstantInCompany aceita RFC3339 com offset ou data-hora "naive"
// interpretada no fuso da empresa.
func parseInstantInCompany(company *models.Company, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(locationFromCompany(company)), nil
	}
	return time.ParseInLocation(
		"2006-01-02T15:04:05",
		value,
		locationFromCompany(company),
	)
}
