package httperr

import "errors"

// Códigos de negócio usados em todo o serviço.
const (
	CodeProfessionalNotFound = "professional_not_found"
	CodeProfessionalInactive = "professional_inactive"
	CodeServiceNotFound      = "service_not_found"
	CodeServiceInactive      = "service_inactive"
	CodeInvalidInterval      = "invalid_interval"
	CodePastStartTime        = "past_start_time"
	CodeDurationMismatch     = "duration_mismatch"
	CodeTimeConflict         = "time_conflict"
	CodeAppointmentNotFound  = "appointment_not_found"
	CodeInvalidState         = "invalid_state"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
