package appointment

import "github.com/salonkit/salon-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func InitialStatus() Status {
	return StatusPending
}

// CountsForConflict diz se o agendamento ocupa a agenda do profissional.
// Agendamento cancelado libera o horário.
func CountsForConflict(s Status) bool {
	return s != StatusCancelled
}

// ===============================
// Transições
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

// CanReschedule impede mover agendamentos já encerrados.
func CanReschedule(current Status) error {
	if current == StatusCancelled || current == StatusCompleted {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}
