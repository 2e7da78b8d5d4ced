package appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/salonkit/salon-scheduler/internal/httperr"
	"github.com/salonkit/salon-scheduler/internal/models"
)

// ConflictError carrega o agendamento conflitante quando conhecido.
// Conflicting fica nil quando o conflito vem do banco (corrida perdida
// depois da checagem) e o storage não informa qual registro colidiu.
type ConflictError struct {
	Conflicting *models.Appointment
}

func (e *ConflictError) Error() string {
	if e.Conflicting == nil {
		return httperr.CodeTimeConflict
	}
	return fmt.Sprintf(
		"%s: %s - %s",
		httperr.CodeTimeConflict,
		e.Conflicting.StartTime.Format("2006-01-02 15:04"),
		e.Conflicting.EndTime.Format("2006-01-02 15:04"),
	)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// FindConflict varre o snapshot e devolve o agendamento conflitante de
// menor StartTime (empate: menor ID), ignorando cancelados e o próprio
// agendamento em atualização. Retorna nil quando o intervalo está livre.
func FindConflict(
	start time.Time,
	end time.Time,
	existing []models.Appointment,
	excludeID string,
) *models.Appointment {

	var found *models.Appointment

	for i := range existing {
		ap := &existing[i]

		if excludeID != "" && ap.ID == excludeID {
			continue
		}
		if !CountsForConflict(Status(ap.Status)) {
			continue
		}
		if !Overlaps(start, end, ap.StartTime, ap.EndTime) {
			continue
		}

		if found == nil ||
			ap.StartTime.Before(found.StartTime) ||
			(ap.StartTime.Equal(found.StartTime) && ap.ID < found.ID) {
			found = ap
		}
	}

	return found
}

// GuardInput é o snapshot avaliado por ValidateInterval. Now é injetado
// para manter a validação pura e testável.
type GuardInput struct {
	Start           time.Time
	End             time.Time
	ServiceDuration time.Duration
	Now             time.Time
	ExcludeID       string
	Existing        []models.Appointment
}

// ValidateInterval aplica as regras de criação/remarcação na ordem:
// intervalo válido, início no futuro, duração compatível com o serviço
// (dentro da tolerância) e ausência de sobreposição.
func ValidateInterval(in GuardInput, tolerance time.Duration) error {
	if !in.Start.Before(in.End) {
		return httperr.ErrBusiness(httperr.CodeInvalidInterval)
	}

	if in.Start.Before(in.Now) {
		return httperr.ErrBusiness(httperr.CodePastStartTime)
	}

	if in.ServiceDuration > 0 {
		diff := in.End.Sub(in.Start) - in.ServiceDuration
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			return httperr.ErrBusiness(httperr.CodeDurationMismatch)
		}
	}

	if ap := FindConflict(in.Start, in.End, in.Existing, in.ExcludeID); ap != nil {
		return &ConflictError{Conflicting: ap}
	}

	return nil
}
