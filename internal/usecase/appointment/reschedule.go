package appointment

import (
	"context"
	"time"

	"github.com/salonkit/salon-scheduler/internal/audit"
	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/httperr"
	"github.com/salonkit/salon-scheduler/internal/models"
	"github.com/salonkit/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// Campos nil mantêm o valor atual do agendamento.
type RescheduleAppointmentInput struct {
	CompanyID     string
	AppointmentID string

	StartTime      *time.Time
	EndTime        *time.Time
	ProfessionalID *string

	ClientName  *string
	ClientPhone *string
	ClientEmail *string
	Notes       *string

	ActorUserID *string
}

// ======================================================
// USE CASE
// ======================================================

type RescheduleAppointment struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	tolerance time.Duration
	cache     AvailabilityCache
}

func NewRescheduleAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	tolerance time.Duration,
	cache AvailabilityCache,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:      repo,
		audit:     auditD,
		tolerance: tolerance,
		cache:     cache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	company, err := uc.repo.GetCompanyByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, in.CompanyID, in.AppointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Merge dos campos informados
	// --------------------------------------------------
	movingTime := in.StartTime != nil || in.EndTime != nil || in.ProfessionalID != nil

	oldDayStart := timezone.StartOfDay(ap.StartTime, company.Timezone)
	oldProfessionalID := ap.ProfessionalID

	if in.StartTime != nil {
		ap.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		ap.EndTime = *in.EndTime
	}
	if in.ProfessionalID != nil {
		ap.ProfessionalID = *in.ProfessionalID
	}
	if in.ClientName != nil {
		ap.ClientName = *in.ClientName
	}
	if in.ClientPhone != nil {
		ap.ClientPhone = *in.ClientPhone
	}
	if in.ClientEmail != nil {
		ap.ClientEmail = *in.ClientEmail
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	// --------------------------------------------------
	// Intervalo novo passa pela mesma validação da criação,
	// excluindo o próprio agendamento do snapshot.
	// --------------------------------------------------
	if movingTime {
		professional, err := uc.repo.GetProfessional(ctx, in.CompanyID, ap.ProfessionalID)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeProfessionalNotFound)
		}
		if !professional.IsActive {
			return nil, httperr.ErrBusiness(httperr.CodeProfessionalInactive)
		}

		service, err := uc.repo.GetService(ctx, in.CompanyID, ap.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
		}

		dayStart := timezone.StartOfDay(ap.StartTime, company.Timezone)
		existing, err := uc.repo.ListAppointmentsForDay(
			ctx,
			in.CompanyID,
			ap.ProfessionalID,
			dayStart,
			dayStart.Add(24*time.Hour),
		)
		if err != nil {
			return nil, err
		}

		err = domain.ValidateInterval(domain.GuardInput{
			Start:           ap.StartTime,
			End:             ap.EndTime,
			ServiceDuration: time.Duration(service.DurationMin) * time.Minute,
			Now:             timezone.NowIn(company.Timezone),
			ExcludeID:       ap.ID,
			Existing:        existing,
		}, uc.tolerance)
		if err != nil {
			return nil, err
		}

		if err := uc.repo.RescheduleAppointment(ctx, ap); err != nil {
			return nil, err
		}

		if uc.cache != nil {
			uc.cache.InvalidateDay(ctx, in.CompanyID, ap.ProfessionalID, dayStart)
			if oldProfessionalID != ap.ProfessionalID || !oldDayStart.Equal(dayStart) {
				uc.cache.InvalidateDay(ctx, in.CompanyID, oldProfessionalID, oldDayStart)
			}
		}
	} else {
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: in.CompanyID,
		UserID:    in.ActorUserID,
		Action:    "appointment_rescheduled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
