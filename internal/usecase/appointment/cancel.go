package appointment

import (
	"context"

	"github.com/salonkit/salon-scheduler/internal/audit"
	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/httperr"
	"github.com/salonkit/salon-scheduler/internal/models"
	"github.com/salonkit/salon-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache AvailabilityCache
}

func NewCancelAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	cache AvailabilityCache,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: auditD,
		cache: cache,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	companyID string,
	appointmentID string,
	actorUserID *string,
) (*models.Appointment, error) {

	company, err := uc.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, companyID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	now := timezone.NowIn(company.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Cancelado libera o horário: grade do dia precisa ser recalculada.
	if uc.cache != nil {
		day := timezone.StartOfDay(ap.StartTime, company.Timezone)
		uc.cache.InvalidateDay(ctx, companyID, ap.ProfessionalID, day)
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: companyID,
		UserID:    actorUserID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
