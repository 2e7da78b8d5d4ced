package appointment

import (
	"context"

	"github.com/salonkit/salon-scheduler/internal/audit"
	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/httperr"
	"github.com/salonkit/salon-scheduler/internal/timezone"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache AvailabilityCache
}

func NewDeleteAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	cache AvailabilityCache,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: auditD,
		cache: cache,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	companyID string,
	appointmentID string,
	actorUserID *string,
) error {

	company, err := uc.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		return err
	}

	ap, err := uc.repo.GetAppointment(ctx, companyID, appointmentID)
	if err != nil {
		return httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	if err := uc.repo.DeleteAppointment(ctx, companyID, appointmentID); err != nil {
		return err
	}

	// Exclusão libera o horário: grade do dia precisa ser recalculada.
	if uc.cache != nil {
		day := timezone.StartOfDay(ap.StartTime, company.Timezone)
		uc.cache.InvalidateDay(ctx, companyID, ap.ProfessionalID, day)
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: companyID,
		UserID:    actorUserID,
		Action:    "appointment_deleted",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return nil
}
