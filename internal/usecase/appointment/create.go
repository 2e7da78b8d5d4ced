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

type CreateAppointmentInput struct {
	CompanyID      string
	ProfessionalID string
	ServiceID      string

	ClientName  string
	ClientPhone string
	ClientEmail string

	StartTime time.Time
	EndTime   time.Time
	Notes     string

	// Quem criou, para auditoria (nil em criação pública)
	ActorUserID *string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	tolerance time.Duration
	cache     AvailabilityCache
}

func NewCreateAppointment(
	repo domain.Repository,
	auditD *audit.Dispatcher,
	tolerance time.Duration,
	cache AvailabilityCache,
) *CreateAppointment {
	return &CreateAppointment{
		repo:      repo,
		audit:     auditD,
		tolerance: tolerance,
		cache:     cache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Empresa (fuso e relógio)
	// --------------------------------------------------
	company, err := uc.repo.GetCompanyByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Profissional e serviço ativos
	// --------------------------------------------------
	professional, err := uc.repo.GetProfessional(ctx, in.CompanyID, in.ProfessionalID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeProfessionalNotFound)
	}
	if !professional.IsActive {
		return nil, httperr.ErrBusiness(httperr.CodeProfessionalInactive)
	}

	service, err := uc.repo.GetService(ctx, in.CompanyID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}
	if !service.IsActive {
		return nil, httperr.ErrBusiness(httperr.CodeServiceInactive)
	}

	// --------------------------------------------------
	// 3. Snapshot do dia + validação do intervalo
	// --------------------------------------------------
	dayStart := timezone.StartOfDay(in.StartTime, company.Timezone)
	existing, err := uc.repo.ListAppointmentsForDay(
		ctx,
		in.CompanyID,
		in.ProfessionalID,
		dayStart,
		dayStart.Add(24*time.Hour),
	)
	if err != nil {
		return nil, err
	}

	err = domain.ValidateInterval(domain.GuardInput{
		Start:           in.StartTime,
		End:             in.EndTime,
		ServiceDuration: time.Duration(service.DurationMin) * time.Minute,
		Now:             timezone.NowIn(company.Timezone),
		Existing:        existing,
	}, uc.tolerance)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Criação (re-checagem transacional no repositório)
	// --------------------------------------------------
	ap := &models.Appointment{
		CompanyID:      in.CompanyID,
		ProfessionalID: in.ProfessionalID,
		ServiceID:      in.ServiceID,
		ClientName:     in.ClientName,
		ClientPhone:    in.ClientPhone,
		ClientEmail:    in.ClientEmail,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Status:         string(domain.InitialStatus()),
		Notes:          in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.InvalidateDay(ctx, in.CompanyID, in.ProfessionalID, dayStart)
	}

	// --------------------------------------------------
	// 5. Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		CompanyID: in.CompanyID,
		UserID:    in.ActorUserID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
