package appointment

import (
	"context"
	"time"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/httperr"
)

// AvailabilityCache evita recomputar a grade do dia a cada consulta.
// Implementação em internal/cache; nil desliga o cache.
type AvailabilityCache interface {
	Get(ctx context.Context, in domain.AvailabilityInput) (*domain.Availability, bool)
	Set(ctx context.Context, in domain.AvailabilityInput, av *domain.Availability)

	// InvalidateDay descarta toda grade cacheada do profissional no dia.
	// Chamado após qualquer escrita de agendamento.
	InvalidateDay(ctx context.Context, companyID, professionalID string, day time.Time)
}

type GetAvailability struct {
	repo   domain.Repository
	window domain.Window
	cache  AvailabilityCache
}

func NewGetAvailability(
	repo domain.Repository,
	window domain.Window,
	cache AvailabilityCache,
) *GetAvailability {
	return &GetAvailability{
		repo:   repo,
		window: window,
		cache:  cache,
	}
}

// Execute monta a grade do dia para (profissional, serviço, data).
// in.Date deve ser 00:00 no fuso da empresa; os agendamentos do dia são
// buscados uma única vez e cada slot é avaliado contra esse snapshot.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

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

	if uc.cache != nil {
		if av, ok := uc.cache.Get(ctx, in); ok {
			return av, nil
		}
	}

	dayStart := in.Date
	dayEnd := dayStart.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForDay(
		ctx,
		in.CompanyID,
		in.ProfessionalID,
		dayStart,
		dayEnd,
	)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	av := domain.BuildDayGrid(dayStart, uc.window, duration, appointments)

	if uc.cache != nil {
		uc.cache.Set(ctx, in, &av)
	}

	return &av, nil
}
