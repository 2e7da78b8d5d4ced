package appointment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/models"
)

// fakeRepo guarda tudo em memória para exercitar os casos de uso sem
// banco. As escritas imitam o contrato do repositório real, inclusive a
// re-checagem transacional (forceRace simula a corrida perdida).
type fakeRepo struct {
	company       models.Company
	professionals map[string]models.Professional
	services      map[string]models.Service
	appointments  []models.Appointment

	forceRace bool
	nextID    int
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		company: models.Company{
			ID:       "company-1",
			Name:     "Studio Teste",
			Slug:     "studio-teste",
			Timezone: "UTC",
			IsActive: true,
		},
		professionals: map[string]models.Professional{
			"prof-1": {ID: "prof-1", CompanyID: "company-1", Name: "Ana", IsActive: true},
			"prof-2": {ID: "prof-2", CompanyID: "company-1", Name: "Bia", IsActive: true},
			"prof-off": {ID: "prof-off", CompanyID: "company-1", Name: "Inativa", IsActive: false},
		},
		services: map[string]models.Service{
			"svc-45": {ID: "svc-45", CompanyID: "company-1", Name: "Corte", DurationMin: 45, IsActive: true},
			"svc-30": {ID: "svc-30", CompanyID: "company-1", Name: "Barba", DurationMin: 30, IsActive: true},
			"svc-off": {ID: "svc-off", CompanyID: "company-1", Name: "Extinto", DurationMin: 30, IsActive: false},
		},
	}
}

func (f *fakeRepo) seed(ap models.Appointment) models.Appointment {
	if ap.ID == "" {
		f.nextID++
		ap.ID = fmt.Sprintf("ap-%d", f.nextID)
	}
	if ap.CompanyID == "" {
		ap.CompanyID = f.company.ID
	}
	if ap.Status == "" {
		ap.Status = string(domain.StatusConfirmed)
	}
	f.appointments = append(f.appointments, ap)
	return ap
}

func (f *fakeRepo) GetCompanyByID(_ context.Context, id string) (*models.Company, error) {
	if id != f.company.ID {
		return nil, gorm.ErrRecordNotFound
	}
	c := f.company
	return &c, nil
}

func (f *fakeRepo) GetCompanyBySlug(_ context.Context, slug string) (*models.Company, error) {
	if slug != f.company.Slug {
		return nil, gorm.ErrRecordNotFound
	}
	c := f.company
	return &c, nil
}

func (f *fakeRepo) GetProfessional(_ context.Context, companyID, professionalID string) (*models.Professional, error) {
	p, ok := f.professionals[professionalID]
	if !ok || p.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeRepo) GetService(_ context.Context, companyID, serviceID string) (*models.Service, error) {
	s, ok := f.services[serviceID]
	if !ok || s.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeRepo) ListAppointmentsForDay(
	_ context.Context,
	companyID string,
	professionalID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.CompanyID != companyID || ap.ProfessionalID != professionalID {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if f.forceRace {
		return &domain.ConflictError{}
	}
	if ap.ID == "" {
		f.nextID++
		ap.ID = fmt.Sprintf("ap-%d", f.nextID)
	}
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeRepo) RescheduleAppointment(_ context.Context, ap *models.Appointment) error {
	if f.forceRace {
		return &domain.ConflictError{}
	}
	return f.UpdateAppointment(context.Background(), ap)
}

func (f *fakeRepo) GetAppointment(_ context.Context, companyID, appointmentID string) (*models.Appointment, error) {
	for _, ap := range f.appointments {
		if ap.CompanyID == companyID && ap.ID == appointmentID {
			copy := ap
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range f.appointments {
		if f.appointments[i].ID == ap.ID {
			f.appointments[i] = *ap
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, companyID, appointmentID string) error {
	for i := range f.appointments {
		if f.appointments[i].CompanyID == companyID && f.appointments[i].ID == appointmentID {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// Diferente da consulta de disponibilidade, o período devolve TODOS os
// status (cancelados aparecem nas listagens) e o profissional é filtro
// opcional, como no repositório real.
func (f *fakeRepo) ListAppointmentsForPeriod(
	_ context.Context,
	companyID string,
	professionalID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.CompanyID != companyID {
			continue
		}
		if professionalID != "" && ap.ProfessionalID != professionalID {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// fakeCache registra chamadas para verificar invalidação após escrita.
type fakeCache struct {
	stored       map[string]*domain.Availability
	invalidated  []string
	hits, misses int
}

var _ AvailabilityCache = (*fakeCache)(nil)

func newFakeCache() *fakeCache {
	return &fakeCache{stored: map[string]*domain.Availability{}}
}

func cacheKey(in domain.AvailabilityInput) string {
	return in.CompanyID + "|" + in.ProfessionalID + "|" + in.ServiceID + "|" +
		in.Date.Format("2006-01-02")
}

func (f *fakeCache) Get(_ context.Context, in domain.AvailabilityInput) (*domain.Availability, bool) {
	av, ok := f.stored[cacheKey(in)]
	if ok {
		f.hits++
	} else {
		f.misses++
	}
	return av, ok
}

func (f *fakeCache) Set(_ context.Context, in domain.AvailabilityInput, av *domain.Availability) {
	f.stored[cacheKey(in)] = av
}

func (f *fakeCache) InvalidateDay(_ context.Context, companyID, professionalID string, day time.Time) {
	f.invalidated = append(f.invalidated,
		companyID+"|"+professionalID+"|"+day.Format("2006-01-02"))

	prefix := companyID + "|" + professionalID + "|"
	suffix := "|" + day.Format("2006-01-02")
	for k := range f.stored {
		if strings.HasPrefix(k, prefix) && strings.HasSuffix(k, suffix) {
			delete(f.stored, k)
		}
	}
}

// Datas no futuro para passar na checagem de horário com relógio real.
var testDay = time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC)

func hm(h, m int) time.Time {
	return testDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}
