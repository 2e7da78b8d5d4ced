package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/httperr"
	"github.com/salonkit/salon-scheduler/internal/models"
)

const testTolerance = 5 * time.Minute

func TestCreateAppointment_HappyPath(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	uc := NewCreateAppointment(repo, nil, testTolerance, cache)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		CompanyID:      "company-1",
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		ClientName:     "Maria",
		ClientPhone:    "11999990000",
		StartTime:      hm(10, 0),
		EndTime:        hm(10, 45),
	})
	if err != nil {
		t.Fatal(err)
	}

	if ap.ID == "" {
		t.Fatal("created appointment must have an id")
	}
	if ap.Status != string(domain.StatusPending) {
		t.Fatalf("new appointment must be PENDING, got %s", ap.Status)
	}
	if len(repo.appointments) != 1 {
		t.Fatalf("expected 1 persisted appointment, got %d", len(repo.appointments))
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "company-1|prof-1|2030-03-10" {
		t.Fatalf("create must invalidate the day's cache, got %v", cache.invalidated)
	}
}

func TestCreateAppointment_Conflict(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(models.Appointment{
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		StartTime:      hm(10, 0),
		EndTime:        hm(10, 45),
	})
	uc := NewCreateAppointment(repo, nil, testTolerance, nil)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		CompanyID:      "company-1",
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		ClientName:     "Maria",
		StartTime:      hm(10, 30),
		EndTime:        hm(11, 15),
	})

	conflict, ok := domain.AsConflict(err)
	if !ok {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.Conflicting == nil || !conflict.Conflicting.StartTime.Equal(hm(10, 0)) {
		t.Fatal("validation conflict must reference the existing appointment")
	}
	if len(repo.appointments) != 1 {
		t.Fatal("conflicting create must not persist")
	}
}

func TestCreateAppointment_TouchingSucceeds(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(models.Appointment{
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		StartTime:      hm(10, 0),
		EndTime:        hm(10, 45),
	})
	uc := NewCreateAppointment(repo, nil, testTolerance, nil)

	if _, err := uc.Execute(context.Background(), CreateAppointmentInput{
		CompanyID:      "company-1",
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		ClientName:     "José",
		StartTime:      hm(10, 45),
		EndTime:        hm(11, 30),
	}); err != nil {
		t.Fatalf("back-to-back appointments must be allowed, got %v", err)
	}
}

func TestCreateAppointment_OtherProfessionalDoesNotBlock(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(models.Appointment{
		ProfessionalID: "prof-2",
		ServiceID:      "svc-45",
		StartTime:      hm(10, 0),
		EndTime:        hm(10, 45),
	})
	uc := NewCreateAppointment(repo, nil, testTolerance, nil)

	if _, err := uc.Execute(context.Background(), CreateAppointmentInput{
		CompanyID:      "company-1",
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		ClientName:     "Maria",
		StartTime:      hm(10, 0),
		EndTime:        hm(10, 45),
	}); err != nil {
		t.Fatalf("conflict scope is per professional, got %v", err)
	}
}

func TestCreateAppointment_ValidationErrors(t *testing.T) {
	uc := NewCreateAppointment(newFakeRepo(), nil, testTolerance, nil)

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		wantCode string
	}{
		{"inverted", hm(11, 0), hm(10, 0), httperr.CodeInvalidInterval},
		{"zero length", hm(10, 0), hm(10, 0), httperr.CodeInvalidInterval},
		{"duration too short", hm(10, 0), hm(10, 30), httperr.CodeDurationMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), CreateAppointmentInput{
				CompanyID:      "company-1",
				ProfessionalID: "prof-1",
				ServiceID:      "svc-45",
				ClientName:     "Maria",
				StartTime:      tc.start,
				EndTime:        tc.end,
			})
			if !httperr.IsBusiness(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestCreateAppointment_PastStartTime(t *testing.T) {
	uc := NewCreateAppointment(newFakeRepo(), nil, testTolerance, nil)

	past := time.Date(2020, 3, 10, 10, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		CompanyID:      "company-1",
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		ClientName:     "Maria",
		StartTime:      past,
		EndTime:        past.Add(45 * time.Minute),
	})

	if !httperr.IsBusiness(err, httperr.CodePastStartTime) {
		t.Fatalf("expected past_start_time, got %v", err)
	}
}

// Corrida perdida: a validação passa mas o banco acusa a colisão na
// re-checagem transacional. O erro ainda é de conflito, sem inventar
// referência ao agendamento vencedor.
func TestCreateAppointment_LostRace(t *testing.T) {
	repo := newFakeRepo()
	repo.forceRace = true
	cache := newFakeCache()
	uc := NewCreateAppointment(repo, nil, testTolerance, cache)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		CompanyID:      "company-1",
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		ClientName:     "Maria",
		StartTime:      hm(10, 0),
		EndTime:        hm(10, 45),
	})

	conflict, ok := domain.AsConflict(err)
	if !ok {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.Conflicting != nil {
		t.Fatal("storage race must not carry an appointment reference")
	}
	if len(cache.invalidated) != 0 {
		t.Fatal("failed create must not invalidate the cache")
	}
}

func TestCreateAppointment_CancelledSlotReusable(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(models.Appointment{
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		StartTime:      hm(10, 0),
		EndTime:        hm(10, 45),
		Status:         string(domain.StatusCancelled),
	})
	uc := NewCreateAppointment(repo, nil, testTolerance, nil)

	if _, err := uc.Execute(context.Background(), CreateAppointmentInput{
		CompanyID:      "company-1",
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		ClientName:     "Maria",
		StartTime:      hm(10, 0),
		EndTime:        hm(10, 45),
	}); err != nil {
		t.Fatalf("cancelled appointment must free the slot, got %v", err)
	}
}
