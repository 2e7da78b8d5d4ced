package appointment

import (
	"context"
	"testing"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/models"
)

// Listagens são o histórico do dia: cancelados aparecem, diferente do
// snapshot de conflito, que os descarta.
func TestListByDate_IncludesCancelled(t *testing.T) {
	repo := newFakeRepo()
	seedPending(repo, "prof-1", hm(10, 0), hm(10, 45))
	cancelled := repo.seed(models.Appointment{
		ProfessionalID: "prof-1",
		ServiceID:      "svc-45",
		StartTime:      hm(9, 0),
		EndTime:        hm(9, 45),
		Status:         string(domain.StatusCancelled),
	})

	out, err := NewListAppointmentsByDate(repo).
		Execute(context.Background(), "company-1", "prof-1", testDay)
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(out))
	}
	if out[0].ID != cancelled.ID || out[0].Status != string(domain.StatusCancelled) {
		t.Fatalf("cancelled appointment missing from the listing, first = %+v", out[0])
	}
}

func TestListByDate_ProfessionalFilterOptional(t *testing.T) {
	repo := newFakeRepo()
	seedPending(repo, "prof-1", hm(10, 0), hm(10, 45))
	seedPending(repo, "prof-2", hm(11, 0), hm(11, 45))

	all, err := NewListAppointmentsByDate(repo).
		Execute(context.Background(), "company-1", "", testDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("empty filter must list every professional, got %d", len(all))
	}

	one, err := NewListAppointmentsByDate(repo).
		Execute(context.Background(), "company-1", "prof-2", testDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 {
		t.Fatalf("expected only prof-2's appointment, got %d", len(one))
	}
}
