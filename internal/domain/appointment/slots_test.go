package appointment

import (
	"reflect"
	"testing"
	"time"

	"github.com/salonkit/salon-scheduler/internal/models"
)

func findSlot(t *testing.T, slots []Slot, start time.Time) Slot {
	t.Helper()
	for _, s := range slots {
		if s.StartTime.Equal(start) {
			return s
		}
	}
	t.Fatalf("slot starting at %s not found", start.Format("15:04"))
	return Slot{}
}

func TestBuildDayGrid_FullDayCount(t *testing.T) {
	grid := BuildDayGrid(day, DefaultWindow(), 30*time.Minute, nil)

	// 8h às 18h a cada 30min: 20 candidatos, todos terminam até 18:00.
	if len(grid.All) != 20 {
		t.Fatalf("expected 20 slots, got %d", len(grid.All))
	}
	if len(grid.Available) != 20 || len(grid.Occupied) != 0 {
		t.Fatalf("empty day must be fully available, got %d/%d",
			len(grid.Available), len(grid.Occupied))
	}

	first, last := grid.All[0], grid.All[len(grid.All)-1]
	if !first.StartTime.Equal(at(8, 0)) {
		t.Fatalf("first slot at %s", first.StartTime.Format("15:04"))
	}
	if !last.StartTime.Equal(at(17, 30)) {
		t.Fatalf("last slot at %s", last.StartTime.Format("15:04"))
	}
}

func TestBuildDayGrid_EndHourPolicy(t *testing.T) {
	// Serviço de 90min: o candidato 17:30 terminaria 19:00 (hora 19 > 18)
	// e é descartado; 17:00 termina 18:30 (hora 18) e permanece.
	grid := BuildDayGrid(day, DefaultWindow(), 90*time.Minute, nil)

	if len(grid.All) != 19 {
		t.Fatalf("expected 19 slots, got %d", len(grid.All))
	}

	last := grid.All[len(grid.All)-1]
	if !last.StartTime.Equal(at(17, 0)) || !last.EndTime.Equal(at(18, 30)) {
		t.Fatalf("last slot %s - %s",
			last.StartTime.Format("15:04"), last.EndTime.Format("15:04"))
	}
}

func TestBuildDayGrid_OccupiedAndDurationConflict(t *testing.T) {
	existing := []models.Appointment{
		ap("x", at(10, 0), at(10, 45), StatusConfirmed),
	}

	grid := BuildDayGrid(day, DefaultWindow(), 30*time.Minute, existing)

	s930 := findSlot(t, grid.All, at(9, 30))
	if !s930.IsAvailable {
		t.Fatalf("09:30 must be free, got %q", s930.ConflictType)
	}

	s1000 := findSlot(t, grid.All, at(10, 0))
	if !s1000.IsOccupied || s1000.ConflictType != ConflictOccupied {
		t.Fatalf("10:00 must be occupied, got %q", s1000.ConflictType)
	}
	s1030 := findSlot(t, grid.All, at(10, 30))
	if s1030.ConflictType != ConflictOccupied {
		t.Fatalf("10:30 must be occupied, got %q", s1030.ConflictType)
	}

	if s1000.ConflictingAppointment == nil ||
		!s1000.ConflictingAppointment.StartTime.Equal(at(10, 0)) {
		t.Fatal("occupied slot must reference the blocking appointment")
	}

	// Candidato fora da grade que termina dentro do agendamento.
	conflictType, _ := Classify(at(9, 45), at(10, 15), existing)
	if conflictType != ConflictDuration {
		t.Fatalf("9:45-10:15 must be duration_conflict, got %q", conflictType)
	}
}

func TestClassify_OccupiedWinsOverContained(t *testing.T) {
	// Slot de 60min começa dentro de "a" e engole "b" inteiro: occupied
	// vence porque é decidido contra todos antes de duration_conflict,
	// independente da ordem dos agendamentos.
	a := ap("a", at(9, 30), at(10, 15), StatusConfirmed)
	b := ap("b", at(10, 20), at(10, 40), StatusConfirmed)

	for _, existing := range [][]models.Appointment{{a, b}, {b, a}} {
		conflictType, conflicting := Classify(at(10, 0), at(11, 0), existing)
		if conflictType != ConflictOccupied {
			t.Fatalf("expected occupied, got %q", conflictType)
		}
		if conflicting.ID != "a" {
			t.Fatalf("expected appointment a, got %s", conflicting.ID)
		}
	}
}

func TestClassify_ContainedAppointment(t *testing.T) {
	existing := []models.Appointment{
		ap("tiny", at(10, 20), at(10, 40), StatusConfirmed),
	}

	conflictType, conflicting := Classify(at(10, 0), at(11, 0), existing)
	if conflictType != ConflictDuration {
		t.Fatalf("slot swallowing an appointment must be duration_conflict, got %q", conflictType)
	}
	if conflicting.ID != "tiny" {
		t.Fatalf("got %s", conflicting.ID)
	}
}

func TestBuildDayGrid_CancelledFreesSlot(t *testing.T) {
	existing := []models.Appointment{
		ap("x", at(10, 0), at(10, 30), StatusCancelled),
	}

	grid := BuildDayGrid(day, DefaultWindow(), 30*time.Minute, existing)

	if len(grid.Occupied) != 0 {
		t.Fatalf("cancelled appointment must not occupy slots, got %d", len(grid.Occupied))
	}
}

func TestBuildDayGrid_Deterministic(t *testing.T) {
	existing := []models.Appointment{
		ap("b", at(14, 0), at(15, 0), StatusPending),
		ap("a", at(10, 0), at(10, 45), StatusConfirmed),
	}

	first := BuildDayGrid(day, DefaultWindow(), 30*time.Minute, existing)
	second := BuildDayGrid(day, DefaultWindow(), 30*time.Minute, existing)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same inputs must produce the same grid")
	}
}

// Cada slot aparece em exatamente uma das visões e a ordem é preservada.
func TestBuildDayGrid_ViewsPartition(t *testing.T) {
	existing := []models.Appointment{
		ap("a", at(9, 0), at(9, 45), StatusConfirmed),
		ap("b", at(15, 30), at(16, 30), StatusPending),
	}

	grid := BuildDayGrid(day, DefaultWindow(), 45*time.Minute, existing)

	if len(grid.Available)+len(grid.Occupied) != len(grid.All) {
		t.Fatalf("views must partition the grid: %d + %d != %d",
			len(grid.Available), len(grid.Occupied), len(grid.All))
	}

	merged := map[time.Time]bool{}
	for _, s := range grid.Available {
		merged[s.StartTime] = true
	}
	for _, s := range grid.Occupied {
		if merged[s.StartTime] {
			t.Fatalf("slot %s in both views", s.StartTime.Format("15:04"))
		}
	}

	for i := 1; i < len(grid.All); i++ {
		if !grid.All[i-1].StartTime.Before(grid.All[i].StartTime) {
			t.Fatal("grid must be strictly ordered by start time")
		}
	}
}

// Grade e validação concordam: slot livre passa na validação, slot
// marcado é rejeitado com conflito.
func TestBuildDayGrid_AgreesWithValidateInterval(t *testing.T) {
	existing := []models.Appointment{
		ap("a", at(9, 0), at(9, 45), StatusConfirmed),
		ap("b", at(13, 0), at(14, 10), StatusPending),
	}

	duration := 45 * time.Minute
	grid := BuildDayGrid(day, DefaultWindow(), duration, existing)

	for _, s := range grid.All {
		err := ValidateInterval(GuardInput{
			Start:           s.StartTime,
			End:             s.EndTime,
			ServiceDuration: duration,
			Now:             at(0, 0),
			Existing:        existing,
		}, tolerance)

		if s.IsAvailable && err != nil {
			t.Fatalf("available slot %s rejected: %v", s.StartTime.Format("15:04"), err)
		}
		if !s.IsAvailable && !IsConflict(err) {
			t.Fatalf("flagged slot %s accepted", s.StartTime.Format("15:04"))
		}
	}
}
