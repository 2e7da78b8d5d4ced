package appointment

import (
	"sort"
	"time"

	"github.com/salonkit/salon-scheduler/internal/models"
)

// ===============================
// Grade de horários
// ===============================

type ConflictType string

const (
	// Slot começa dentro de um agendamento em andamento (vermelho).
	ConflictOccupied ConflictType = "occupied"
	// Slot começa livre mas a duração do serviço invade um agendamento
	// posterior, ou engole um agendamento inteiro (laranja).
	ConflictDuration ConflictType = "duration_conflict"
)

// Window define a janela de atendimento em hora local da empresa.
// Os inícios candidatos vão de StartHour (inclusive) a EndHour (exclusive),
// a cada StepMin minutos.
type Window struct {
	StartHour int
	EndHour   int
	StepMin   int
}

func DefaultWindow() Window {
	return Window{StartHour: 8, EndHour: 18, StepMin: 30}
}

// AppointmentRef expõe apenas o intervalo do agendamento conflitante.
type AppointmentRef struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Slot é derivado, nunca persistido. Produzido a cada consulta.
type Slot struct {
	StartTime              time.Time       `json:"start_time"`
	EndTime                time.Time       `json:"end_time"`
	IsAvailable            bool            `json:"is_available"`
	IsOccupied             bool            `json:"is_occupied"`
	ConflictType           ConflictType    `json:"conflict_type,omitempty"`
	ConflictingAppointment *AppointmentRef `json:"conflicting_appointment,omitempty"`
}

// Availability são três visões sobre a mesma grade ordenada.
type Availability struct {
	Available []Slot `json:"available"`
	Occupied  []Slot `json:"occupied"`
	All       []Slot `json:"all"`
}

// Classify avalia um slot candidato contra o conjunto de agendamentos.
// A precedência importa: "occupied" é decidido contra TODOS os
// agendamentos antes de considerar "duration_conflict", para que o rótulo
// não dependa da ordem de criação dos agendamentos. Em cada fase vence o
// agendamento de menor StartTime (empate: menor ID); Classify espera o
// slice já ordenado assim.
func Classify(
	slotStart time.Time,
	slotEnd time.Time,
	existing []models.Appointment,
) (ConflictType, *models.Appointment) {

	for i := range existing {
		ap := &existing[i]
		if !CountsForConflict(Status(ap.Status)) {
			continue
		}
		if StartsWithin(slotStart, ap.StartTime, ap.EndTime) {
			return ConflictOccupied, ap
		}
	}

	for i := range existing {
		ap := &existing[i]
		if !CountsForConflict(Status(ap.Status)) {
			continue
		}
		if EndsWithin(slotEnd, ap.StartTime, ap.EndTime) ||
			Contains(slotStart, slotEnd, ap.StartTime, ap.EndTime) {
			return ConflictDuration, ap
		}
	}

	return "", nil
}

// BuildDayGrid gera a grade completa do dia para um serviço.
// day deve ser 00:00 no fuso da empresa. Candidatos cujo horário de
// término ultrapassa EndHour (comparação por hora do dia, estrita) são
// descartados; terminar exatamente em EndHour:00 é permitido.
func BuildDayGrid(
	day time.Time,
	w Window,
	serviceDuration time.Duration,
	existing []models.Appointment,
) Availability {

	sorted := make([]models.Appointment, len(existing))
	copy(sorted, existing)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := Availability{
		Available: []Slot{},
		Occupied:  []Slot{},
		All:       []Slot{},
	}

	for hour := w.StartHour; hour < w.EndHour; hour++ {
		for minute := 0; minute < 60; minute += w.StepMin {
			slotStart := time.Date(
				day.Year(), day.Month(), day.Day(),
				hour, minute, 0, 0,
				day.Location(),
			)
			slotEnd := slotStart.Add(serviceDuration)

			if slotEnd.Hour() > w.EndHour {
				continue
			}

			conflictType, conflicting := Classify(slotStart, slotEnd, sorted)

			slot := Slot{
				StartTime:    slotStart,
				EndTime:      slotEnd,
				IsAvailable:  conflictType == "",
				IsOccupied:   conflictType == ConflictOccupied,
				ConflictType: conflictType,
			}
			if conflicting != nil {
				slot.ConflictingAppointment = &AppointmentRef{
					StartTime: conflicting.StartTime,
					EndTime:   conflicting.EndTime,
				}
			}

			out.All = append(out.All, slot)
			if slot.IsAvailable {
				out.Available = append(out.Available, slot)
			} else {
				out.Occupied = append(out.Occupied, slot)
			}
		}
	}

	return out
}
