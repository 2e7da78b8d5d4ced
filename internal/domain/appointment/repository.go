package appointment

import (
	"context"
	"time"

	"github.com/salonkit/salon-scheduler/internal/models"
)

// Repository é o colaborador de dados injetado nos casos de uso. O core
// nunca abre conexão própria: recebe o snapshot e devolve visões.
type Repository interface {
	// -------- Company --------
	GetCompanyByID(
		ctx context.Context,
		id string,
	) (*models.Company, error)

	GetCompanyBySlug(
		ctx context.Context,
		slug string,
	) (*models.Company, error)

	// -------- Professional / Service --------
	GetProfessional(
		ctx context.Context,
		companyID string,
		professionalID string,
	) (*models.Professional, error)

	GetService(
		ctx context.Context,
		companyID string,
		serviceID string,
	) (*models.Service, error)

	// -------- Appointment (snapshot) --------

	// ListAppointmentsForDay devolve os agendamentos não cancelados do
	// profissional no intervalo, ordenados por (start_time, id).
	ListAppointmentsForDay(
		ctx context.Context,
		companyID string,
		professionalID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment (create / update, com re-checagem) --------

	// CreateAppointment insere dentro de uma transação que refaz a
	// checagem de conflito com lock; corrida perdida vira *ConflictError.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// RescheduleAppointment persiste novo intervalo com a mesma
	// re-checagem transacional, excluindo o próprio agendamento.
	RescheduleAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change / leitura) --------
	GetAppointment(
		ctx context.Context,
		companyID string,
		appointmentID string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		companyID string,
		appointmentID string,
	) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		companyID string,
		professionalID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
