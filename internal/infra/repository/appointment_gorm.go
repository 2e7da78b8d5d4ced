package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Company
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCompanyByID(
	ctx context.Context,
	id string,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *AppointmentGormRepository) GetCompanyBySlug(
	ctx context.Context,
	slug string,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = true", slug).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// --------------------------------------------------
// Professional / Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	companyID string,
	professionalID string,
) (*models.Professional, error) {

	var professional models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", professionalID, companyID).
		First(&professional).Error; err != nil {
		return nil, err
	}
	return &professional, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	companyID string,
	serviceID string,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", serviceID, companyID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment (snapshot)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	companyID string,
	professionalID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "professional_id", "start_time", "end_time", "status").
		Where(
			"company_id = ? AND professional_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			companyID, professionalID, string(domain.StatusCancelled), start, end,
		).
		Order("start_time ASC, id ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Appointment (create / reschedule, com re-checagem)
// --------------------------------------------------

// CreateAppointment refaz a checagem de conflito dentro da transação com
// lock FOR UPDATE antes de inserir. Duas requisições simultâneas que
// passaram no guard contra o mesmo snapshot serializam aqui; a perdedora
// recebe *domain.ConflictError.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.recheckConflict(tx, ap, ""); err != nil {
			return err
		}
		return tx.Create(ap).Error
	})

	return translateConflict(err)
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.recheckConflict(tx, ap, ap.ID); err != nil {
			return err
		}
		return tx.Save(ap).Error
	})

	return translateConflict(err)
}

func (r *AppointmentGormRepository) recheckConflict(
	tx *gorm.DB,
	ap *models.Appointment,
	excludeID string,
) error {

	q := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"company_id = ? AND professional_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			ap.CompanyID, ap.ProfessionalID, string(domain.StatusCancelled),
			ap.EndTime, ap.StartTime,
		)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var conflicts []models.Appointment
	if err := q.
		Order("start_time ASC, id ASC").
		Limit(1).
		Find(&conflicts).Error; err != nil {
		return err
	}

	if len(conflicts) > 0 {
		return &domain.ConflictError{Conflicting: &conflicts[0]}
	}

	return nil
}

// translateConflict converte violação de constraint do postgres (corrida
// perdida mesmo após o lock, ex.: EXCLUDE por intervalo) no mesmo tipo de
// conflito do domínio, sem inventar referência ao registro vencedor.
func translateConflict(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23P01 = exclusion_violation, 23505 = unique_violation
		if pgErr.Code == "23P01" || pgErr.Code == "23505" {
			return &domain.ConflictError{}
		}
	}

	return err
}

// --------------------------------------------------
// Appointment (state change / leitura)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	companyID string,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", appointmentID, companyID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	companyID string,
	appointmentID string,
) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", appointmentID, companyID).
		Delete(&models.Appointment{}).Error
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	companyID string,
	professionalID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Professional").
		Where(
			"company_id = ? AND start_time >= ? AND start_time < ?",
			companyID, start, end,
		)
	if professionalID != "" {
		q = q.Where("professional_id = ?", professionalID)
	}

	var aps []models.Appointment
	if err := q.
		Order("start_time ASC, id ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
