package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/httperr"
	"github.com/salonkit/salon-scheduler/internal/models"
	ucAppointment "github.com/salonkit/salon-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER (booking público por slug da empresa)
////////////////////////////////////////////////////////

type PublicHandler struct {
	db             *gorm.DB
	repo           domain.Repository
	createUC       *ucAppointment.CreateAppointment
	availabilityUC *ucAppointment.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	createUC *ucAppointment.CreateAppointment,
	availabilityUC *ucAppointment.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		repo:           repo,
		createUC:       createUC,
		availabilityUC: availabilityUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ProfessionalID string `json:"professional_id" binding:"required"`
	ServiceID      string `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone"`
	ClientEmail    string `json:"client_email"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	Notes          string `json:"notes"`
}

func (h *PublicHandler) companyFromSlug(c *gin.Context) (*models.Company, bool) {
	company, err := h.repo.GetCompanyBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "company_not_found", "Empresa não encontrada.")
		return nil, false
	}
	return company, true
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	company, ok := h.companyFromSlug(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("company_id = ? AND is_active = true", company.ID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company":  company,
		"services": services,
	})
}

////////////////////////////////////////////////////////
// PROFESSIONALS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListProfessionals(c *gin.Context) {
	company, ok := h.companyFromSlug(c)
	if !ok {
		return
	}

	var professionals []models.Professional
	if err := h.db.
		Where("company_id = ? AND is_active = true", company.ID).
		Order("name ASC").
		Find(&professionals).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company":       company,
		"professionals": professionals,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY (reuso total do use case)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	company, ok := h.companyFromSlug(c)
	if !ok {
		return
	}

	professionalID := c.Query("professional_id")
	serviceID := c.Query("service_id")
	dateStr := c.Query("date")

	if professionalID == "" || serviceID == "" || dateStr == "" {
		httperr.BadRequest(c, "missing_params", "Profissional, serviço e data obrigatórios.")
		return
	}

	date, err := parseDateInCompany(company, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	av, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		CompanyID:      company.ID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		Date:           date,
	})
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": av,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT (público → reusa o use case privado)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	company, ok := h.companyFromSlug(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseInstantInCompany(company, req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}
	end, err := parseInstantInCompany(company, req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		CompanyID:      company.ID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		StartTime:      start,
		EndTime:        end,
		Notes:          req.Notes,
	})
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}
