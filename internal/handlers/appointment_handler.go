package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/salonkit/salon-scheduler/internal/domain/appointment"
	"github.com/salonkit/salon-scheduler/internal/httperr"
	"github.com/salonkit/salon-scheduler/internal/httpresp"
	"github.com/salonkit/salon-scheduler/internal/middleware"
	"github.com/salonkit/salon-scheduler/internal/models"
	ucAppointment "github.com/salonkit/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	createUC       *ucAppointment.CreateAppointment
	rescheduleUC   *ucAppointment.RescheduleAppointment
	confirmUC      *ucAppointment.ConfirmAppointment
	cancelUC       *ucAppointment.CancelAppointment
	completeUC     *ucAppointment.CompleteAppointment
	deleteUC       *ucAppointment.DeleteAppointment
	availabilityUC *ucAppointment.GetAvailability
	listByDateUC   *ucAppointment.ListAppointmentsByDate
	listByMonthUC  *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	createUC *ucAppointment.CreateAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	confirmUC *ucAppointment.ConfirmAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	availabilityUC *ucAppointment.GetAvailability,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:             db,
		createUC:       createUC,
		rescheduleUC:   rescheduleUC,
		confirmUC:      confirmUC,
		cancelUC:       cancelUC,
		completeUC:     completeUC,
		deleteUC:       deleteUC,
		availabilityUC: availabilityUC,
		listByDateUC:   listByDateUC,
		listByMonthUC:  listByMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID string `json:"professional_id" binding:"required"`
	ServiceID      string `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone"`
	ClientEmail    string `json:"client_email"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	Notes          string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	ProfessionalID *string `json:"professional_id"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	ClientName     *string `json:"client_name"`
	ClientPhone    *string `json:"client_phone"`
	ClientEmail    *string `json:"client_email"`
	Notes          *string `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *AppointmentHandler) companyFromContext(c *gin.Context) (*models.Company, bool) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)

	var company models.Company
	if err := h.db.Where("id = ?", companyID).First(&company).Error; err != nil {
		httperr.Internal(c, "company_not_found", "Empresa não encontrada.")
		return nil, false
	}
	return &company, true
}

func actorFromContext(c *gin.Context) *string {
	userID := c.MustGet(middleware.ContextUserID).(string)
	return &userID
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	company, ok := h.companyFromContext(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
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
		ActorUserID:    actorFromContext(c),
	})
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	company, ok := h.companyFromContext(c)
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

	httpresp.OK(c, av)
}

// ======================================================
// UPDATE (remarcação usa o mesmo guard da criação)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	company, ok := h.companyFromContext(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := ucAppointment.RescheduleAppointmentInput{
		CompanyID:      company.ID,
		AppointmentID:  id,
		ProfessionalID: req.ProfessionalID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Notes:          req.Notes,
		ActorUserID:    actorFromContext(c),
	}

	if req.StartTime != nil {
		start, err := parseInstantInCompany(company, *req.StartTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
			return
		}
		in.StartTime = &start
	}
	if req.EndTime != nil {
		end, err := parseInstantInCompany(company, *req.EndTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
			return
		}
		in.EndTime = &end
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), in)
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// GET / DELETE
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)
	id := c.Param("id")

	var ap models.Appointment
	if err := h.db.
		Preload("Service").
		Preload("Professional").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&ap).Error; err != nil {
		httperr.NotFound(c, httperr.CodeAppointmentNotFound, "Agendamento não encontrado.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)

	err := h.deleteUC.Execute(
		c.Request.Context(),
		companyID,
		c.Param("id"),
		actorFromContext(c),
	)
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// LIST (filtros: profissional, serviço, status, período)
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	company, ok := h.companyFromContext(c)
	if !ok {
		return
	}

	q := h.db.
		Preload("Service").
		Preload("Professional").
		Where("company_id = ?", company.ID)

	if v := c.Query("professional_id"); v != "" {
		q = q.Where("professional_id = ?", v)
	}
	if v := c.Query("service_id"); v != "" {
		q = q.Where("service_id = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("status = ?", v)
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := parseDateInCompany(company, v); err == nil {
			q = q.Where("start_time >= ?", t)
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := parseDateInCompany(company, v); err == nil {
			q = q.Where("start_time < ?", t.AddDate(0, 0, 1))
		}
	}

	var aps []models.Appointment
	if err := q.Order("start_time ASC, id ASC").Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	company, ok := h.companyFromContext(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := parseDateInCompany(company, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	out, err := h.listByDateUC.Execute(
		c.Request.Context(),
		company.ID,
		c.Query("professional_id"),
		date,
	)
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	company, ok := h.companyFromContext(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	out, err := h.listByMonthUC.Execute(
		c.Request.Context(),
		company.ID,
		c.Query("professional_id"),
		year,
		month,
	)
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)

	ap, err := h.confirmUC.Execute(
		c.Request.Context(),
		companyID,
		c.Param("id"),
		actorFromContext(c),
	)
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)

	ap, err := h.cancelUC.Execute(
		c.Request.Context(),
		companyID,
		c.Param("id"),
		actorFromContext(c),
	)
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)

	ap, err := h.completeUC.Execute(
		c.Request.Context(),
		companyID,
		c.Param("id"),
		actorFromContext(c),
	)
	if err != nil {
		mapAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
