package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salonkit/salon-scheduler/internal/httperr"
	"github.com/salonkit/salon-scheduler/internal/httpresp"
	"github.com/salonkit/salon-scheduler/internal/middleware"
	"github.com/salonkit/salon-scheduler/internal/models"
	"github.com/salonkit/salon-scheduler/internal/validators"
)

type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

type CreateProfessionalRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6"`
	Phone      string  `json:"phone"`
	Commission float64 `json:"commission"`
}

type UpdateProfessionalRequest struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	Commission *float64 `json:"commission"`
	IsActive   *bool    `json:"is_active"`
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)

	var professionals []models.Professional
	if err := h.db.
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&professionals).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	httpresp.List(c, professionals)
}

// Create cria o profissional e a conta de usuário vinculada a ele.
func (h *ProfessionalHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail não parece ser válido.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).
		Where("company_id = ? AND email = ?", companyID, email).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado nesta empresa.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar senha.")
		return
	}

	professional := models.Professional{
		CompanyID:  companyID,
		Name:       req.Name,
		Email:      email,
		Phone:      req.Phone,
		Commission: req.Commission,
		IsActive:   true,
	}

	nameParts := strings.Fields(req.Name)
	firstName := req.Name
	lastName := ""
	if len(nameParts) > 0 {
		firstName = nameParts[0]
		lastName = strings.Join(nameParts[1:], " ")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&professional).Error; err != nil {
			return err
		}

		user := models.User{
			CompanyID:      companyID,
			Email:          email,
			PasswordHash:   string(hashed),
			FirstName:      firstName,
			LastName:       lastName,
			Role:           "USER",
			ProfessionalID: &professional.ID,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_professional", "Erro ao criar profissional.")
		return
	}

	httpresp.Created(c, professional)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)
	id := c.Param("id")

	var professional models.Professional
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&professional).Error; err != nil {
		httperr.NotFound(c, httperr.CodeProfessionalNotFound, "Profissional não encontrado.")
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		professional.Name = *req.Name
	}
	if req.Email != nil {
		professional.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		professional.Phone = *req.Phone
	}
	if req.Commission != nil {
		professional.Commission = *req.Commission
	}
	if req.IsActive != nil {
		professional.IsActive = *req.IsActive
	}

	if err := h.db.Save(&professional).Error; err != nil {
		httperr.Internal(c, "failed_to_update_professional", "Erro ao atualizar profissional.")
		return
	}

	httpresp.OK(c, professional)
}

func (h *ProfessionalHandler) Delete(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(string)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&models.Professional{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_professional", "Erro ao excluir profissional.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, httperr.CodeProfessionalNotFound, "Profissional não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}
