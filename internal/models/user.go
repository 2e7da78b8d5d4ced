package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID string  `gorm:"type:uuid;index" json:"company_id"`
	Company   Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"company"`

	Email        string `gorm:"size:100;index:idx_users_company_email,unique;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	Role         string `gorm:"size:20;default:'USER'" json:"role"`

	// Conta vinculada a um profissional (quando o usuário é um profissional)
	ProfessionalID *string `gorm:"type:uuid" json:"professional_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
