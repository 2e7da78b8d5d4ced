package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Professional struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID string  `gorm:"type:uuid;index" json:"company_id"`
	Company   Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"company"`

	Name       string  `gorm:"size:100;not null" json:"name"`
	Email      string  `gorm:"size:100" json:"email"`
	Phone      string  `gorm:"size:20" json:"phone"`
	Commission float64 `json:"commission"`
	IsActive   bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Professional) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
