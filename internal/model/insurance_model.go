package model

import (
	"time"

	"github.com/google/uuid"
)

type InsuranceCompany struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Code      *string   `gorm:"type:varchar(100)"`
	Slug      *string   `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Tariffs []*Tariff `gorm:"foreignKey:CompanyId;constraint:OnDelete:CASCADE"`
}

func (InsuranceCompany) TableName() string {
	return "insurance_companies"
}

type Tariff struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null;index"`
	Code      *string   `gorm:"type:varchar(100)"`
	Slug      *string   `gorm:"type:varchar(100)"`
	CompanyId uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(20);not null;default:'main'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// add-ons offered with a main tariff
	AdditionalTariffs []*Tariff `gorm:"many2many:tariff_additional_tariffs;joinForeignKey:main_tariff_id;joinReferences:additional_tariff_id"`
}

func (Tariff) TableName() string {
	return "tariffs"
}
