package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCompany struct {
	CompanyID uuid.UUID
}

func (s ByCompany) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("company_id = ?", s.CompanyID)
}

type ByTariffType struct {
	Type string
}

func (s ByTariffType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// WithMainTariffs preloads each company's main tariffs and their add-ons.
type WithMainTariffs struct{}

func (s WithMainTariffs) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tariffs", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("type = ?", "main").Order("name ASC")
		}).
		Preload("Tariffs.AdditionalTariffs", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("name ASC")
		})
}

type WithAdditionalTariffs struct{}

func (s WithAdditionalTariffs) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("AdditionalTariffs")
}
