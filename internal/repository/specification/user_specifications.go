package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(email) = LOWER(?)", s.Email)
}

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(username) = LOWER(?)", s.Username)
}

// ByLogin matches either the username or the e-mail address.
type ByLogin struct {
	Identifier string
}

func (s ByLogin) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", s.Identifier, s.Identifier)
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// WithInsuranceSelection preloads company, main tariff and add-ons.
type WithInsuranceSelection struct{}

func (s WithInsuranceSelection) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("InsuranceCompany").Preload("Tariff").Preload("AdditionalTariffs")
}

// Token Specs

type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

type TokenUnused struct{}

func (s TokenUnused) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("used = ?", false)
}
