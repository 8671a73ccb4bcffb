package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username           string     `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash       string     `gorm:"type:varchar(255);not null"`
	FirstName          string     `gorm:"type:varchar(150);not null"`
	LastName           string     `gorm:"type:varchar(150);not null"`
	Phone              string     `gorm:"type:varchar(20)"`
	Street             string     `gorm:"type:varchar(255)"`
	PostalCode         string     `gorm:"type:varchar(20)"`
	City               string     `gorm:"type:varchar(100)"`
	Role               string     `gorm:"type:varchar(50);not null;default:'user'"`
	Status             string     `gorm:"type:varchar(50);not null;default:'pending'"`
	EmailVerified      bool       `gorm:"default:false"`
	EmailVerifiedAt    *time.Time
	InsuranceCompanyId *uuid.UUID     `gorm:"type:uuid;index"`
	TariffId           *uuid.UUID     `gorm:"type:uuid;index"`
	InsuranceNumber    *string        `gorm:"type:varchar(100)"`
	MonthlyFee         *float64       `gorm:"type:decimal(10,2)"`
	ProfileCompleted   bool           `gorm:"default:false"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`

	// Relations
	InsuranceCompany  *InsuranceCompany `gorm:"foreignKey:InsuranceCompanyId;constraint:OnDelete:SET NULL"`
	Tariff            *Tariff           `gorm:"foreignKey:TariffId;constraint:OnDelete:SET NULL"`
	AdditionalTariffs []*Tariff         `gorm:"many2many:user_additional_tariffs;joinForeignKey:user_id;joinReferences:tariff_id"`
}

func (User) TableName() string {
	return "users"
}

type PasswordResetToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(255);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

type EmailVerificationToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(255);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}
