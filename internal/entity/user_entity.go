package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id                 uuid.UUID
	Username           string
	Email              string
	PasswordHash       string
	FirstName          string
	LastName           string
	Phone              string
	Street             string
	PostalCode         string
	City               string
	Role               UserRole
	Status             UserStatus
	EmailVerified      bool
	EmailVerifiedAt    *time.Time
	InsuranceCompanyId *uuid.UUID
	TariffId           *uuid.UUID
	InsuranceNumber    *string
	MonthlyFee         *float64
	ProfileCompleted   bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Loaded only when requested
	InsuranceCompany  *InsuranceCompany
	Tariff            *Tariff
	AdditionalTariffs []*Tariff
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// HasCompleteProfile reports whether every personal field and the
// insurance selection are filled in.
func (u *User) HasCompleteProfile() bool {
	for _, v := range []string{u.FirstName, u.LastName, u.Email, u.Phone, u.Street, u.PostalCode, u.City} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return u.InsuranceCompanyId != nil && u.TariffId != nil
}

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

type EmailVerificationToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
