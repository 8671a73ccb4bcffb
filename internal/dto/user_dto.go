// FILE: internal/dto/user_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Phone            string    `json:"phone"`
	Street           string    `json:"street"`
	PostalCode       string    `json:"postal_code"`
	City             string    `json:"city"`
	Role             string    `json:"role"`
	Status           string    `json:"status"`
	ProfileCompleted bool      `json:"profile_completed"`
	CreatedAt        time.Time `json:"created_at"`

	InsuranceCompany  *CompanyRef `json:"insurance_company,omitempty"`
	Tariff            *TariffRef  `json:"tariff,omitempty"`
	AdditionalTariffs []TariffRef `json:"additional_tariffs"`
	InsuranceNumber   *string     `json:"insurance_number,omitempty"`
	MonthlyFee        *float64    `json:"monthly_fee,omitempty"`
}

// UpdateProfileRequest applies only the fields that are present.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	Street     *string `json:"street" validate:"omitempty,max=200"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=10"`
	City       *string `json:"city" validate:"omitempty,max=100"`
}
