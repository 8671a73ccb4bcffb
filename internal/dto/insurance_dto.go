// FILE: internal/dto/insurance_dto.go
package dto

import "github.com/google/uuid"

type CompanyRef struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TariffRef struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

type TariffResponse struct {
	Id                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Code              *string          `json:"code,omitempty"`
	Slug              *string          `json:"slug,omitempty"`
	Type              string           `json:"type"`
	CompanyId         uuid.UUID        `json:"company_id"`
	AdditionalTariffs []TariffResponse `json:"additional_tariffs,omitempty"`
}

type CompanyResponse struct {
	Id      uuid.UUID        `json:"id"`
	Name    string           `json:"name"`
	Code    *string          `json:"code,omitempty"`
	Slug    *string          `json:"slug,omitempty"`
	Tariffs []TariffResponse `json:"main_tariffs"`
}

type TariffFilter struct {
	CompanyId *uuid.UUID
	Type      string
}

type CompleteProfileRequest struct {
	InsuranceCompanyId uuid.UUID `json:"insurance_company" validate:"required"`
	TariffId           uuid.UUID `json:"tariff" validate:"required"`
}

type InsuranceSelectionRequest struct {
	CompanyId           uuid.UUID   `json:"company" validate:"required"`
	TariffId            uuid.UUID   `json:"tariff" validate:"required"`
	AdditionalTariffIds []uuid.UUID `json:"additional_tariffs"`
}

type InsuranceSelectionResponse struct {
	Message           string   `json:"message"`
	Company           string   `json:"company"`
	Tariff            string   `json:"tariff"`
	AdditionalTariffs []string `json:"additional_tariffs"`
}

// MyTariffResponse is empty when no selection has been made.
type MyTariffResponse struct {
	InsuranceCompany       *CompanyRef `json:"insurance_company,omitempty"`
	Tariff                 *TariffRef  `json:"tariff,omitempty"`
	AdditionalTariffs      []TariffRef `json:"additional_tariffs,omitempty"`
	CompanyName            string      `json:"company_name,omitempty"`
	TariffName             string      `json:"tariff_name,omitempty"`
	AdditionalTariffsNames []string    `json:"additional_tariffs_names,omitempty"`
	InsuranceNumber        *string     `json:"insurance_number,omitempty"`
	MonthlyFee             *float64    `json:"monthly_fee,omitempty"`
}

type UpdateMyTariffRequest struct {
	InsuranceCompanyId  *uuid.UUID   `json:"insurance_company"`
	TariffId            *uuid.UUID   `json:"tariff"`
	AdditionalTariffIds *[]uuid.UUID `json:"additional_tariffs"`
	InsuranceNumber     *string      `json:"insurance_number" validate:"omitempty,max=50"`
	MonthlyFee          *float64     `json:"monthly_fee" validate:"omitempty,gte=0"`
}

// Catalog import file layout: companies, their main tariffs and each main
// tariff's add-ons, referenced by name.
type CatalogCompany struct {
	Name    string          `json:"name" validate:"required"`
	Code    string          `json:"code,omitempty"`
	Slug    string          `json:"slug,omitempty"`
	Tariffs []CatalogTariff `json:"tariffs"`
}

type CatalogTariff struct {
	Name              string          `json:"name" validate:"required"`
	Code              string          `json:"code,omitempty"`
	Slug              string          `json:"slug,omitempty"`
	AdditionalTariffs []CatalogTariff `json:"additional_tariffs"`
}

type CatalogImportResult struct {
	Companies         int `json:"companies"`
	MainTariffs       int `json:"main_tariffs"`
	AdditionalTariffs int `json:"additional_tariffs"`
}
