package contract

import (
	"context"

	"pkv-backend/internal/entity"
	"pkv-backend/internal/repository/specification"

	"github.com/google/uuid"
)

type InsuranceRepository interface {
	CreateCompany(ctx context.Context, company *entity.InsuranceCompany) error
	FindCompany(ctx context.Context, specs ...specification.Specification) (*entity.InsuranceCompany, error)
	FindCompanies(ctx context.Context, specs ...specification.Specification) ([]*entity.InsuranceCompany, error)

	CreateTariff(ctx context.Context, tariff *entity.Tariff) error
	FindTariff(ctx context.Context, specs ...specification.Specification) (*entity.Tariff, error)
	FindTariffs(ctx context.Context, specs ...specification.Specification) ([]*entity.Tariff, error)
	// LinkAdditionalTariffs sets the add-ons of a main tariff, replacing earlier links.
	LinkAdditionalTariffs(ctx context.Context, mainTariffId uuid.UUID, additionalIds []uuid.UUID) error

	// DeleteAll clears the catalog, including user selections that point at it.
	DeleteAll(ctx context.Context) error
}
