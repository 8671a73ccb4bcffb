package implementation

import (
	"context"
	"errors"

	"pkv-backend/internal/entity"
	"pkv-backend/internal/mapper"
	"pkv-backend/internal/model"
	"pkv-backend/internal/repository/contract"
	"pkv-backend/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InsuranceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InsuranceMapper
}

func NewInsuranceRepository(db *gorm.DB) contract.InsuranceRepository {
	return &InsuranceRepositoryImpl{
		db:     db,
		mapper: mapper.NewInsuranceMapper(),
	}
}

func (r *InsuranceRepositoryImpl) CreateCompany(ctx context.Context, company *entity.InsuranceCompany) error {
	m := r.mapper.CompanyToModel(company)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	company.Id = m.Id
	company.CreatedAt = m.CreatedAt
	company.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *InsuranceRepositoryImpl) FindCompany(ctx context.Context, specs ...specification.Specification) (*entity.InsuranceCompany, error) {
	var m model.InsuranceCompany
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CompanyToEntity(&m), nil
}

func (r *InsuranceRepositoryImpl) FindCompanies(ctx context.Context, specs ...specification.Specification) ([]*entity.InsuranceCompany, error) {
	var models []*model.InsuranceCompany
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.CompaniesToEntities(models), nil
}

func (r *InsuranceRepositoryImpl) CreateTariff(ctx context.Context, tariff *entity.Tariff) error {
	m := r.mapper.TariffToModel(tariff)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	tariff.Id = m.Id
	tariff.CreatedAt = m.CreatedAt
	tariff.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *InsuranceRepositoryImpl) FindTariff(ctx context.Context, specs ...specification.Specification) (*entity.Tariff, error) {
	var m model.Tariff
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TariffToEntity(&m), nil
}

func (r *InsuranceRepositoryImpl) FindTariffs(ctx context.Context, specs ...specification.Specification) ([]*entity.Tariff, error) {
	var models []*model.Tariff
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TariffsToEntities(models), nil
}

func (r *InsuranceRepositoryImpl) LinkAdditionalTariffs(ctx context.Context, mainTariffId uuid.UUID, additionalIds []uuid.UUID) error {
	addons := make([]*model.Tariff, len(additionalIds))
	for i, id := range additionalIds {
		addons[i] = &model.Tariff{Id: id}
	}
	return r.db.WithContext(ctx).Model(&model.Tariff{Id: mainTariffId}).Association("AdditionalTariffs").Replace(addons)
}

func (r *InsuranceRepositoryImpl) DeleteAll(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	statements := []string{
		"DELETE FROM user_additional_tariffs",
		"UPDATE users SET insurance_company_id = NULL, tariff_id = NULL, profile_completed = false",
		"DELETE FROM tariff_additional_tariffs",
		"DELETE FROM tariffs",
		"DELETE FROM insurance_companies",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
