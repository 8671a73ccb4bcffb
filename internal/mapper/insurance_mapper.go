package mapper

import (
	"pkv-backend/internal/entity"
	"pkv-backend/internal/model"
)

type InsuranceMapper struct{}

func NewInsuranceMapper() *InsuranceMapper {
	return &InsuranceMapper{}
}

func (m *InsuranceMapper) CompanyToEntity(c *model.InsuranceCompany) *entity.InsuranceCompany {
	if c == nil {
		return nil
	}
	return &entity.InsuranceCompany{
		Id:        c.Id,
		Name:      c.Name,
		Code:      c.Code,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Tariffs:   m.TariffsToEntities(c.Tariffs),
	}
}

func (m *InsuranceMapper) CompanyToModel(c *entity.InsuranceCompany) *model.InsuranceCompany {
	if c == nil {
		return nil
	}
	return &model.InsuranceCompany{
		Id:        c.Id,
		Name:      c.Name,
		Code:      c.Code,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *InsuranceMapper) CompaniesToEntities(companies []*model.InsuranceCompany) []*entity.InsuranceCompany {
	entities := make([]*entity.InsuranceCompany, len(companies))
	for i, c := range companies {
		entities[i] = m.CompanyToEntity(c)
	}
	return entities
}

func (m *InsuranceMapper) TariffToEntity(t *model.Tariff) *entity.Tariff {
	if t == nil {
		return nil
	}
	return &entity.Tariff{
		Id:                t.Id,
		Name:              t.Name,
		Code:              t.Code,
		Slug:              t.Slug,
		CompanyId:         t.CompanyId,
		Type:              entity.TariffType(t.Type),
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		AdditionalTariffs: m.TariffsToEntities(t.AdditionalTariffs),
	}
}

func (m *InsuranceMapper) TariffToModel(t *entity.Tariff) *model.Tariff {
	if t == nil {
		return nil
	}
	return &model.Tariff{
		Id:        t.Id,
		Name:      t.Name,
		Code:      t.Code,
		Slug:      t.Slug,
		CompanyId: t.CompanyId,
		Type:      string(t.Type),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *InsuranceMapper) TariffsToEntities(tariffs []*model.Tariff) []*entity.Tariff {
	if tariffs == nil {
		return nil
	}
	entities := make([]*entity.Tariff, len(tariffs))
	for i, t := range tariffs {
		entities[i] = m.TariffToEntity(t)
	}
	return entities
}
