// FILE: internal/service/insurance_service.go
package service

import (
	"context"
	"strings"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/repository/contract"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IInsuranceService interface {
	ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error)
	ListTariffs(ctx context.Context, filter dto.TariffFilter) ([]dto.TariffResponse, error)
	CompleteProfile(ctx context.Context, userId uuid.UUID, req *dto.CompleteProfileRequest) (*dto.UserProfileResponse, error)
	SelectInsurance(ctx context.Context, userId uuid.UUID, req *dto.InsuranceSelectionRequest) (*dto.InsuranceSelectionResponse, error)
	GetMyTariff(ctx context.Context, userId uuid.UUID) (*dto.MyTariffResponse, error)
	UpdateMyTariff(ctx context.Context, userId uuid.UUID, req *dto.UpdateMyTariffRequest) (*dto.MyTariffResponse, error)
	ImportCatalog(ctx context.Context, companies []dto.CatalogCompany, clear bool, report CatalogReporter) (*dto.CatalogImportResult, error)
}

// CatalogReporter receives import progress. May be nil.
type CatalogReporter interface {
	Company(name string)
	MainTariff(name string, additional []string)
}

type insuranceService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewInsuranceService(uowFactory unitofwork.RepositoryFactory) IInsuranceService {
	return &insuranceService{uowFactory: uowFactory}
}

func (s *insuranceService) ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	companies, err := uow.InsuranceRepository().FindCompanies(ctx,
		specification.WithMainTariffs{},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		res = append(res, toCompanyResponse(c))
	}
	return res, nil
}

func (s *insuranceService) ListTariffs(ctx context.Context, filter dto.TariffFilter) ([]dto.TariffResponse, error) {
	specs := []specification.Specification{
		specification.WithAdditionalTariffs{},
		specification.OrderBy{Field: "name"},
	}
	if filter.CompanyId != nil {
		specs = append(specs, specification.ByCompany{CompanyID: *filter.CompanyId})
	}
	if filter.Type != "" {
		specs = append(specs, specification.ByTariffType{Type: filter.Type})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tariffs, err := uow.InsuranceRepository().FindTariffs(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]dto.TariffResponse, 0, len(tariffs))
	for _, t := range tariffs {
		res = append(res, toTariffResponse(t))
	}
	return res, nil
}

func (s *insuranceService) CompleteProfile(ctx context.Context, userId uuid.UUID, req *dto.CompleteProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.loadUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	company, tariff, err := s.resolveSelection(ctx, uow.InsuranceRepository(), req.InsuranceCompanyId, req.TariffId)
	if err != nil {
		return nil, err
	}

	user.InsuranceCompanyId = &company.Id
	user.TariffId = &tariff.Id
	user.ProfileCompleted = user.HasCompleteProfile()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	user.InsuranceCompany = company
	user.Tariff = tariff
	res := toUserProfile(user)
	return &res, nil
}

func (s *insuranceService) SelectInsurance(ctx context.Context, userId uuid.UUID, req *dto.InsuranceSelectionRequest) (*dto.InsuranceSelectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.loadUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	company, tariff, err := s.resolveSelection(ctx, uow.InsuranceRepository(), req.CompanyId, req.TariffId)
	if err != nil {
		return nil, err
	}
	additional, err := s.additionalOf(ctx, uow.InsuranceRepository(), company.Id, req.AdditionalTariffIds)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user.InsuranceCompanyId = &company.Id
	user.TariffId = &tariff.Id
	user.ProfileCompleted = true
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().ReplaceAdditionalTariffs(ctx, user.Id, tariffIds(additional)); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(additional))
	for _, t := range additional {
		names = append(names, t.Name)
	}
	return &dto.InsuranceSelectionResponse{
		Message:           "Insurance selection saved",
		Company:           company.Name,
		Tariff:            tariff.Name,
		AdditionalTariffs: names,
	}, nil
}

func (s *insuranceService) GetMyTariff(ctx context.Context, userId uuid.UUID) (*dto.MyTariffResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx,
		specification.ByID{ID: userId},
		specification.WithInsuranceSelection{},
	)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toMyTariff(user), nil
}

// UpdateMyTariff applies a partial update. Add-ons are always filtered to
// the company the user ends up with.
func (s *insuranceService) UpdateMyTariff(ctx context.Context, userId uuid.UUID, req *dto.UpdateMyTariffRequest) (*dto.MyTariffResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.InsuranceRepository()

	user, err := s.loadUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	if req.InsuranceCompanyId != nil {
		company, err := repo.FindCompany(ctx, specification.ByID{ID: *req.InsuranceCompanyId})
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, ErrCompanyNotFound
		}
		user.InsuranceCompanyId = &company.Id
	}
	if req.TariffId != nil {
		tariff, err := repo.FindTariff(ctx, specification.ByID{ID: *req.TariffId})
		if err != nil {
			return nil, err
		}
		if tariff == nil {
			return nil, ErrTariffNotFound
		}
		if user.InsuranceCompanyId != nil && tariff.CompanyId != *user.InsuranceCompanyId {
			return nil, ErrTariffMismatch
		}
		user.TariffId = &tariff.Id
	}
	if req.InsuranceNumber != nil {
		number := strings.TrimSpace(*req.InsuranceNumber)
		if number == "" {
			user.InsuranceNumber = nil
		} else {
			user.InsuranceNumber = &number
		}
	}
	if req.MonthlyFee != nil {
		user.MonthlyFee = req.MonthlyFee
	}

	var additional []*entity.Tariff
	if req.AdditionalTariffIds != nil {
		if user.InsuranceCompanyId == nil {
			return nil, ErrCompanyNotFound
		}
		additional, err = s.additionalOf(ctx, repo, *user.InsuranceCompanyId, *req.AdditionalTariffIds)
		if err != nil {
			return nil, err
		}
	}

	user.ProfileCompleted = user.HasCompleteProfile()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	if req.AdditionalTariffIds != nil {
		if err := uow.UserRepository().ReplaceAdditionalTariffs(ctx, user.Id, tariffIds(additional)); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return s.GetMyTariff(ctx, userId)
}

// ImportCatalog creates companies and tariffs that do not exist yet.
// Add-ons are created once per company, then linked to every main tariff
// that lists them.
func (s *insuranceService) ImportCatalog(ctx context.Context, companies []dto.CatalogCompany, clear bool, report CatalogReporter) (*dto.CatalogImportResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.InsuranceRepository()
	if clear {
		if err := repo.DeleteAll(ctx); err != nil {
			return nil, err
		}
	}

	result := &dto.CatalogImportResult{}
	for _, cd := range companies {
		company, err := s.companyByName(ctx, repo, cd)
		if err != nil {
			return nil, err
		}
		result.Companies++
		if report != nil {
			report.Company(company.Name)
		}

		additionalByName := map[string]*entity.Tariff{}
		for _, td := range cd.Tariffs {
			for _, ad := range td.AdditionalTariffs {
				if _, ok := additionalByName[ad.Name]; ok {
					continue
				}
				add, err := s.tariffByName(ctx, repo, company.Id, ad, entity.TariffTypeAdditional)
				if err != nil {
					return nil, err
				}
				additionalByName[ad.Name] = add
				result.AdditionalTariffs++
			}
		}

		for _, td := range cd.Tariffs {
			main, err := s.tariffByName(ctx, repo, company.Id, td, entity.TariffTypeMain)
			if err != nil {
				return nil, err
			}
			result.MainTariffs++

			var linkIds []uuid.UUID
			var linkNames []string
			for _, ad := range td.AdditionalTariffs {
				if add, ok := additionalByName[ad.Name]; ok {
					linkIds = append(linkIds, add.Id)
					linkNames = append(linkNames, add.Name)
				}
			}
			if err := repo.LinkAdditionalTariffs(ctx, main.Id, linkIds); err != nil {
				return nil, err
			}
			if report != nil {
				report.MainTariff(main.Name, linkNames)
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *insuranceService) loadUser(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// resolveSelection loads the company and a tariff that must belong to it.
func (s *insuranceService) resolveSelection(ctx context.Context, repo contract.InsuranceRepository, companyId, tariffId uuid.UUID) (*entity.InsuranceCompany, *entity.Tariff, error) {
	company, err := repo.FindCompany(ctx, specification.ByID{ID: companyId})
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, ErrCompanyNotFound
	}

	tariff, err := repo.FindTariff(ctx, specification.ByID{ID: tariffId}, specification.ByCompany{CompanyID: company.Id})
	if err != nil {
		return nil, nil, err
	}
	if tariff == nil {
		return nil, nil, ErrTariffNotFound
	}
	return company, tariff, nil
}

// additionalOf silently drops ids that belong to another company.
func (s *insuranceService) additionalOf(ctx context.Context, repo contract.InsuranceRepository, companyId uuid.UUID, ids []uuid.UUID) ([]*entity.Tariff, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return repo.FindTariffs(ctx,
		specification.ByIDs{IDs: ids},
		specification.ByCompany{CompanyID: companyId},
		specification.OrderBy{Field: "name"},
	)
}

func (s *insuranceService) companyByName(ctx context.Context, repo contract.InsuranceRepository, cd dto.CatalogCompany) (*entity.InsuranceCompany, error) {
	company, err := repo.FindCompany(ctx, specification.ByName{Name: cd.Name})
	if err != nil || company != nil {
		return company, err
	}
	company = &entity.InsuranceCompany{
		Id:   uuid.New(),
		Name: cd.Name,
		Code: optional(cd.Code),
		Slug: optional(cd.Slug),
	}
	return company, repo.CreateCompany(ctx, company)
}

func (s *insuranceService) tariffByName(ctx context.Context, repo contract.InsuranceRepository, companyId uuid.UUID, td dto.CatalogTariff, tariffType entity.TariffType) (*entity.Tariff, error) {
	tariff, err := repo.FindTariff(ctx,
		specification.ByCompany{CompanyID: companyId},
		specification.ByName{Name: td.Name},
		specification.ByTariffType{Type: string(tariffType)},
	)
	if err != nil || tariff != nil {
		return tariff, err
	}
	tariff = &entity.Tariff{
		Id:        uuid.New(),
		Name:      td.Name,
		Code:      optional(td.Code),
		Slug:      optional(td.Slug),
		CompanyId: companyId,
		Type:      tariffType,
	}
	return tariff, repo.CreateTariff(ctx, tariff)
}

func tariffIds(tariffs []*entity.Tariff) []uuid.UUID {
	ids := make([]uuid.UUID, len(tariffs))
	for i, t := range tariffs {
		ids[i] = t.Id
	}
	return ids
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
