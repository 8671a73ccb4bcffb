package mapper

import (
	"pkv-backend/internal/entity"
	"pkv-backend/internal/model"
)

type UserMapper struct {
	insurance *InsuranceMapper
}

func NewUserMapper() *UserMapper {
	return &UserMapper{insurance: NewInsuranceMapper()}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                 u.Id,
		Username:           u.Username,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Phone:              u.Phone,
		Street:             u.Street,
		PostalCode:         u.PostalCode,
		City:               u.City,
		Role:               entity.UserRole(u.Role),
		Status:             entity.UserStatus(u.Status),
		EmailVerified:      u.EmailVerified,
		EmailVerifiedAt:    u.EmailVerifiedAt,
		InsuranceCompanyId: u.InsuranceCompanyId,
		TariffId:           u.TariffId,
		InsuranceNumber:    u.InsuranceNumber,
		MonthlyFee:         u.MonthlyFee,
		ProfileCompleted:   u.ProfileCompleted,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,

		InsuranceCompany:  m.insurance.CompanyToEntity(u.InsuranceCompany),
		Tariff:            m.insurance.TariffToEntity(u.Tariff),
		AdditionalTariffs: m.insurance.TariffsToEntities(u.AdditionalTariffs),
	}
}

// ToModel leaves relations empty; associations are written explicitly by the repository.
func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                 u.Id,
		Username:           u.Username,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Phone:              u.Phone,
		Street:             u.Street,
		PostalCode:         u.PostalCode,
		City:               u.City,
		Role:               string(u.Role),
		Status:             string(u.Status),
		EmailVerified:      u.EmailVerified,
		EmailVerifiedAt:    u.EmailVerifiedAt,
		InsuranceCompanyId: u.InsuranceCompanyId,
		TariffId:           u.TariffId,
		InsuranceNumber:    u.InsuranceNumber,
		MonthlyFee:         u.MonthlyFee,
		ProfileCompleted:   u.ProfileCompleted,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

// Token Mappers

func (m *UserMapper) PasswordResetTokenToEntity(t *model.PasswordResetToken) *entity.PasswordResetToken {
	if t == nil {
		return nil
	}
	return &entity.PasswordResetToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		Used:      t.Used,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) PasswordResetTokenToModel(t *entity.PasswordResetToken) *model.PasswordResetToken {
	if t == nil {
		return nil
	}
	return &model.PasswordResetToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		Used:      t.Used,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) EmailVerificationTokenToEntity(t *model.EmailVerificationToken) *entity.EmailVerificationToken {
	if t == nil {
		return nil
	}
	return &entity.EmailVerificationToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) EmailVerificationTokenToModel(t *entity.EmailVerificationToken) *model.EmailVerificationToken {
	if t == nil {
		return nil
	}
	return &model.EmailVerificationToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}
