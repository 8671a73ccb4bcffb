package service

import (
	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
)

func toUserProfile(u *entity.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		Id:                u.Id,
		Username:          u.Username,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Phone:             u.Phone,
		Street:            u.Street,
		PostalCode:        u.PostalCode,
		City:              u.City,
		Role:              string(u.Role),
		Status:            string(u.Status),
		ProfileCompleted:  u.ProfileCompleted,
		CreatedAt:         u.CreatedAt,
		InsuranceCompany:  toCompanyRef(u.InsuranceCompany),
		Tariff:            toTariffRef(u.Tariff),
		AdditionalTariffs: toTariffRefs(u.AdditionalTariffs),
		InsuranceNumber:   u.InsuranceNumber,
		MonthlyFee:        u.MonthlyFee,
	}
}

func toCompanyRef(c *entity.InsuranceCompany) *dto.CompanyRef {
	if c == nil {
		return nil
	}
	return &dto.CompanyRef{Id: c.Id, Name: c.Name}
}

func toTariffRef(t *entity.Tariff) *dto.TariffRef {
	if t == nil {
		return nil
	}
	return &dto.TariffRef{Id: t.Id, Name: t.Name, Type: string(t.Type)}
}

func toTariffRefs(tariffs []*entity.Tariff) []dto.TariffRef {
	refs := make([]dto.TariffRef, 0, len(tariffs))
	for _, t := range tariffs {
		refs = append(refs, *toTariffRef(t))
	}
	return refs
}

func toTariffResponse(t *entity.Tariff) dto.TariffResponse {
	res := dto.TariffResponse{
		Id:        t.Id,
		Name:      t.Name,
		Code:      t.Code,
		Slug:      t.Slug,
		Type:      string(t.Type),
		CompanyId: t.CompanyId,
	}
	if t.Type == entity.TariffTypeMain {
		for _, add := range t.AdditionalTariffs {
			res.AdditionalTariffs = append(res.AdditionalTariffs, toTariffResponse(add))
		}
	}
	return res
}

func toCompanyResponse(c *entity.InsuranceCompany) dto.CompanyResponse {
	res := dto.CompanyResponse{
		Id:      c.Id,
		Name:    c.Name,
		Code:    c.Code,
		Slug:    c.Slug,
		Tariffs: make([]dto.TariffResponse, 0, len(c.Tariffs)),
	}
	for _, t := range c.Tariffs {
		res.Tariffs = append(res.Tariffs, toTariffResponse(t))
	}
	return res
}

func toMyTariff(u *entity.User) *dto.MyTariffResponse {
	if u.InsuranceCompany == nil || u.Tariff == nil {
		return &dto.MyTariffResponse{}
	}
	res := &dto.MyTariffResponse{
		InsuranceCompany:  toCompanyRef(u.InsuranceCompany),
		Tariff:            toTariffRef(u.Tariff),
		AdditionalTariffs: toTariffRefs(u.AdditionalTariffs),
		CompanyName:       u.InsuranceCompany.Name,
		TariffName:        u.Tariff.Name,
		InsuranceNumber:   u.InsuranceNumber,
		MonthlyFee:        u.MonthlyFee,
	}
	for _, t := range u.AdditionalTariffs {
		res.AdditionalTariffsNames = append(res.AdditionalTariffsNames, t.Name)
	}
	return res
}

func toContractResponse(c *entity.UserContract) *dto.ContractResponse {
	emptyPages := c.EmptyPages
	if emptyPages == nil {
		emptyPages = []int{}
	}
	return &dto.ContractResponse{
		Id:              c.Id,
		UserId:          c.UserId,
		FileName:        c.FileName,
		FileSize:        c.FileSize,
		PageCount:       c.PageCount,
		EmptyPages:      emptyPages,
		Status:          string(c.Status),
		ProcessingError: c.ProcessingError,
		ProcessedAt:     c.ProcessedAt,
		CreatedAt:       c.CreatedAt,
	}
}

func toContactResponse(m *entity.ContactMessage) dto.ContactMessageResponse {
	return dto.ContactMessageResponse{
		Id:        m.Id,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
