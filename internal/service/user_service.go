// FILE: internal/service/user_service.go
package service

import (
	"context"
	"strings"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
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

	res := toUserProfile(user)
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
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

	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		other, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: *req.Email})
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrUserExists
		}
		user.Email = strings.TrimSpace(*req.Email)
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&user.FirstName, req.FirstName)
	assign(&user.LastName, req.LastName)
	assign(&user.Phone, req.Phone)
	assign(&user.Street, req.Street)
	assign(&user.PostalCode, req.PostalCode)
	assign(&user.City, req.City)
	user.ProfileCompleted = user.HasCompleteProfile()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	res := toUserProfile(user)
	return &res, nil
}
