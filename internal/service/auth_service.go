// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/pkg/mailer"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, uid, token string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, claims *serverutils.Claims) error
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error
	RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error
	ConfirmPasswordReset(ctx context.Context, uid, token string, req *dto.PasswordResetConfirmRequest) error
	CreateAdmin(ctx context.Context, username, email, password string) (uuid.UUID, error)
}

// TokenRevoker stores logged-out token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type AuthSettings struct {
	JwtSecret      string
	JwtTTL         time.Duration
	VerifyTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher events.Publisher
	revoker        TokenRevoker
	settings       AuthSettings
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher events.Publisher,
	revoker TokenRevoker,
	settings AuthSettings,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		revoker:        revoker,
		settings:       settings,
		logger:         log,
	}
}

func generateToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	// 1. Check for existing user
	for _, spec := range []specification.Specification{
		specification.ByUsername{Username: username},
		specification.ByEmail{Email: email},
	} {
		existing, err := uow.UserRepository().FindOne(ctx, spec)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUserExists
		}
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Street:       req.Street,
		PostalCode:   req.PostalCode,
		City:         req.City,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusPending,
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	// 3. User + verification token in one transaction
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	verificationToken := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(s.settings.VerifyTokenTTL),
	}
	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, verificationToken); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// 4. Mail + event; neither fails the registration
	if err := s.emailService.SendVerificationLink(user.Email, user.FirstName, user.Id.String(), token); err != nil {
		s.logger.Error("AUTH", "Failed to send verification mail", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
	}
	publishEvent(ctx, s.eventPublisher, s.logger, events.UserRegistered(user.Id, user.Username, user.Email))

	return &dto.RegisterResponse{Id: user.Id, Username: user.Username, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, uid, token string) error {
	userId, err := uuid.Parse(uid)
	if err != nil {
		return ErrInvalidLink
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidLink
	}
	if user.IsActive() && user.EmailVerified {
		return nil
	}

	tokenEntity, err := uow.UserRepository().FindEmailVerificationToken(ctx,
		specification.UserOwnedBy{UserID: user.Id},
		specification.ByToken{Token: token},
	)
	if err != nil {
		return err
	}
	if tokenEntity == nil || time.Now().After(tokenEntity.ExpiresAt) {
		return ErrInvalidLink
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ActivateUser(ctx, user.Id); err != nil {
		return err
	}
	if err := uow.UserRepository().DeleteEmailVerificationToken(ctx, tokenEntity.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx,
		specification.ByLogin{Identifier: strings.TrimSpace(req.Username)},
		specification.WithInsuranceSelection{},
	)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	switch user.Status {
	case entity.UserStatusPending:
		return nil, ErrEmailNotVerified
	case entity.UserStatusBlocked:
		return nil, ErrAccountBlocked
	}

	signed, claims, err := serverutils.IssueToken(s.settings.JwtSecret, user.Id, string(user.Role), s.settings.JwtTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        toUserProfile(user),
	}, nil
}

// Logout revokes the presented token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *serverutils.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uow.UserRepository().UpdatePassword(ctx, user.Id, string(hash))
}

// RequestPasswordReset mails a reset link. Unknown addresses yield ErrUserNotFound.
func (s *authService) RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: strings.TrimSpace(req.Email)})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, err := generateToken()
	if err != nil {
		return err
	}
	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(s.settings.ResetTokenTTL),
	}
	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return err
	}

	return s.emailService.SendPasswordResetLink(user.Email, user.FirstName, user.Id.String(), token)
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, uid, token string, req *dto.PasswordResetConfirmRequest) error {
	userId, err := uuid.Parse(uid)
	if err != nil {
		return ErrInvalidLink
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	resetToken, err := uow.UserRepository().FindPasswordResetToken(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByToken{Token: token},
		specification.TokenUnused{},
	)
	if err != nil {
		return err
	}
	if resetToken == nil || time.Now().After(resetToken.ExpiresAt) {
		return ErrInvalidLink
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, userId, string(hash)); err != nil {
		return err
	}
	if err := uow.UserRepository().MarkTokenUsed(ctx, resetToken.Id); err != nil {
		return err
	}
	return uow.Commit()
}

// CreateAdmin promotes the account registered under email, or creates a
// verified admin account when none exists.
func (s *authService) CreateAdmin(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return uuid.Nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	if existing != nil {
		existing.Role = entity.UserRoleAdmin
		existing.Status = entity.UserStatusActive
		existing.PasswordHash = string(hash)
		if !existing.EmailVerified {
			existing.EmailVerified = true
			existing.EmailVerifiedAt = &now
		}
		if err := uow.UserRepository().Update(ctx, existing); err != nil {
			return uuid.Nil, err
		}
		return existing.Id, nil
	}

	if username = strings.TrimSpace(username); username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	admin := &entity.User{
		Id:              uuid.New(),
		Username:        username,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            entity.UserRoleAdmin,
		Status:          entity.UserStatusActive,
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	if err := uow.UserRepository().Create(ctx, admin); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrUserExists
		}
		return uuid.Nil, err
	}
	return admin.Id, nil
}
