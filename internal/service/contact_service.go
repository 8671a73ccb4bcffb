// FILE: internal/service/contact_service.go
package service

import (
	"context"
	"strings"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/pkg/mailer"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/pkg/events"

	"github.com/google/uuid"
)

type IContactService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.ContactMessageRequest) (*dto.ContactMessageResponse, error)
	ListMine(ctx context.Context, userId uuid.UUID) ([]dto.ContactMessageResponse, error)
}

type contactService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher events.Publisher
	recipients     []string
	logger         logger.ILogger
}

func NewContactService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher events.Publisher,
	recipients []string,
	log logger.ILogger,
) IContactService {
	return &contactService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		recipients:     recipients,
		logger:         log,
	}
}

func (s *contactService) Create(ctx context.Context, userId uuid.UUID, req *dto.ContactMessageRequest) (*dto.ContactMessageResponse, error) {
	msg := &entity.ContactMessage{
		Id:        uuid.New(),
		UserId:    userId,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   strings.TrimSpace(req.Message),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ContactMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	// The message is stored; a mail outage must not fail the request.
	err := s.emailService.SendContactMessage(s.recipients, mailer.ContactMail{
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
		Email:     msg.Email,
		Phone:     msg.Phone,
		Message:   msg.Message,
	})
	if err != nil {
		s.logger.Error("CONTACT", "Failed to forward contact message", map[string]interface{}{
			"message_id": msg.Id,
			"error":      err.Error(),
		})
	}

	publishEvent(ctx, s.eventPublisher, s.logger,
		events.ContactMessageCreated(userId, msg.Id, msg.FirstName+" "+msg.LastName, msg.Email))

	res := toContactResponse(msg)
	return &res, nil
}

func (s *contactService) ListMine(ctx context.Context, userId uuid.UUID) ([]dto.ContactMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	msgs, err := uow.ContactMessageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ContactMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, toContactResponse(m))
	}
	return res, nil
}
