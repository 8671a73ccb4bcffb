// FILE: internal/service/voiceflow_service.go
package service

import (
	"context"
	"fmt"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/repository/specification"
	"pkv-backend/internal/repository/unitofwork"
	"pkv-backend/pkg/voiceflow"

	"github.com/google/uuid"
)

type IVoiceflowService interface {
	Chat(ctx context.Context, userId uuid.UUID, req *dto.VoiceflowChatRequest) (*dto.VoiceflowChatResponse, error)
}

// VoiceflowClient is satisfied by *voiceflow.Client.
type VoiceflowClient interface {
	Reset(ctx context.Context, userID string) error
	Interact(ctx context.Context, userID string, payload voiceflow.Payload) ([]voiceflow.Trace, error)
	SetVariables(ctx context.Context, userID string, variables map[string]string) error
}

type voiceflowService struct {
	uowFactory unitofwork.RepositoryFactory
	client     VoiceflowClient
	mappings   *voiceflow.Mappings
	logger     logger.ILogger
}

func NewVoiceflowService(
	uowFactory unitofwork.RepositoryFactory,
	client VoiceflowClient,
	mappings *voiceflow.Mappings,
	log logger.ILogger,
) IVoiceflowService {
	return &voiceflowService{
		uowFactory: uowFactory,
		client:     client,
		mappings:   mappings,
		logger:     log,
	}
}

func (s *voiceflowService) Chat(ctx context.Context, userId uuid.UUID, req *dto.VoiceflowChatRequest) (*dto.VoiceflowChatResponse, error) {
	in := voiceflow.ChatInput{
		Type:    req.Type,
		Message: req.Message,
		Request: req.Request,
		Reset:   req.Reset,
	}
	sessionID := userId.String()

	if in.Reset {
		if err := s.client.Reset(ctx, sessionID); err != nil {
			s.logger.Warn("VOICEFLOW", "Failed to reset dialog state", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
		}
	}

	if in.Reset || in.IsLaunch() {
		s.syncVariables(ctx, userId)
	}

	traces, err := s.client.Interact(ctx, sessionID, voiceflow.InteractPayload(in))
	if err != nil {
		s.logger.Error("VOICEFLOW", "Interaction failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	reply := voiceflow.ParseTraces(traces).WithFallback()
	return &dto.VoiceflowChatResponse{
		Messages: reply.Messages,
		Choices:  reply.Choices,
		Audio:    reply.Audio,
	}, nil
}

// syncVariables pushes the user's insurance selection so the knowledge base
// answers for the right tariffs. Failures only degrade answer quality.
func (s *voiceflowService) syncVariables(ctx context.Context, userId uuid.UUID) {
	if s.mappings == nil {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx,
		specification.ByID{ID: userId},
		specification.WithInsuranceSelection{},
	)
	if err != nil || user == nil {
		s.logger.Warn("VOICEFLOW", "Could not load insurance selection", map[string]interface{}{"user_id": userId})
		return
	}

	vars := s.mappings.BuildVariables(profileOf(user))
	if err := s.client.SetVariables(ctx, userId.String(), vars); err != nil {
		s.logger.Warn("VOICEFLOW", "Failed to set dialog variables", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}

func profileOf(u *entity.User) voiceflow.Profile {
	p := voiceflow.Profile{
		CompanyKey: u.InsuranceCompany.IdentityKey(),
		TariffKey:  u.Tariff.IdentityKey(),
	}
	for _, t := range u.AdditionalTariffs {
		p.AdditionalKeys = append(p.AdditionalKeys, t.IdentityKey())
	}
	return p
}
