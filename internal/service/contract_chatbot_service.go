// FILE: internal/service/contract_chatbot_service.go
package service

import (
	"context"
	"errors"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/pkg/contractqa"

	"github.com/google/uuid"
)

type IContractChatbotService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.ContractQuestionRequest) (*dto.ContractAnswerResponse, error)
}

// ContractAnswerer is satisfied by *contractqa.Pipeline.
type ContractAnswerer interface {
	Answer(ctx context.Context, userID uuid.UUID, question string) (*contractqa.Answer, error)
}

type contractChatbotService struct {
	pipeline ContractAnswerer
	logger   logger.ILogger
}

func NewContractChatbotService(pipeline ContractAnswerer, log logger.ILogger) IContractChatbotService {
	return &contractChatbotService{pipeline: pipeline, logger: log}
}

func (s *contractChatbotService) Ask(ctx context.Context, userId uuid.UUID, req *dto.ContractQuestionRequest) (*dto.ContractAnswerResponse, error) {
	answer, err := s.pipeline.Answer(ctx, userId, req.Question)
	if err != nil {
		s.logFailure(userId, err)
		return nil, err
	}

	s.logger.Debug("CONTRACT_QA", "Question answered", map[string]interface{}{
		"user_id":    userId,
		"unit_index": answer.UnitIndex,
		"score":      answer.Score,
		"cached":     answer.Cached,
	})
	return &dto.ContractAnswerResponse{
		Answer:    answer.Text,
		UnitIndex: answer.UnitIndex,
		Score:     answer.Score,
		Units:     answer.Units,
	}, nil
}

func (s *contractChatbotService) logFailure(userId uuid.UUID, err error) {
	details := map[string]interface{}{"user_id": userId, "error": err.Error()}

	var encErr *contractqa.EncoderError
	switch {
	case errors.As(err, &encErr):
		details["model"] = encErr.Model
		details["op"] = encErr.Op
		s.logger.Error("CONTRACT_QA", "Embedding encoder unavailable", details)
	case errors.Is(err, contractqa.ErrExtraction):
		s.logger.Error("CONTRACT_QA", "Contract text extraction failed", details)
	case errors.Is(err, contractqa.ErrNoContract),
		errors.Is(err, contractqa.ErrValidation),
		errors.Is(err, contractqa.ErrEmptyCorpus):
		s.logger.Info("CONTRACT_QA", "Question rejected", details)
	default:
		s.logger.Error("CONTRACT_QA", "Question failed", details)
	}
}
