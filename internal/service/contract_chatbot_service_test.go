package service

import (
	"context"
	"testing"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/pkg/contractqa"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswerer struct {
	answer *contractqa.Answer
	err    error
	asked  string
}

func (s *stubAnswerer) Answer(_ context.Context, _ uuid.UUID, question string) (*contractqa.Answer, error) {
	s.asked = question
	return s.answer, s.err
}

func TestAskMapsAnswer(t *testing.T) {
	stub := &stubAnswerer{answer: &contractqa.Answer{Text: "Zahnersatz 80%", UnitIndex: 2, Score: 0.91, Units: 5}}
	svc := NewContractChatbotService(stub, logger.NewNopLogger())

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.ContractQuestionRequest{Question: "Zahnersatz?"})
	require.NoError(t, err)
	assert.Equal(t, "Zahnersatz?", stub.asked)
	assert.Equal(t, &dto.ContractAnswerResponse{Answer: "Zahnersatz 80%", UnitIndex: 2, Score: 0.91, Units: 5}, res)
}

func TestAskPassesPipelineErrorsThrough(t *testing.T) {
	for _, want := range []error{
		contractqa.ErrNoContract,
		contractqa.ErrEmptyCorpus,
		&contractqa.EncoderError{Model: "m", Op: "query", Err: assert.AnError},
	} {
		svc := NewContractChatbotService(&stubAnswerer{err: want}, logger.NewNopLogger())
		_, err := svc.Ask(context.Background(), uuid.New(), &dto.ContractQuestionRequest{Question: "x"})
		assert.ErrorIs(t, err, want)
	}
}
