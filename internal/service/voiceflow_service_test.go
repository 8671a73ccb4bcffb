package service

import (
	"context"
	"encoding/json"
	"testing"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/entity"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/pkg/voiceflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVoiceflow struct {
	resets      int
	resetErr    error
	vars        map[string]string
	payloads    []voiceflow.Payload
	traces      []voiceflow.Trace
	interactErr error
}

func (f *fakeVoiceflow) Reset(context.Context, string) error {
	f.resets++
	return f.resetErr
}

func (f *fakeVoiceflow) Interact(_ context.Context, _ string, p voiceflow.Payload) ([]voiceflow.Trace, error) {
	f.payloads = append(f.payloads, p)
	return f.traces, f.interactErr
}

func (f *fakeVoiceflow) SetVariables(_ context.Context, _ string, vars map[string]string) error {
	f.vars = vars
	return nil
}

func newVoiceflowFixture(t *testing.T, client *fakeVoiceflow) (IVoiceflowService, uuid.UUID) {
	t.Helper()
	mappings, err := voiceflow.ParseMappings([]byte("company_codes:\n  axa: AXA_KB\n"))
	require.NoError(t, err)

	s := newStore()
	code := "axa"
	u := &entity.User{
		Id:               uuid.New(),
		InsuranceCompany: &entity.InsuranceCompany{Name: "AXA", Code: &code},
		Tariff:           &entity.Tariff{Name: "Vital 300"},
	}
	s.users[u.Id] = u
	return NewVoiceflowService(fakeFactory{s}, client, mappings, logger.NewNopLogger()), u.Id
}

func TestChatLaunchSyncsVariables(t *testing.T) {
	client := &fakeVoiceflow{traces: []voiceflow.Trace{
		{Type: "text", Payload: json.RawMessage(`{"message":"Hallo!"}`)},
	}}
	svc, userId := newVoiceflowFixture(t, client)

	res, err := svc.Chat(context.Background(), userId, &dto.VoiceflowChatRequest{Type: chatType("launch")})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hallo!"}, res.Messages)
	assert.Equal(t, "AXA_KB", client.vars["insurance_company"])
	assert.Equal(t, "Vital 300", client.vars["main_tariff"])
	assert.Zero(t, client.resets)
}

func TestChatTextDoesNotSyncVariables(t *testing.T) {
	client := &fakeVoiceflow{}
	svc, userId := newVoiceflowFixture(t, client)

	res, err := svc.Chat(context.Background(), userId, &dto.VoiceflowChatRequest{Message: "Was zahlt mein Tarif?"})
	require.NoError(t, err)

	assert.Nil(t, client.vars)
	assert.Equal(t, []string{voiceflow.FallbackMessage}, res.Messages)
	require.Len(t, client.payloads, 1)
	assert.JSONEq(t, `{"type":"text","payload":"Was zahlt mein Tarif?"}`, string(client.payloads[0].Request))
}

func TestChatResetFailureIsNotFatal(t *testing.T) {
	client := &fakeVoiceflow{resetErr: assert.AnError}
	svc, userId := newVoiceflowFixture(t, client)

	_, err := svc.Chat(context.Background(), userId, &dto.VoiceflowChatRequest{Type: chatType("launch"), Reset: true})
	require.NoError(t, err)
	assert.Equal(t, 1, client.resets)
	assert.NotNil(t, client.vars)
}

func TestChatUpstreamFailure(t *testing.T) {
	client := &fakeVoiceflow{interactErr: &voiceflow.APIError{StatusCode: 500, Body: "boom"}}
	svc, userId := newVoiceflowFixture(t, client)

	_, err := svc.Chat(context.Background(), userId, &dto.VoiceflowChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrUpstream)
}

func chatType(s string) *string { return &s }
