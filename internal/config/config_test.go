package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go duration", "90s", 90 * time.Second},
		{"plain seconds", "45", 45 * time.Second},
		{"garbage falls back", "soon", time.Minute},
		{"empty falls back", "", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("TEST_LIST", " a@example.com, ,b@example.com ")
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, getEnvAsList("TEST_LIST", nil))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VOICEFLOW_TIMEOUT", "")
	t.Setenv("CHATBOT_MAX_QUESTION_LENGTH", "")

	cfg := Load()

	assert.Equal(t, 45*time.Second, cfg.Voiceflow.Timeout)
	assert.Equal(t, 4000, cfg.Ai.MaxQuestionLength)
	assert.Equal(t, "CONTRACT_UPLOADED", cfg.Ai.ContractTopic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "ollama")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("VOICEFLOW_RPS", "0.5")

	cfg := Load()

	assert.Equal(t, "ollama", cfg.Ai.EmbeddingProvider)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, 0.5, cfg.Voiceflow.RequestsPerSecond)
}
