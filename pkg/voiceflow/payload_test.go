package voiceflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteractPayload(t *testing.T) {
	tests := []struct {
		name  string
		input ChatInput
		want  string
	}{
		{"launch", ChatInput{Type: inputType("launch")}, `{"type":"launch"}`},
		{"text", ChatInput{Type: inputType("text"), Message: "Was zahlt mein Tarif?"}, `{"type":"text","payload":"Was zahlt mein Tarif?"}`},
		{"missing type defaults to text", ChatInput{Message: "Hallo"}, `{"type":"text","payload":"Hallo"}`},
		{"choice forwards request", ChatInput{Type: inputType("choice"), Request: json.RawMessage(`{"type":"path-1","payload":{"label":"Ja"}}`)}, `{"type":"path-1","payload":{"label":"Ja"}}`},
		{"choice without request", ChatInput{Type: inputType("choice")}, `{}`},
		{"unknown type with request", ChatInput{Type: inputType("intent"), Request: json.RawMessage(`{"type":"intent"}`)}, `{"type":"intent"}`},
		{"empty type with request", ChatInput{Type: inputType(""), Request: json.RawMessage(`{"type":"intent"}`)}, `{"type":"intent"}`},
		{"empty type without request", ChatInput{Type: inputType(""), Message: "x"}, `{"type":"text","payload":"x"}`},
		{"unknown type without request", ChatInput{Type: inputType("intent"), Message: "x"}, `{"type":"text","payload":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, string(InteractPayload(tt.input).Request))
		})
	}
}

func inputType(s string) *string { return &s }
