// FILE: internal/dto/voiceflow_dto.go
package dto

import "encoding/json"

type VoiceflowChatRequest struct {
	Type    *string         `json:"type" validate:"omitempty,max=50"`
	Message string          `json:"message" validate:"max=4000"`
	Request json.RawMessage `json:"request"`
	Reset   bool            `json:"reset"`
}

type VoiceflowChatResponse struct {
	Messages []string          `json:"messages"`
	Choices  []json.RawMessage `json:"choices"`
	Audio    *string           `json:"audio"`
}
