package voiceflow

import (
	"encoding/json"
	"strings"
)

const FallbackMessage = "Entschuldige, ich konnte keine Antwort erhalten."

type Trace struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type tracePayload struct {
	Slate *struct {
		Content []struct {
			Children []struct {
				Text string `json:"text"`
			} `json:"children"`
		} `json:"content"`
	} `json:"slate"`
	Message string            `json:"message"`
	Voice   string            `json:"voice"`
	Buttons []json.RawMessage `json:"buttons"`
}

// Reply is the flattened view of one interaction.
type Reply struct {
	Messages []string          `json:"messages"`
	Choices  []json.RawMessage `json:"choices"`
	Audio    *string           `json:"audio"`
}

// ParseTraces collects text, choice buttons and the first voice url from traces.
// Payloads that are not objects are skipped.
func ParseTraces(traces []Trace) Reply {
	reply := Reply{Messages: []string{}, Choices: []json.RawMessage{}}

	for _, trace := range traces {
		var payload tracePayload
		if len(trace.Payload) > 0 {
			if err := json.Unmarshal(trace.Payload, &payload); err != nil {
				continue
			}
		}

		if text := payloadText(payload); text != "" {
			reply.Messages = append(reply.Messages, text)
		}
		if trace.Type == "choice" {
			reply.Choices = append(reply.Choices, payload.Buttons...)
		}
		if reply.Audio == nil && payload.Voice != "" {
			voice := payload.Voice
			reply.Audio = &voice
		}
	}
	return reply
}

// WithFallback substitutes the apology text when no message came back.
func (r Reply) WithFallback() Reply {
	if len(r.Messages) == 0 {
		r.Messages = []string{FallbackMessage}
	}
	return r
}

func payloadText(p tracePayload) string {
	if p.Slate != nil {
		var parts []string
		for _, block := range p.Slate.Content {
			for _, child := range block.Children {
				if child.Text != "" {
					parts = append(parts, child.Text)
				}
			}
		}
		if text := strings.TrimSpace(strings.Join(parts, "\n")); text != "" {
			return text
		}
	}
	return p.Message
}
