package voiceflow

import "encoding/json"

// ChatInput is what the frontend sends to the chat endpoint.
// A nil Type means the field was absent and defaults to text; an explicit
// empty type is treated like any other unknown type.
type ChatInput struct {
	Type    *string         `json:"type"`
	Message string          `json:"message"`
	Request json.RawMessage `json:"request,omitempty"`
	Reset   bool            `json:"reset"`
}

type Payload struct {
	Request json.RawMessage `json:"request"`
}

type textRequest struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

func (in ChatInput) IsLaunch() bool { return in.kind() == "launch" }

func (in ChatInput) kind() string {
	if in.Type == nil {
		return "text"
	}
	return *in.Type
}

// InteractPayload maps a chat input onto the runtime request body.
// Launch and text are built here; choice and any other type with an
// explicit request are forwarded untouched.
func InteractPayload(in ChatInput) Payload {
	switch in.kind() {
	case "launch":
		return Payload{Request: json.RawMessage(`{"type":"launch"}`)}
	case "text":
		return textPayload(in.Message)
	case "choice":
		if len(in.Request) == 0 {
			return Payload{Request: json.RawMessage(`{}`)}
		}
		return Payload{Request: in.Request}
	}

	if len(in.Request) > 0 {
		return Payload{Request: in.Request}
	}
	return textPayload(in.Message)
}

func textPayload(message string) Payload {
	raw, _ := json.Marshal(textRequest{Type: "text", Payload: message})
	return Payload{Request: raw}
}
