package embedding

import (
	"fmt"
	"strings"
	"time"

	"pkv-backend/pkg/embedding/jina"
)

type Options struct {
	Provider string // "huggingface", "ollama" or "jina"
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// NewProvider builds the process-wide encoder selected by opts.Provider.
func NewProvider(opts Options) (EmbeddingProvider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "huggingface", "hf":
		return NewHuggingFaceProvider(opts.APIKey, opts.BaseURL, opts.Model, opts.Timeout), nil
	case "ollama":
		return NewOllamaProvider(opts.BaseURL, opts.Model, opts.Timeout), nil
	case "jina":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("jina embedding provider requires an api key")
		}
		return jina.NewJinaProvider(opts.APIKey, opts.BaseURL, opts.Model, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", opts.Provider)
	}
}
