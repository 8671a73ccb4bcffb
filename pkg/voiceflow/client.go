package voiceflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://general-runtime.voiceflow.com"
	DefaultTimeout   = 45 * time.Second
	DefaultVersionID = "production"
)

type Config struct {
	APIKey    string
	VersionID string
	BaseURL   string
	Timeout   time.Duration
	// RequestsPerSecond throttles outbound calls; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

// APIError is returned for any non-2xx answer of the runtime API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voiceflow api error (status %d): %s", e.StatusCode, e.Body)
}

// Client talks to the Voiceflow dialog runtime on behalf of individual users.
type Client struct {
	apiKey    string
	versionID string
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.VersionID == "" {
		cfg.VersionID = DefaultVersionID
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		apiKey:    cfg.APIKey,
		versionID: cfg.VersionID,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
	}
}

// Reset deletes the conversation state of userID.
func (c *Client) Reset(ctx context.Context, userID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.stateURL(userID, ""), nil, false)
	return err
}

// Interact sends one request to the agent and returns the resulting traces.
func (c *Client) Interact(ctx context.Context, userID string, payload Payload) ([]Trace, error) {
	body, err := c.do(ctx, http.MethodPost, c.stateURL(userID, "/interact"), payload, true)
	if err != nil {
		return nil, err
	}

	var traces []Trace
	if err := json.Unmarshal(body, &traces); err != nil {
		return nil, fmt.Errorf("failed to decode traces: %w", err)
	}
	return traces, nil
}

// SetVariables patches the session variables of userID.
func (c *Client) SetVariables(ctx context.Context, userID string, variables map[string]string) error {
	_, err := c.do(ctx, http.MethodPatch, c.stateURL(userID, "/variables"), variables, true)
	return err
}

func (c *Client) stateURL(userID, suffix string) string {
	return fmt.Sprintf("%s/state/user/%s%s", c.baseURL, url.PathEscape(userID), suffix)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}, withVersion bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if withVersion {
		req.Header.Set("versionID", c.versionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
