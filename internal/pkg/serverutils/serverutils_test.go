package serverutils

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f fakeRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
}

func decode(t *testing.T, body []byte) BaseResponse[json.RawMessage] {
	t.Helper()
	var res BaseResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(body, &res))
	return res
}

func TestValidateRequest(t *testing.T) {
	err := ValidateRequest(signupRequest{Username: "ab", Email: "nope"})

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Len(t, vErr.Fields, 2)
	assert.Equal(t, FieldError{Field: "username", Tag: "min", Param: "3"}, vErr.Fields[0])
	assert.Equal(t, "email", vErr.Fields[1].Field)

	assert.NoError(t, ValidateRequest(signupRequest{Username: "anna", Email: "anna@example.com"}))
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/validation", func(ctx *fiber.Ctx) error {
		return ValidateRequest(signupRequest{})
	})
	app.Get("/fiber", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Contract not found")
	})
	app.Get("/plain", func(ctx *fiber.Ctx) error {
		return errors.New("db exploded")
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/validation", 400, ""},
		{"/fiber", 404, "Contract not found"},
		{"/plain", 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			res := decode(t, body)
			assert.False(t, res.Success)
			assert.Equal(t, tt.status, res.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, res.Message)
			}
		})
	}
}

func TestIssueAndParseToken(t *testing.T) {
	userID := uuid.New()
	token, claims, err := IssueToken(testSecret, userID, RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), parsed.UserID)
	assert.Equal(t, RoleAdmin, parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)

	expired, _, err := IssueToken(testSecret, userID, RoleUser, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.Error(t, err)
}

func TestJwtMiddleware(t *testing.T) {
	userID := uuid.New()
	token, claims, err := IssueToken(testSecret, userID, RoleUser, time.Hour)
	require.NoError(t, err)
	adminToken, _, err := IssueToken(testSecret, userID, RoleAdmin, time.Hour)
	require.NoError(t, err)

	newApp := func(rev RevocationChecker) *fiber.App {
		app := fiber.New()
		app.Use(NewJwtMiddleware(testSecret, rev))
		app.Get("/me", func(ctx *fiber.Ctx) error {
			id, err := CurrentUserID(ctx)
			if err != nil {
				return err
			}
			return ctx.SendString(id.String())
		})
		app.Get("/admin", AdminOnly, func(ctx *fiber.Ctx) error {
			return ctx.SendStatus(fiber.StatusNoContent)
		})
		return app
	}

	tests := []struct {
		name   string
		rev    RevocationChecker
		path   string
		header string
		status int
	}{
		{"missing header", nil, "/me", "", 401},
		{"garbage token", nil, "/me", "Bearer garbage", 401},
		{"valid token", fakeRevocations{}, "/me", "Bearer " + token, 200},
		{"revoked token", fakeRevocations{revoked: map[string]bool{claims.ID: true}}, "/me", "Bearer " + token, 401},
		{"store down", fakeRevocations{err: errors.New("redis down")}, "/me", "Bearer " + token, 503},
		{"user on admin route", nil, "/admin", "Bearer " + token, 403},
		{"admin on admin route", nil, "/admin", "Bearer " + adminToken, 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := newApp(tt.rev).Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
