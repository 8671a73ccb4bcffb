package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pkv-backend/internal/model"
	"pkv-backend/internal/pkg/logger"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/repository/contract"
	"pkv-backend/internal/service"
	internalWS "pkv-backend/internal/websocket"
	"pkv-backend/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-secret"

var userID = uuid.New()

type memoryNotifications struct {
	contract.NotificationRepository
	items []model.Notification
}

func (r *memoryNotifications) FindByUser(_ context.Context, uid uuid.UUID, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range r.items {
		if n.UserID == uid && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memoryNotifications) GetUnreadCount(_ context.Context, uid uuid.UUID) (int64, error) {
	var n int64
	for _, item := range r.items {
		if item.UserID == uid && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memoryNotifications) MarkAsRead(_ context.Context, uid, id uuid.UUID) error {
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == uid {
			r.items[i].IsRead = true
			return nil
		}
	}
	return contract.ErrNotificationNotFound
}

func (r *memoryNotifications) MarkAllAsRead(_ context.Context, uid uuid.UUID) error {
	for i := range r.items {
		if r.items[i].UserID == uid {
			r.items[i].IsRead = true
		}
	}
	return nil
}

type capturePublisher struct{ published []events.Event }

func (p *capturePublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

func testAuth(ctx *fiber.Ctx) error {
	role := ctx.Get("X-Role")
	if role == "" {
		role = serverutils.RoleUser
	}
	ctx.Locals("user_id", userID.String())
	ctx.Locals("role", role)
	return ctx.Next()
}

func setup(repo *memoryNotifications, pub *capturePublisher) *fiber.App {
	log := logger.NewNopLogger()
	hub := internalWS.NewHub(nil, log)
	svc := service.NewNotificationService(repo, nil, pub, hub, log)
	h := NewNotificationHandler(svc, hub, testSecret, testAuth, log)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	api := app.Group("/api", serverutils.ErrorHandlerMiddleware())
	h.RegisterRoutes(api)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (int, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env serverutils.BaseResponse[json.RawMessage]
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func seed(n int) *memoryNotifications {
	repo := &memoryNotifications{}
	for i := 0; i < n; i++ {
		repo.items = append(repo.items, model.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			TypeCode:  events.TypeContractReady,
			Title:     "Vertrag bereit",
			Message:   "ok",
			IsRead:    i == 0,
			CreatedAt: time.Now(),
		})
	}
	repo.items = append(repo.items, model.Notification{ID: uuid.New(), UserID: uuid.New(), Title: "other"})
	return repo
}

func TestGetNotificationsPaginates(t *testing.T) {
	app := setup(seed(3), &capturePublisher{})

	status, env := call(t, app, "GET", "/api/notifications?limit=2&offset=0", "")
	require.Equal(t, fiber.StatusOK, status)

	var page struct {
		Data   []model.Notification `json:"data"`
		Total  int64                `json:"total"`
		Limit  int                  `json:"limit"`
		Offset int                  `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Data, 2)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Limit)

	// out of range limits fall back to the default
	status, env = call(t, app, "GET", "/api/notifications?limit=500&unread=true", "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 20, page.Limit)
	assert.EqualValues(t, 2, page.Total)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	repo := seed(3)
	app := setup(repo, &capturePublisher{})

	status, env := call(t, app, "GET", "/api/notifications/unread-count", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"count":2}`, string(env.Data))

	status, _ = call(t, app, "PATCH", "/api/notifications/"+repo.items[1].ID.String()+"/read", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, repo.items[1].IsRead)

	// someone else's notification
	status, _ = call(t, app, "PATCH", "/api/notifications/"+repo.items[3].ID.String()+"/read", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, app, "PATCH", "/api/notifications/not-a-uuid/read", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "PATCH", "/api/notifications/read-all", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, repo.items[2].IsRead)
	assert.False(t, repo.items[3].IsRead)
}

func TestBroadcastRequiresAdmin(t *testing.T) {
	pub := &capturePublisher{}
	app := setup(seed(0), pub)

	status, _ := call(t, app, "POST", "/api/notifications/broadcast", `{"title":"Wartung","message":"Heute 22 Uhr"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Empty(t, pub.published)

	status, _ = call(t, app, "POST", "/api/notifications/broadcast", `{"title":""}`, "X-Role", serverutils.RoleAdmin)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, "POST", "/api/notifications/broadcast", `{"title":"Wartung","message":"Heute 22 Uhr"}`, "X-Role", serverutils.RoleAdmin)
	assert.Equal(t, fiber.StatusAccepted, status)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeSystemBroadcast, pub.published[0].EventType())
}

func TestServeWsRejectsBadTokens(t *testing.T) {
	app := setup(seed(0), &capturePublisher{})

	status, _ := call(t, app, "GET", "/api/ws", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "GET", "/api/ws?token=garbage", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// a valid token without the upgrade headers
	token, _, err := serverutils.IssueToken(testSecret, userID, serverutils.RoleUser, time.Hour)
	require.NoError(t, err)
	status, _ = call(t, app, "GET", "/api/ws?token="+token, "")
	assert.Equal(t, fiber.StatusUpgradeRequired, status)
}
