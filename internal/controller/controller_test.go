package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"pkv-backend/internal/dto"
	"pkv-backend/internal/pkg/serverutils"
	"pkv-backend/internal/service"
	"pkv-backend/pkg/contractqa"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUserID = uuid.New()

// fakeAuth stands in for the JWT middleware; the role comes from X-Role.
func fakeAuth(ctx *fiber.Ctx) error {
	role := ctx.Get("X-Role")
	if role == "" {
		role = serverutils.RoleUser
	}
	ctx.Locals("user_id", testUserID.String())
	ctx.Locals("role", role)
	return ctx.Next()
}

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	api := app.Group("/api", serverutils.ErrorHandlerMiddleware())
	register(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (int, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
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
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &env)
	return resp.StatusCode, env
}

type fakeChatbot struct {
	res *dto.ContractAnswerResponse
	err error
}

func (f fakeChatbot) Ask(context.Context, uuid.UUID, *dto.ContractQuestionRequest) (*dto.ContractAnswerResponse, error) {
	return f.res, f.err
}

type fakeContracts struct {
	service.IContractService
	uploaded *dto.UploadContractRequest
	adminId  uuid.UUID
}

func (f *fakeContracts) Upload(_ context.Context, adminId uuid.UUID, req *dto.UploadContractRequest) (*dto.ContractResponse, error) {
	f.uploaded = req
	f.adminId = adminId
	return &dto.ContractResponse{Id: uuid.New(), UserId: req.UserId, FileName: req.FileName}, nil
}

func (f *fakeContracts) GetForUser(context.Context, uuid.UUID) (*dto.ContractResponse, error) {
	return nil, service.ErrContractNotFound
}

func TestContractChatbotStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"answer", nil, 200},
		{"question too long", &contractqa.ValidationError{Reason: "question exceeds 4000 characters"}, 400},
		{"no contract", contractqa.ErrNoContract, 404},
		{"empty corpus", contractqa.ErrEmptyCorpus, 422},
		{"encoder down", &contractqa.EncoderError{Model: "m", Op: "query", Err: errors.New("timeout")}, 503},
		{"extraction", &contractqa.ExtractionError{DocumentID: "x", Err: errors.New("bad xref")}, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bot := fakeChatbot{err: tc.err}
			if tc.err == nil {
				bot.res = &dto.ContractAnswerResponse{Answer: "§4 Zahnersatz", UnitIndex: 3, Score: 0.8, Units: 9}
			}
			app := newTestApp(NewContractController(&fakeContracts{}, bot, fakeAuth).RegisterRoutes)

			status, env := doJSON(t, app, "POST", "/api/contracts/chatbot", dto.ContractQuestionRequest{Question: "Zahnersatz?"})
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.status, env.Code)
			if tc.err == nil {
				var got dto.ContractAnswerResponse
				require.NoError(t, json.Unmarshal(env.Data, &got))
				assert.Equal(t, "§4 Zahnersatz", got.Answer)
			}
			if tc.status == 500 {
				assert.Equal(t, "Internal server error", env.Message)
			}
		})
	}
}

func TestContractUploadMultipart(t *testing.T) {
	contracts := &fakeContracts{}
	app := newTestApp(NewContractController(contracts, fakeChatbot{}, fakeAuth).RegisterRoutes)
	owner := uuid.New()

	build := func() (*bytes.Buffer, string) {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		require.NoError(t, w.WriteField("user_id", owner.String()))
		part, err := w.CreateFormFile("pdf_file", "vertrag.pdf")
		require.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, w.Close())
		return &body, w.FormDataContentType()
	}

	body, contentType := build()
	req := httptest.NewRequest("POST", "/api/admin/contracts", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	body, contentType = build()
	req = httptest.NewRequest("POST", "/api/admin/contracts", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Role", serverutils.RoleAdmin)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	require.NotNil(t, contracts.uploaded)
	assert.Equal(t, owner, contracts.uploaded.UserId)
	assert.Equal(t, "vertrag.pdf", contracts.uploaded.FileName)
	assert.Equal(t, []byte("%PDF-1.4 test"), contracts.uploaded.Data)
	assert.Equal(t, testUserID, contracts.adminId)
}

func TestGetMineWithoutContract(t *testing.T) {
	app := newTestApp(NewContractController(&fakeContracts{}, fakeChatbot{}, fakeAuth).RegisterRoutes)

	status, env := doJSON(t, app, "GET", "/api/contracts/me", nil)
	assert.Equal(t, 404, status)
	assert.False(t, env.Success)
}

type fakeAuthService struct {
	service.IAuthService
	loginErr error
}

func (f fakeAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return &dto.RegisterResponse{Id: uuid.New(), Username: req.Username, Email: req.Email}, nil
}

func (f fakeAuthService) Login(context.Context, *dto.LoginRequest) (*dto.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.LoginResponse{AccessToken: "tok", TokenType: "Bearer"}, nil
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(NewAuthController(fakeAuthService{}, fakeAuth).RegisterRoutes)

	status, env := doJSON(t, app, "POST", "/api/auth/register", map[string]string{"username": "ab", "email": "nope"})
	assert.Equal(t, 400, status)
	assert.Contains(t, env.Message, "validation failed")

	status, _ = doJSON(t, app, "POST", "/api/auth/register", dto.RegisterRequest{
		Username: "erika", Email: "erika@example.de", Password: "sehrgeheim1", FirstName: "Erika", LastName: "M",
	})
	assert.Equal(t, 201, status)
}

func TestLoginErrors(t *testing.T) {
	cases := map[error]int{
		service.ErrInvalidCredentials: 401,
		service.ErrEmailNotVerified:   403,
		service.ErrAccountBlocked:     403,
	}
	for err, want := range cases {
		app := newTestApp(NewAuthController(fakeAuthService{loginErr: err}, fakeAuth).RegisterRoutes)
		status, env := doJSON(t, app, "POST", "/api/auth/login", dto.LoginRequest{Username: "maxm", Password: "x"})
		assert.Equal(t, want, status, err.Error())
		assert.Equal(t, err.Error(), env.Message)
	}
}

type fakeVoiceflowService struct{ err error }

func (f fakeVoiceflowService) Chat(context.Context, uuid.UUID, *dto.VoiceflowChatRequest) (*dto.VoiceflowChatResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.VoiceflowChatResponse{Messages: []string{"Hallo"}}, nil
}

func TestVoiceflowChat(t *testing.T) {
	app := newTestApp(NewVoiceflowController(fakeVoiceflowService{}, fakeAuth).RegisterRoutes)
	req := httptest.NewRequest("POST", "/api/voiceflow/chat", bytes.NewBufferString(`{"type":"launch"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"messages":["Hallo"],"choices":null,"audio":null}`, string(body))

	app = newTestApp(NewVoiceflowController(fakeVoiceflowService{err: service.ErrUpstream}, fakeAuth).RegisterRoutes)
	req = httptest.NewRequest("POST", "/api/voiceflow/chat", bytes.NewBufferString(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"error"`)
}

func TestListTariffsRejectsBadFilter(t *testing.T) {
	app := newTestApp(NewInsuranceController(nil, fakeAuth).RegisterRoutes)

	status, _ := doJSON(t, app, "GET", "/api/tariffs?company=nope", nil)
	assert.Equal(t, 400, status)
	status, _ = doJSON(t, app, "GET", "/api/tariffs?type=premium", nil)
	assert.Equal(t, 400, status)
}
