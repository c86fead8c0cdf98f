package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"accounts/config"
	deliverycontext "accounts/internal/delivery/context"
	httpmiddleware "accounts/internal/delivery/http/middleware"
	"accounts/internal/delivery/http/router"
	"accounts/internal/delivery/http/router/handler"
	"accounts/internal/domain/service"
	"accounts/internal/infra/auth"
	"accounts/internal/infra/metrics"
	"accounts/internal/infra/persistence/memory"
	"accounts/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	echo   *echo.Echo
	tokens service.TokenService
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.Store.Driver = config.StoreDriverMemory
	cfg.ApplyDefaults()

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	m := metrics.New()
	uc := impl.NewAccountService(impl.AccountServiceParams{
		AccountRepo:  memory.NewAccountRepository(),
		Hasher:       auth.NewBcryptHasherWithCost(4),
		TokenService: tokens,
		Metrics:      metrics.NewMetrics(m),
		Config:       cfg,
		Logger:       logger,
	})

	e := newEcho(cfg, logger, httpmiddleware.NewErrorMiddleware(logger))
	router.NewRouter(router.RouterParams{
		AccountHandler: handler.NewAccountHandler(uc, logger),
		AuthMiddleware: httpmiddleware.NewAuthMiddleware(tokens),
		Metrics:        m,
	}).RegisterRoutes(e)

	return testServer{echo: e, tokens: tokens}
}

func (s testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

func TestServer_Root(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running...", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestServer_SignUpAndSignIn(t *testing.T) {
	s := newTestServer(t)
	creds := `{"email":"alice@example.com","password":"hunter2"}`

	rec := s.do(http.MethodPost, "/api/users/signup", creds, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created successfully", decodeBody(t, rec)["message"])

	rec = s.do(http.MethodPost, "/api/users/signup", creds, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decodeBody(t, rec)["message"])

	rec = s.do(http.MethodPost, "/api/users/signin", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["token"]
	require.NotEmpty(t, token)

	claims, err := s.tokens.Verify(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.AccountID)

	rec = s.do(http.MethodGet, "/api/users/me", "", map[string]string{
		echo.HeaderAuthorization: "Bearer " + token,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody(t, rec)
	assert.Equal(t, claims.AccountID, me["id"])
	assert.Equal(t, "alice@example.com", me["email"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestServer_SignInFailuresLookAlike(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		s.do(http.MethodPost, "/api/users/signup", `{"email":"bob@example.com","password":"right"}`, nil).Code)

	unknown := s.do(http.MethodPost, "/api/users/signin", `{"email":"nobody@example.com","password":"right"}`, nil)
	wrong := s.do(http.MethodPost, "/api/users/signin", `{"email":"bob@example.com","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Equal(t, "Invalid credentials", decodeBody(t, wrong)["message"])
}

func TestServer_InvalidBodies(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "signup missing password", path: "/api/users/signup", body: `{"email":"c@example.com"}`},
		{name: "signup malformed json", path: "/api/users/signup", body: `{"email":`},
		{name: "signin empty object", path: "/api/users/signin", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, tt.path, tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Email and password are required", decodeBody(t, rec)["message"])
		})
	}
}

func TestServer_MeRequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/users/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized", decodeBody(t, rec)["message"])
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodOptions, "/api/users/signup", "", map[string]string{
		echo.HeaderOrigin:                     "http://example.com",
		echo.HeaderAccessControlRequestMethod: http.MethodPost,
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), echo.HeaderContentType)
}

func TestServer_CORSAllowsBearerTokenOnMe(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodOptions, "/api/users/me", "", map[string]string{
		echo.HeaderOrigin:                      "http://example.com",
		echo.HeaderAccessControlRequestMethod:  http.MethodGet,
		echo.HeaderAccessControlRequestHeaders: echo.HeaderAuthorization,
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), echo.HeaderAuthorization)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/users/signin", `{"email":"x@example.com","password":"y"}`, nil)

	rec := s.do(http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `accounts_authentications_total{outcome="invalid_credentials"} 1`)
}

func TestServer_ConcurrentSignUp(t *testing.T) {
	s := newTestServer(t)

	const attempts = 6
	codes := make([]int, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = s.do(http.MethodPost, "/api/users/signup", `{"email":"race@example.com","password":"p"}`, nil).Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusBadRequest, code)
		}
	}
	assert.Equal(t, 1, created)
}

func TestServer_StopWithoutStart(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	srv := &httpServer{cfg: cfg, logger: logger, server: echo.New()}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, srv.stop(ctx))
}
