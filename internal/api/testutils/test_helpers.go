package testutils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dwbooks/bookmanager/internal/api"
	"github.com/dwbooks/bookmanager/internal/config"
	"github.com/dwbooks/bookmanager/internal/database"
	"github.com/dwbooks/bookmanager/internal/repository"
	"github.com/dwbooks/bookmanager/internal/service"
	"github.com/dwbooks/bookmanager/internal/utils"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router  *gin.Engine
	Service service.Service
	Books   repository.BookRepository
	Users   repository.UserRepository
	Tokens  repository.TokenRepository
	Pool    *database.Pool
}

// SetupTestContext creates a new test context with initialized dependencies
// backed by a fresh database under the test's temporary directory.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	cfg := &config.Config{
		Database: config.DatabaseConfig{Path: path},
		Auth:     config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}

	db, err := database.Open(path)
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, database.CreateTables(db), "Failed to create tables")
	require.NoError(t, db.Close())

	log := utils.NewLogger("error")
	pool := database.NewPool(path, log)

	books, err := repository.NewBookRepository(cfg, pool, log)
	require.NoError(t, err, "Failed to create book repository")

	users, err := repository.NewUserRepository(cfg, pool, log)
	require.NoError(t, err, "Failed to create user repository")

	tokens, err := repository.NewTokenRepository(cfg, pool, log)
	require.NoError(t, err, "Failed to create token repository")

	svc := service.NewDefaultService(books, users, tokens, cfg.Auth.BcryptCost, log)
	handler := api.NewHandler(svc, log)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.RequestIDMiddleware())
	handler.SetupRoutes(router)

	return &TestContext{
		Router:  router,
		Service: svc,
		Books:   books,
		Users:   users,
		Tokens:  tokens,
		Pool:    pool,
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(ctx *TestContext) {
	ctx.Books.Close()
	ctx.Users.Close()
	ctx.Tokens.Close()
	ctx.Pool.Shutdown()
}

// PerformRequest executes an HTTP request against the router. A string or
// []byte body is sent raw; anything else is marshaled to JSON.
func PerformRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	case []byte:
		reqBody = bytes.NewBuffer(b)
	default:
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DecodeResponse unmarshals the recorded response body into out.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "Failed to decode response body: %s", w.Body.String())
}

// RegisterTestUser registers a user through the API and returns the token.
func RegisterTestUser(t *testing.T, router http.Handler, name, email, password string) string {
	t.Helper()

	w := PerformRequest(router, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	DecodeResponse(t, w, &resp)
	require.NotEmpty(t, resp.Token)

	return resp.Token
}
