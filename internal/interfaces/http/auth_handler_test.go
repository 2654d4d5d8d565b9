package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertzappdev/bizfree-backend/internal/application/auth"
	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	apphttp "github.com/expertzappdev/bizfree-backend/internal/interfaces/http"
	"github.com/expertzappdev/bizfree-backend/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos del store
// ──────────────────────────────────────────────────────────────────────────────

type memCredentials struct {
	mu   sync.Mutex
	rows map[int64]*entity.Credential
}

func (m *memCredentials) FindByID(_ context.Context, id int64) (*entity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCredentials) FindActiveByEmail(_ context.Context, email string) (*entity.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if strings.EqualFold(c.Email, email) && c.CanSignIn() {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCredentials) SetRefreshToken(_ context.Context, userID int64, digest *string, expiry *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[userID].RefreshToken, m.rows[userID].RefreshTokenExpiry = digest, expiry
	return nil
}

func (m *memCredentials) RotateRefreshToken(_ context.Context, userID int64, current, next string, nextExpiry, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.rows[userID]
	if c.RefreshToken == nil || *c.RefreshToken != current || c.RefreshTokenExpiry == nil || !c.RefreshTokenExpiry.After(now) {
		return false, nil
	}
	c.RefreshToken, c.RefreshTokenExpiry = &next, &nextExpiry
	return true, nil
}

func (m *memCredentials) UpdatePassword(_ context.Context, userID int64, hash string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[userID].PasswordHash = hash
	return nil
}

func (m *memCredentials) ConsumeResetToken(context.Context, string, string, string, time.Time) (bool, error) {
	return false, nil
}

type memRoles struct{}

func (memRoles) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	return &entity.Role{ID: id, Name: "Employee"}, nil
}

type memPermissions struct{}

func (memPermissions) ListNames(context.Context, int64, int64) ([]string, error) {
	return []string{"task.read", "task.update"}, nil
}

func (memPermissions) Resolve(ctx context.Context, roleID, companyID int64) ([]string, error) {
	return memPermissions{}.ListNames(ctx, roleID, companyID)
}

func newAuthApp(t *testing.T, ratePerMinute int) *fiber.App {
	t.Helper()
	company := int64(7)
	creds := &memCredentials{rows: map[int64]*entity.Credential{
		10: {ID: 10, Email: "a@x.com", PasswordHash: "p1", IsActive: true, RoleID: entity.RoleEmployee, CompanyID: &company},
	}}
	uc := auth.NewAuthUseCase(auth.Deps{
		Credentials: creds,
		Roles:       memRoles{},
		Permissions: memPermissions{},
		Resolver:    memPermissions{},
		Hasher:      password.NewHasher(4, true),
	}, auth.Config{Secret: testJWTSecret, Issuer: testIssuer})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:             uc,
		JWTSecret:          testJWTSecret,
		JWTIssuer:          testIssuer,
		RateLimitPerMinute: ratePerMinute,
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}, authHeader string) (*http.Response, dto.APIResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env dto.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

// ──────────────────────────────────────────────────────────────────────────────
// Endpoints de auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLoginEndpoint_OK(t *testing.T) {
	app := newAuthApp(t, 0)
	resp, env := postJSON(t, app, "/api/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "p1"}, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Status)
	assert.Equal(t, http.StatusOK, env.StatusCode)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
	assert.NotEmpty(t, data["refreshToken"])
	assert.Equal(t, []interface{}{"task.read", "task.update"}, data["permissions"])
}

func TestLoginCachedEndpoint_OK(t *testing.T) {
	app := newAuthApp(t, 0)
	resp, env := postJSON(t, app, "/api/auth/login-cached", dto.LoginRequest{Email: "A@X.com", Password: "p1"}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Status)
}

func TestLoginEndpoint_Errores(t *testing.T) {
	app := newAuthApp(t, 0)

	resp, env := postJSON(t, app, "/api/auth/login", dto.LoginRequest{Email: "a@x.com"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Status)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)

	resp, env = postJSON(t, app, "/api/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "mala"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "email o contraseña incorrectos", env.Message)
}

func TestRefreshEndpoint_TokenInvalidoEs400(t *testing.T) {
	app := newAuthApp(t, 0)
	resp, env := postJSON(t, app, "/api/auth/refresh-token", dto.RefreshTokenRequest{Token: "basura", RefreshToken: "x"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidToken, env.Code)
}

func TestRefreshEndpoint_RotaYRechazaReuso(t *testing.T) {
	app := newAuthApp(t, 0)
	_, env := postJSON(t, app, "/api/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "p1"}, "")
	data := env.Data.(map[string]interface{})
	in := dto.RefreshTokenRequest{Token: data["token"].(string), RefreshToken: data["refreshToken"].(string)}

	resp, _ := postJSON(t, app, "/api/auth/refresh-token", in, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, app, "/api/auth/refresh-token", in, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "un refresh token rotado no se reutiliza")
}

func TestLogoutEndpoint(t *testing.T) {
	app := newAuthApp(t, 0)

	resp, _ := postJSON(t, app, "/api/auth/logout", struct{}{}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env := postJSON(t, app, "/api/auth/logout", struct{}{}, tokenForRole(t, entity.RoleEmployee))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Status)
}

func TestAuthEndpoints_RateLimitPorIP(t *testing.T) {
	app := newAuthApp(t, 1)
	in := dto.LoginRequest{Email: "a@x.com", Password: "mala"}

	var last *http.Response
	for i := 0; i < 6; i++ {
		last, _ = postJSON(t, app, "/api/auth/login", in, "")
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode, "el burst es de 5 solicitudes")
}
