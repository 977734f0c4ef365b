package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/ats/pkg/auth"
)

const (
	testSecret = "test-secret"
	testIssuer = "ats-test"
)

type memRevocations struct {
	revoked map[string]struct{}
}

func (m *memRevocations) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.revoked[tokenID] = struct{}{}
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func newTestApp(revoked auth.RevocationStore) *fiber.App {
	app := fiber.New()
	app.Get("/protected", NewAuthMiddleware(testSecret, testIssuer, revoked), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userId": c.Locals("userId"),
			"role":   c.Locals("role"),
		})
	})
	return app
}

func issueToken(t *testing.T, user auth.User) string {
	t.Helper()
	gen := NewGenerator(testSecret, testIssuer, time.Hour)
	token, err := gen.Generate(context.Background(), user)
	require.NoError(t, err)
	return token
}

func request(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMiddlewareAcceptsToken(t *testing.T) {
	app := newTestApp(nil)
	token := issueToken(t, auth.User{ID: uuid.New(), Role: auth.RoleApplicant})

	tests := []struct {
		name   string
		header string
	}{
		{"bearer prefix", "Bearer " + token},
		{"bare token", token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := request(t, app, tt.header)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestMiddlewareRejects(t *testing.T) {
	app := newTestApp(nil)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"garbage", "Bearer not-a-jwt"},
		{"wrong secret", func() string {
			gen := NewGenerator("other-secret", testIssuer, time.Hour)
			tok, _ := gen.Generate(context.Background(), auth.User{ID: uuid.New()})
			return "Bearer " + tok
		}()},
		{"wrong issuer", func() string {
			gen := NewGenerator(testSecret, "someone-else", time.Hour)
			tok, _ := gen.Generate(context.Background(), auth.User{ID: uuid.New()})
			return "Bearer " + tok
		}()},
		{"expired", func() string {
			gen := NewGenerator(testSecret, testIssuer, -time.Minute)
			tok, _ := gen.Generate(context.Background(), auth.User{ID: uuid.New()})
			return "Bearer " + tok
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := request(t, app, tt.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestMiddlewareRejectsRevokedToken(t *testing.T) {
	rev := &memRevocations{revoked: map[string]struct{}{}}
	app := newTestApp(rev)
	token := issueToken(t, auth.User{ID: uuid.New(), Role: auth.RoleApplicant})

	resp := request(t, app, "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// отзываем jti токена и повторяем запрос
	claims := &Claims{}
	_, _, err := jwtlib.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	require.NoError(t, rev.Revoke(context.Background(), claims.ID, time.Hour))

	resp = request(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
