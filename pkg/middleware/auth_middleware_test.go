package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BereketMelese/Bloom/internal/models"
	jwtutil "github.com/BereketMelese/Bloom/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

type stubUserFetcher struct {
	user *models.User
	err  error
}

func (s *stubUserFetcher) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.user, s.err
}

func newTestUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     "user",
	}
}

func TestExtractTokenFromCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	assert.Equal(t, "cookie-token", ExtractToken(r))
}

func TestExtractTokenFromBearerHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "header-token", ExtractToken(r))
}

func TestExtractTokenCookieWinsOverHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", ExtractToken(r))
}

func TestExtractTokenMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(t, "", ExtractToken(r))
}

func runAuth(t *testing.T, token string, users UserFetcher) (*httptest.ResponseRecorder, *jwtutil.Claims) {
	t.Helper()

	var captured *jwtutil.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()

	AuthMiddleware(testSecret, users)(next).ServeHTTP(w, r)
	return w, captured
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	user := newTestUser()
	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, testSecret, time.Hour)
	require.NoError(t, err)

	w, claims := runAuth(t, token, &stubUserFetcher{user: user})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, claims)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	w, claims := runAuth(t, "", &stubUserFetcher{user: newTestUser()})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, claims)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	w, _ := runAuth(t, "garbage", &stubUserFetcher{user: newTestUser()})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectionUsesJSONEnvelope(t *testing.T) {
	w, _ := runAuth(t, "garbage", &stubUserFetcher{user: newTestUser()})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not authorized", body["message"])
}

func TestAuthMiddlewareUnknownUser(t *testing.T) {
	user := newTestUser()
	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, testSecret, time.Hour)
	require.NoError(t, err)

	w, _ := runAuth(t, token, &stubUserFetcher{err: assert.AnError})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsTokenIssuedBeforePasswordChange(t *testing.T) {
	user := newTestUser()
	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, testSecret, time.Hour)
	require.NoError(t, err)

	// Password changed after the token was minted, so the session is stale.
	user.PasswordChangedAt = time.Now().Add(time.Minute)

	w, _ := runAuth(t, token, &stubUserFetcher{user: user})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := RequireRole("admin")(next)

	// No claims in context.
	w := httptest.NewRecorder()
	guard.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])

	// Wrong role.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(r.Context(), userContextKey, &jwtutil.Claims{Role: "user"})
	w = httptest.NewRecorder()
	guard.ServeHTTP(w, r.WithContext(ctx))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Matching role.
	ctx = context.WithValue(r.Context(), userContextKey, &jwtutil.Claims{Role: "admin"})
	w = httptest.NewRecorder()
	guard.ServeHTTP(w, r.WithContext(ctx))
	assert.Equal(t, http.StatusOK, w.Code)
}
