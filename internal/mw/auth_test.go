package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cakeshop/internal/service"
)

const testSecret = "test-secret"

func protected(t *testing.T) http.Handler {
	t.Helper()
	authSvc, err := service.NewAuthService("s3cret")
	require.NoError(t, err)
	return AdminAuth(authSvc, testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, adminRole, r.Context().Value(AdminCtxKey))
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAdminAuth_RejectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "?pw=")
}

func TestAdminAuth_WrongPassword(t *testing.T) {
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin?pw=guess", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdminAuth_PasswordQuerySetsCookie(t *testing.T) {
	h := protected(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin?pw=s3cret", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuth_BearerToken(t *testing.T) {
	token, err := IssueToken(testSecret, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuth_RejectsBadTokens(t *testing.T) {
	expired, err := IssueToken(testSecret, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	foreign, err := IssueToken("other-secret", time.Now())
	require.NoError(t, err)
	wrongRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "customer",
		"exp":  jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"foreign":    foreign,
		"wrong role": wrongRole,
		"garbage":    "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
			rec := httptest.NewRecorder()
			protected(t).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
