package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret-at-least-32-chars"

func newTestVerifier(issuer string) *SessionVerifier {
	return NewSessionVerifier(config.AuthConfig{
		SessionSecret: testSecret,
		Issuer:        issuer,
	})
}

func signSession(t *testing.T, method jwt.SigningMethod, secret string, claims SessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims() SessionClaims {
	now := time.Now()
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_2a",
			Issuer:    "https://clerk.example.com",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: "Buyer@Example.com",
		Name:  "Buyer",
	}
}

func TestNewSessionVerifier_DefaultCookie(t *testing.T) {
	v := NewSessionVerifier(config.AuthConfig{SessionSecret: testSecret})
	assert.Equal(t, DefaultCookieName, v.CookieName())

	v = NewSessionVerifier(config.AuthConfig{SessionSecret: testSecret, CookieName: "sid"})
	assert.Equal(t, "sid", v.CookieName())
}

func TestVerify_Success(t *testing.T) {
	v := newTestVerifier("")
	token := signSession(t, jwt.SigningMethodHS256, testSecret, validClaims())

	user, err := v.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, "user_2a", user.ID)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.Equal(t, "Buyer", user.Name)
}

func TestVerify_Errors(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	future := validClaims()
	future.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"expired", signSession(t, jwt.SigningMethodHS256, testSecret, expired), ErrExpiredToken},
		{"not yet valid", signSession(t, jwt.SigningMethodHS256, testSecret, future), ErrTokenNotYetValid},
		{"wrong secret", signSession(t, jwt.SigningMethodHS256, "another-secret-of-sufficient-size!", validClaims()), ErrInvalidToken},
		{"wrong algorithm", signSession(t, jwt.SigningMethodHS512, testSecret, validClaims()), ErrInvalidToken},
		{"missing subject", signSession(t, jwt.SigningMethodHS256, testSecret, noSubject), ErrMissingUserID},
	}

	v := newTestVerifier("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerify_Issuer(t *testing.T) {
	token := signSession(t, jwt.SigningMethodHS256, testSecret, validClaims())

	_, err := newTestVerifier("https://clerk.example.com").Verify(token)
	assert.NoError(t, err)

	_, err = newTestVerifier("https://other.example.com").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidIssuer)
}

func TestTokenFromRequest(t *testing.T) {
	v := newTestVerifier("")

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc.def.ghi")
		req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "cookie-token"})
		assert.Equal(t, "abc.def.ghi", v.TokenFromRequest(req))
	})

	t.Run("lowercase scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer abc")
		assert.Equal(t, "abc", v.TokenFromRequest(req))
	})

	t.Run("non bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		assert.Empty(t, v.TokenFromRequest(req))
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "cookie-token"})
		assert.Equal(t, "cookie-token", v.TokenFromRequest(req))
	})

	t.Run("nothing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, v.TokenFromRequest(req))
	})
}

func TestVerifyRequest(t *testing.T) {
	v := newTestVerifier("")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: signSession(t, jwt.SigningMethodHS256, testSecret, validClaims())})

	user, err := v.VerifyRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "user_2a", user.ID)
}
