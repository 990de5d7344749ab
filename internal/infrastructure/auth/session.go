package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// DefaultCookieName is the session cookie set by the identity provider
const DefaultCookieName = "__session"

// Common errors
var (
	ErrMissingToken     = errors.New("missing session token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidIssuer    = errors.New("unexpected token issuer")
	ErrMissingUserID    = errors.New("missing sub in claims")
)

// SessionClaims are the claims carried by an identity-provider session token
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// SessionVerifier validates session tokens issued by the identity provider
type SessionVerifier struct {
	secret     []byte
	issuer     string
	cookieName string
}

// NewSessionVerifier creates a verifier from the auth configuration
func NewSessionVerifier(cfg config.AuthConfig) *SessionVerifier {
	cookie := cfg.CookieName
	if cookie == "" {
		cookie = DefaultCookieName
	}
	return &SessionVerifier{
		secret:     []byte(cfg.SessionSecret),
		issuer:     cfg.Issuer,
		cookieName: cookie,
	}
}

// CookieName returns the name of the session cookie
func (v *SessionVerifier) CookieName() string {
	return v.cookieName
}

// Verify parses an HS256 session token and returns the signed-in user
func (v *SessionVerifier) Verify(tokenString string) (*identity.User, error) {
	claims, err := v.ParseClaims(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(claims.Subject, claims.Email, claims.Name)
	if err != nil {
		return nil, ErrMissingUserID
	}
	return user, nil
}

// ParseClaims validates the token signature and registered claims
func (v *SessionVerifier) ParseClaims(tokenString string) (*SessionClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, opts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrInvalidIssuer
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// TokenFromRequest returns the bearer token, or the session cookie when no
// Authorization header is present
func (v *SessionVerifier) TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(v.cookieName); err == nil {
		return c.Value
	}
	return ""
}

// VerifyRequest extracts and verifies the session of an HTTP request
func (v *SessionVerifier) VerifyRequest(r *http.Request) (*identity.User, error) {
	return v.Verify(v.TokenFromRequest(r))
}
