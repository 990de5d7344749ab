package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	UserIDKey    = logger.GinUserIDKey
	UserEmailKey = "user_email"
	UserKey      = "session_user"
)

// RequestVerifier resolves the signed-in user of a request
type RequestVerifier interface {
	VerifyRequest(r *http.Request) (*identity.User, error)
}

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	Verifier RequestVerifier
	// SignInPath is where browsers without a session are redirected
	SignInPath string
	Logger     *zap.Logger
}

// SessionAuth requires a valid identity-provider session.
// Browsers are redirected to the sign-in page; API clients get 401 with
// details.redirect pointing at the same page.
func SessionAuth(cfg SessionConfig) gin.HandlerFunc {
	if cfg.SignInPath == "" {
		cfg.SignInPath = "/signin"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		user, err := cfg.Verifier.VerifyRequest(c.Request)
		if err != nil {
			if !errors.Is(err, auth.ErrMissingToken) {
				cfg.Logger.Warn("Session verification failed",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
			rejectSession(c, cfg.SignInPath, err)
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(UserEmailKey, user.Email)

		ctx, reqLogger := logger.WithUserID(c.Request.Context(), logger.GetGinLogger(c), user.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(logger.GinLoggerKey, reqLogger)

		c.Next()
	}
}

func rejectSession(c *gin.Context, signInPath string, err error) {
	if acceptsHTML(c.Request) {
		c.Redirect(http.StatusFound, signInPath)
		c.Abort()
		return
	}

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Session has expired"
	case errors.Is(err, auth.ErrMissingToken):
	default:
		code, message = dto.ErrCodeTokenInvalid, "Invalid session"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithDetails(
		code, message, GetRequestID(c), dto.RedirectDetails{Redirect: signInPath},
	))
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// GetUserID returns the signed-in user's ID, or "" outside SessionAuth
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetUserEmail returns the signed-in user's email, which may be empty
func GetUserEmail(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}

// GetUser returns the signed-in user
func GetUser(c *gin.Context) *identity.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*identity.User); ok {
			return u
		}
	}
	return nil
}
