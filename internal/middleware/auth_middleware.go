package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// ContextUserKey is the gin context key holding the authenticated *models.User
const ContextUserKey = "currentUser"

// Authenticator resolves an Authorization header to a user
type Authenticator interface {
	Authenticate(ctx context.Context, authHeader string) (*models.User, error)
}

// AuthMiddleware for authentication
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// JWTAuth requires a valid bearer token. On failure the request is answered
// here and the downstream handlers never run.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authenticator.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the identity stored by JWTAuth
func CurrentUser(c *gin.Context) (*models.User, error) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, apperrors.NewUnauthenticatedError("Not authorized")
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthenticatedError("Not authorized")
	}
	return user, nil
}
