package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"stockhub/internal/core/apperror"
)

// TokenValidator verifies a bearer token and returns the caller identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (string, error)
}

// ServiceAuth middleware validates service-to-service JWT tokens on mutating
// endpoints. Read endpoints stay open.
func ServiceAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		service, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set("caller_service", service)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
