package middleware

import (
	"strings"

	"github.com/kpcrmv4/manusdentalos/internal/auth"
	"github.com/kpcrmv4/manusdentalos/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware validates the bearer token and stores the caller's username
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Missing authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.Error(errors.NewStandardError(errors.CodeUnauthorized, "missing authorization header", "Header: Authorization"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			logger.Warn("Invalid authorization header format",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.Error(errors.NewStandardError(errors.CodeUnauthorized, "invalid authorization header format", "Expected: Bearer <token>"))
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			message := "invalid token"
			if err == auth.ErrExpiredToken {
				message = "token expired"
			}
			logger.Warn("Rejected token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err),
			)
			c.Error(errors.NewUnauthorized(message))
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Set("user_id", claims.Subject)
		c.Next()
	}
}

// Username returns the authenticated caller, or "" on public routes
func Username(c *gin.Context) string {
	return c.GetString("username")
}
