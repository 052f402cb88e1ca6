package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/auth"
	"github.com/videotube/videotube/internal/response"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	userIDKey   = "user_id"
	usernameKey = "username"
)

type JWTConfig struct {
	Issuer *auth.Issuer
	// Optional lets anonymous requests through. A token that is present but
	// invalid is ignored rather than rejected.
	Optional bool
}

func NewJWTAuth(config *JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			if config.Optional {
				c.Next()
				return
			}
			response.Err(apperr.Unauthorized("")).Abort(c)
			return
		}

		claims, err := config.Issuer.ParseAccess(token)
		if err != nil {
			if config.Optional {
				c.Next()
				return
			}
			response.Err(apperr.Unauthorized("Invalid access token")).Abort(c)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// extractToken prefers the cookie and falls back to the Authorization header.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserID returns the authenticated user id, or "" for anonymous requests.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func GetUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}
