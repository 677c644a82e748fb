package middleware

import (
	"net/http"
	"strings"

	"servicebook/internal/domain"
	"servicebook/internal/pkg/jwt"
	"servicebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates a bearer token and stores user_id, role and, for
// professionals, professional_id in the gin context. Browsers cannot set
// headers on a websocket upgrade, so a ?token= query parameter is accepted
// as well.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			header := c.GetHeader("Authorization")
			if header == "" {
				response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
				return
			}
			token = strings.TrimSpace(parts[1])
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		if claims.ProfessionalID > 0 {
			c.Set("professional_id", claims.ProfessionalID)
		}
		c.Next()
	}
}

// CurrentActor reads the caller set by JWTAuth.
func CurrentActor(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID:         c.GetInt64("user_id"),
		Role:           domain.UserRole(c.GetString("role")),
		ProfessionalID: c.GetInt64("professional_id"),
	}
}
