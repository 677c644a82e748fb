package middleware

import (
	"net/http"

	"servicebook/internal/domain"
	"servicebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the token role is one of roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[domain.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		s, _ := role.(string)
		if !allowed[domain.UserRole(s)] {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// ProfessionalOnly also requires the professional_id claim, which every
// professional route scopes its queries by.
func ProfessionalOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if domain.UserRole(c.GetString("role")) != domain.RoleProfessional {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		if c.GetInt64("professional_id") <= 0 {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Professional profile required")
			return
		}
		c.Next()
	}
}
