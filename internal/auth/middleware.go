package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/lpr/internal/models"
)

const identityKey = "identity"

// Identity is the resolved caller: user id, username and role.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     models.Role
}

// RequireAuth validates the bearer token and stores the caller identity
// in the request context.
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing bearer token",
			})
			return
		}

		claims, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		role := claims.Role
		if role == "" {
			role = models.RoleMember
		}
		c.Set(identityKey, Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     role,
		})
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok || ident.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin role required",
			})
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}
