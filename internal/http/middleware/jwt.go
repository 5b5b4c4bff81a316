package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nirgunrohan/LMS/internal/models"
	"github.com/nirgunrohan/LMS/internal/token"
	"github.com/nirgunrohan/LMS/internal/utils"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// JWTAuth admits requests carrying a valid Bearer token of the access
// kind. Refresh and reset tokens are rejected here no matter how fresh
// they are.
func JWTAuth(verifier *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.RespondError(c, utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidToken, "Missing token", nil))
			c.Abort()
			return
		}

		claims, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "), token.KindAccess)
		if err != nil {
			utils.RespondError(c, utils.NewAppError(http.StatusUnauthorized, utils.CodeInvalidToken, "Invalid or expired token", nil))
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin runs after JWTAuth and rejects the non-admin role
// variant. The role enum is closed, so anything else is a bug upstream
// and gets rejected too.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != models.RoleAdmin {
			utils.RespondError(c, utils.NewAppError(http.StatusForbidden, utils.CodeAdminRequired, "Admin access required", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

func CallerID(c *gin.Context) string {
	id, _ := c.Get(CtxUserID)
	s, _ := id.(string)
	return s
}

func CallerRole(c *gin.Context) models.Role {
	v, _ := c.Get(CtxRole)
	role, _ := v.(models.Role)
	return role
}
