package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appeal-routing-api/internal/models"
	"github.com/noah-isme/appeal-routing-api/internal/routing"
	appErrors "github.com/noah-isme/appeal-routing-api/pkg/errors"
	"github.com/noah-isme/appeal-routing-api/pkg/response"
)

// RequireRoles admits callers whose normalised role is in roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[routing.NormalizeRole(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[routing.NormalizeRole(claims.Role)]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role not permitted for this operation"))
			return
		}
		c.Next()
	}
}

// RequireApprover admits any role that sits in the approval hierarchy.
func RequireApprover() gin.HandlerFunc {
	return RequireRoles(routing.ApproverRoles()...)
}

// RequireStaff admits every authenticated role except submitters. Staff
// outside the hierarchy are subject to the unknown-role visibility policy.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if routing.IsSubmitter(claims.Role) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role not permitted for this operation"))
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	typed, ok := value.(*models.JWTClaims)
	return typed, ok && typed != nil
}
