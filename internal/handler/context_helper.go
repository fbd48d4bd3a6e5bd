package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/appeal-routing-api/internal/middleware"
	"github.com/noah-isme/appeal-routing-api/internal/models"
	"github.com/noah-isme/appeal-routing-api/internal/service"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorFromClaims(claims *models.JWTClaims) service.Actor {
	return service.Actor{UserID: claims.UserID, Role: claims.Role, Name: claims.DisplayName()}
}
