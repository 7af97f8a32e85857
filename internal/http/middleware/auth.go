package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/medusa-scheduler/internal/model"
)

const (
	currentAdminKey  = "currentAdmin"
	currentPlayerKey = "currentPlayer"
)

// GetCurrentAdmin retrieves *model.Admin from Gin context (after AdminJWTMiddleware has run).
func GetCurrentAdmin(c *gin.Context) (*model.Admin, bool) {
	v, exists := c.Get(currentAdminKey)
	if !exists {
		return nil, false
	}
	admin, ok := v.(*model.Admin)
	return admin, ok
}

// GetCurrentPlayer retrieves *model.PlayerContext from Gin context (after PlayerJWTMiddleware has run).
func GetCurrentPlayer(c *gin.Context) (*model.PlayerContext, bool) {
	v, exists := c.Get(currentPlayerKey)
	if !exists {
		return nil, false
	}
	player, ok := v.(*model.PlayerContext)
	return player, ok
}
