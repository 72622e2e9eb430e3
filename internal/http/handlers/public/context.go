package public

import (
	handlershared "github.com/harvestmart/harvestmart-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

func getUserRole(c *gin.Context) string {
	value, ok := c.Get("role")
	if !ok {
		return ""
	}
	if role, ok := value.(string); ok {
		return role
	}
	return ""
}
