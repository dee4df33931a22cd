package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"angido/pkg/middleware"
	"angido/pkg/utils"
)

const defaultPageSize = 20

// currentUser returns the authenticated account id and role. It responds 401
// and returns ok=false when the request carries no identity.
func currentUser(c *gin.Context) (userID, role string, ok bool) {
	userID = c.GetString(middleware.CtxUserID)
	if userID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return "", "", false
	}
	return userID, c.GetString(middleware.CtxRole), true
}

func tokenInfo(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(middleware.CtxTokenExp)
	expiresAt, _ := exp.(time.Time)
	return c.GetString(middleware.CtxTokenID), expiresAt
}

func parsePage(c *gin.Context) (int, int, bool) {
	page, pageSize, err := utils.ParsePage(c, defaultPageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return 0, 0, false
	}
	return page, pageSize, true
}
