package controllers

import (
	"net/http"

	"carwash-backend/ledger"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Store *ledger.Store
	Log   *zap.Logger
}

// Reset wipes every collection and reloads the sample data.
func (ac *AdminController) Reset(c *gin.Context) {
	if err := ac.Store.Reset(c.Request.Context()); err != nil {
		ac.Log.Error("reset failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reset data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
