package controllers

import (
	"errors"
	"net/http"

	"carwash-backend/ledger"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondLedgerError maps store errors to HTTP statuses.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrServiceNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
	case errors.Is(err, ledger.ErrCustomerNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
	case errors.Is(err, ledger.ErrConversationNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Conversation not found")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
