// controllers/customer.go
package controllers

import (
	"net/http"

	"carwash-backend/ledger"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	Store *ledger.Store
}

// CreateCustomerInput defines the expected JSON structure for adding a customer by hand
type CreateCustomerInput struct {
	Name        string  `json:"name" binding:"required"`
	Phone       string  `json:"phone"`
	Plate       string  `json:"plate"`
	TotalVisits int     `json:"totalVisits" binding:"min=0"`
	TotalSpent  float64 `json:"totalSpent" binding:"min=0"`
	HasDebt     bool    `json:"hasDebt"`
}

func (cc *CustomerController) GetCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, cc.Store.SearchCustomers(c.Query("q")))
}

func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	customer, err := cc.Store.AddCustomer(c.Request.Context(), ledger.CustomerInput{
		Name:        input.Name,
		Phone:       input.Phone,
		Plate:       input.Plate,
		TotalVisits: input.TotalVisits,
		TotalSpent:  input.TotalSpent,
		HasDebt:     input.HasDebt,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (cc *CustomerController) GetCustomer(c *gin.Context) {
	customer, ok := cc.Store.Customer(c.Param("id"))
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes the customer record only; its tickets stay.
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	removed := cc.Store.RemoveCustomer(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
