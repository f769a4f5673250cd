// controllers/service.go
package controllers

import (
	"net/http"

	"carwash-backend/ledger"
	"carwash-backend/models"
	"carwash-backend/services"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceController handles the ticket board.
type ServiceController struct {
	Store         *ledger.Store
	Notifier      services.Notifier
	NotifyOnReady bool
	ShopName      string
	Log           *zap.Logger
}

// CreateServiceInput defines the expected JSON structure for vehicle intake
type CreateServiceInput struct {
	Plate        string               `json:"plate" binding:"required"`
	CustomerName string               `json:"customerName" binding:"required"`
	Phone        string               `json:"phone"`
	ServiceType  models.ServiceType   `json:"serviceType"`
	Price        *float64             `json:"price" binding:"omitempty,min=0"`
	Status       models.ServiceStatus `json:"status"`
	Notes        string               `json:"notes"`
	CustomerID   string               `json:"customerId"`
}

// UpdateServiceInput defines the expected JSON structure for editing a ticket
type UpdateServiceInput struct {
	Plate        *string               `json:"plate"`
	CustomerName *string               `json:"customerName"`
	Phone        *string               `json:"phone"`
	ServiceType  *models.ServiceType   `json:"serviceType"`
	Price        *float64              `json:"price" binding:"omitempty,min=0"`
	Status       *models.ServiceStatus `json:"status"`
	Notes        *string               `json:"notes"`
}

type SetStatusInput struct {
	Status models.ServiceStatus `json:"status" binding:"required"`
}

type CreateServiceResponse struct {
	Service     models.ServiceRecord `json:"service"`
	Attribution ledger.Attribution   `json:"attribution"`
}

// GetServices lists tickets, most recent first, optionally filtered by ?q=
func (sc *ServiceController) GetServices(c *gin.Context) {
	c.JSON(http.StatusOK, sc.Store.SearchServices(c.Query("q")))
}

// CreateService records a vehicle at the counter
func (sc *ServiceController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	rec, attr, err := sc.Store.AddService(c.Request.Context(), ledger.ServiceInput{
		Plate:        input.Plate,
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		ServiceType:  input.ServiceType,
		Price:        input.Price,
		Status:       input.Status,
		Notes:        input.Notes,
		CustomerID:   input.CustomerID,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateServiceResponse{Service: rec, Attribution: attr})
}

func (sc *ServiceController) GetService(c *gin.Context) {
	rec, ok := sc.Store.Service(c.Param("id"))
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateService edits a ticket in place
func (sc *ServiceController) UpdateService(c *gin.Context) {
	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Phone != nil && *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	before, _ := sc.Store.Service(c.Param("id"))
	rec, err := sc.Store.UpdateService(c.Request.Context(), c.Param("id"), ledger.ServicePatch{
		Plate:        input.Plate,
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		ServiceType:  input.ServiceType,
		Price:        input.Price,
		Status:       input.Status,
		Notes:        input.Notes,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	sc.notifyIfReady(c, before.Status, rec)
	c.JSON(http.StatusOK, rec)
}

// DeleteService removes a ticket. A missing ticket is not an error.
func (sc *ServiceController) DeleteService(c *gin.Context) {
	removed := sc.Store.RemoveService(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// Transition returns the handler for one of the guided actions.
func (sc *ServiceController) Transition(action ledger.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := sc.Store.Apply(c.Request.Context(), c.Param("id"), action)
		if err != nil {
			respondLedgerError(c, err)
			return
		}
		if action == ledger.ActionFinish {
			sc.notifyIfReady(c, models.StatusInProcess, rec)
		}
		c.JSON(http.StatusOK, rec)
	}
}

// SetStatus overwrites the status directly
func (sc *ServiceController) SetStatus(c *gin.Context) {
	var input SetStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	before, _ := sc.Store.Service(c.Param("id"))
	rec, err := sc.Store.SetStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	sc.notifyIfReady(c, before.Status, rec)
	c.JSON(http.StatusOK, rec)
}

// notifyIfReady tells the customer their car can be picked up. Delivery
// problems are logged and never fail the request.
func (sc *ServiceController) notifyIfReady(c *gin.Context, from models.ServiceStatus, rec models.ServiceRecord) {
	if !sc.NotifyOnReady || sc.Notifier == nil {
		return
	}
	if from == models.StatusReady || rec.Status != models.StatusReady || rec.Phone == "" {
		return
	}
	if err := sc.Notifier.Send(c.Request.Context(), rec.Phone, services.ReadyMessage(rec, sc.ShopName)); err != nil {
		sc.Log.Warn("ready notification not sent", zap.String("ticket", rec.ID), zap.Error(err))
	}
}
