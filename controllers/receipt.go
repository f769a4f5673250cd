// controllers/receipt.go
package controllers

import (
	"net/http"
	"time"

	"carwash-backend/ledger"
	"carwash-backend/models"
	"carwash-backend/receipt"
	"carwash-backend/services"
	"carwash-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptController renders sales receipts for tickets.
type ReceiptController struct {
	Store         *ledger.Store
	Shop          receipt.Shop
	CountryPrefix string
	Now           func() time.Time
	Log           *zap.Logger
}

// ReceiptResponse carries the amounts as decimal strings at full precision.
// Clients round for display.
type ReceiptResponse struct {
	Service    models.ServiceRecord `json:"service"`
	GrossTotal decimal.Decimal      `json:"grossTotal"`
	BaseAmount decimal.Decimal      `json:"baseAmount"`
	TaxAmount  decimal.Decimal      `json:"taxAmount"`
	TaxRate    decimal.Decimal      `json:"taxRate"`
	Text       string               `json:"text"`
}

func (rc *ReceiptController) now() time.Time {
	if rc.Now != nil {
		return rc.Now()
	}
	return time.Now()
}

func (rc *ReceiptController) service(c *gin.Context) (models.ServiceRecord, bool) {
	rec, ok := rc.Store.Service(c.Param("id"))
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
	}
	return rec, ok
}

func (rc *ReceiptController) GetReceipt(c *gin.Context) {
	rec, ok := rc.service(c)
	if !ok {
		return
	}
	b := receipt.Calculate(rec)
	c.JSON(http.StatusOK, ReceiptResponse{
		Service:    rec,
		GrossTotal: b.Gross,
		BaseAmount: b.Base,
		TaxAmount:  b.Tax,
		TaxRate:    receipt.TaxRate,
		Text:       receipt.Text(rec, b, rc.Shop, rc.now()),
	})
}

func (rc *ReceiptController) GetReceiptPDF(c *gin.Context) {
	rec, ok := rc.service(c)
	if !ok {
		return
	}
	doc, err := receipt.PDF(rec, rc.Shop, rc.now())
	if err != nil {
		rc.Log.Error("receipt PDF failed", zap.String("ticket", rec.ID), zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, receipt.ErrPDF.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="Receipt-`+rec.ID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

// GetWhatsAppLink returns a wa.me link carrying the receipt text.
func (rc *ReceiptController) GetWhatsAppLink(c *gin.Context) {
	rec, ok := rc.service(c)
	if !ok {
		return
	}
	if rec.Phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Service has no phone number")
		return
	}
	text := receipt.Text(rec, receipt.Calculate(rec), rc.Shop, rc.now())
	c.JSON(http.StatusOK, gin.H{
		"url":  services.WhatsAppLink(rec.Phone, text, rc.CountryPrefix),
		"text": text,
	})
}
