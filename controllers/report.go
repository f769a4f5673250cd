// controllers/report.go
package controllers

import (
	"net/http"

	"carwash-backend/ledger"
	"carwash-backend/metrics"
	"carwash-backend/services"

	"github.com/gin-gonic/gin"
)

// ReportController handles generated reports
type ReportController struct {
	Store     *ledger.Store
	Assistant services.Assistant
	Scheduler *services.ReportScheduler
}

// GenerateDailyReport drafts the daily report. With ?send=true it is also
// delivered to the owner.
func (rc *ReportController) GenerateDailyReport(c *gin.Context) {
	if c.Query("send") == "true" && rc.Scheduler != nil {
		c.JSON(http.StatusOK, gin.H{"report": rc.Scheduler.SendDailyReport(c.Request.Context())})
		return
	}

	svcs := rc.Store.Services()
	report := rc.Assistant.DailyReport(c.Request.Context(), metrics.Compute(svcs), svcs)
	c.JSON(http.StatusOK, gin.H{"report": report})
}
