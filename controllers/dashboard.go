package controllers

import (
	"net/http"

	"carwash-backend/ledger"
	"carwash-backend/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardController struct {
	Store *ledger.Store
	Log   *zap.Logger
}

type DashboardOverview struct {
	Metrics      metrics.Snapshot     `json:"metrics"`
	Traffic      []metrics.HourBucket `json:"traffic"`
	ServiceTypes []metrics.TypeCount  `json:"serviceTypes"`
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	services := dc.Store.Services()
	c.JSON(http.StatusOK, DashboardOverview{
		Metrics:      metrics.Compute(services),
		Traffic:      metrics.Traffic(services, dc.Log),
		ServiceTypes: metrics.ServiceTypeBreakdown(services),
	})
}
