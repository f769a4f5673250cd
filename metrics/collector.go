package metrics

import (
	"carwash-backend/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Source returns the current board.
type Source func() []models.ServiceRecord

// Collector exposes the KPI snapshot as gauges, recomputed on every scrape.
type Collector struct {
	source Source

	inProcess *prometheus.Desc
	ready     *prometheus.Desc
	revenue   *prometheus.Desc
	debt      *prometheus.Desc
	byType    *prometheus.Desc
}

func NewCollector(source Source, constLabels prometheus.Labels) *Collector {
	return &Collector{
		source:    source,
		inProcess: prometheus.NewDesc("carwash_cars_in_process", "Vehicles waiting or being washed.", nil, constLabels),
		ready:     prometheus.NewDesc("carwash_cars_ready", "Vehicles ready for pickup.", nil, constLabels),
		revenue:   prometheus.NewDesc("carwash_revenue_today", "Sum of prices of ready and delivered tickets.", nil, constLabels),
		debt:      prometheus.NewDesc("carwash_debt_count", "Tickets marked as owing.", nil, constLabels),
		byType:    prometheus.NewDesc("carwash_services_by_type", "Tickets on the board per service type.", []string{"service_type"}, constLabels),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inProcess
	ch <- c.ready
	ch <- c.revenue
	ch <- c.debt
	ch <- c.byType
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	services := c.source()
	snap := Compute(services)

	ch <- prometheus.MustNewConstMetric(c.inProcess, prometheus.GaugeValue, float64(snap.CarsInProcess))
	ch <- prometheus.MustNewConstMetric(c.ready, prometheus.GaugeValue, float64(snap.CarsReady))
	ch <- prometheus.MustNewConstMetric(c.revenue, prometheus.GaugeValue, snap.RevenueToday)
	ch <- prometheus.MustNewConstMetric(c.debt, prometheus.GaugeValue, float64(snap.DebtCount))
	for _, tc := range ServiceTypeBreakdown(services) {
		ch <- prometheus.MustNewConstMetric(c.byType, prometheus.GaugeValue, float64(tc.Count), string(tc.ServiceType))
	}
}
