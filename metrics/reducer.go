// Package metrics derives the dashboard figures from the service board. Nothing
// here is stored; every figure is recomputed from the tickets passed in.
package metrics

import "carwash-backend/models"

// AvgServiceTime is shown on the dashboard until tickets carry real timestamps.
const AvgServiceTime = "45 min"

type Snapshot struct {
	CarsInProcess  int     `json:"carsInProcess"`
	CarsReady      int     `json:"carsReady"`
	RevenueToday   float64 `json:"revenueToday"`
	DebtCount      int     `json:"debtCount"`
	AvgServiceTime string  `json:"avgServiceTime"`
}

// Compute reduces the board to its KPIs. Waiting cars count as in process, and
// revenue includes READY tickets as well as delivered ones. There is no date
// filter: the board is treated as a single working day.
func Compute(services []models.ServiceRecord) Snapshot {
	snap := Snapshot{AvgServiceTime: AvgServiceTime}
	for _, s := range services {
		switch s.Status {
		case models.StatusWaiting, models.StatusInProcess:
			snap.CarsInProcess++
		case models.StatusReady:
			snap.CarsReady++
			snap.RevenueToday += s.Price
		case models.StatusDelivered:
			snap.RevenueToday += s.Price
		case models.StatusDebt:
			snap.DebtCount++
		}
	}
	return snap
}

type TypeCount struct {
	ServiceType models.ServiceType `json:"serviceType"`
	Name        string             `json:"name"`
	Count       int                `json:"count"`
}

// ServiceTypeBreakdown counts tickets per package in menu order. Packages with
// no tickets are left out.
func ServiceTypeBreakdown(services []models.ServiceRecord) []TypeCount {
	counts := make(map[models.ServiceType]int)
	for _, s := range services {
		counts[s.ServiceType]++
	}

	out := []TypeCount{}
	for _, t := range models.ServiceTypes() {
		if n := counts[t]; n > 0 {
			out = append(out, TypeCount{ServiceType: t, Name: t.DisplayName(), Count: n})
			delete(counts, t)
		}
	}
	// legacy records with a type that is no longer on the menu
	for t, n := range counts {
		out = append(out, TypeCount{ServiceType: t, Name: string(t), Count: n})
	}
	return out
}
