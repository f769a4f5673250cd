package models

// Customer is the aggregate kept in sync with service intake. Name, phone and
// plate are copied from the visit that created the record.
type Customer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Plate       string  `json:"plate"`
	TotalVisits int     `json:"totalVisits"`
	TotalSpent  float64 `json:"totalSpent"`
	HasDebt     bool    `json:"hasDebt"`
}
