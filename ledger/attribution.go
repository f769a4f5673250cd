package ledger

import (
	"carwash-backend/models"

	"go.uber.org/zap"
)

// Attribution reports which customer a new ticket was credited to.
type Attribution struct {
	CustomerID string `json:"customerId"`
	Created    bool   `json:"created"`
	// Merged is set when the customer was found by only one of name and
	// plate. Such merges should be reviewed by hand.
	Merged bool `json:"merged"`
}

// attributeLocked credits rec's visit and price to exactly one customer and
// stamps the customer id on rec. An explicit id that exists wins; otherwise
// the first customer whose name or plate matches is used, and a new customer
// is appended when nothing matches, so older customers win later OR matches.
func (s *Store) attributeLocked(rec *models.ServiceRecord, customerID string) Attribution {
	if i := s.customerIndexLocked(customerID); i >= 0 {
		s.creditLocked(i, rec)
		return Attribution{CustomerID: rec.CustomerID}
	}
	if customerID != "" {
		s.log.Warn("unknown customer id at intake, matching by name or plate",
			zap.String("customer_id", customerID),
			zap.String("ticket", rec.ID))
	}

	for i := range s.customers {
		c := &s.customers[i]
		nameMatch := c.Name == rec.CustomerName
		plateMatch := c.Plate == rec.Plate
		if !nameMatch && !plateMatch {
			continue
		}

		s.creditLocked(i, rec)
		attr := Attribution{CustomerID: c.ID}
		if nameMatch != plateMatch {
			attr.Merged = true
			s.log.Warn("visit merged into customer on a partial match",
				zap.String("ticket", rec.ID),
				zap.String("customer_id", c.ID),
				zap.String("customer_name", c.Name),
				zap.String("customer_plate", c.Plate),
				zap.String("ticket_name", rec.CustomerName),
				zap.String("ticket_plate", rec.Plate),
				zap.Bool("name_match", nameMatch),
				zap.Bool("plate_match", plateMatch))
		}
		return attr
	}

	c := models.Customer{
		ID:          newCustomerID(),
		Name:        rec.CustomerName,
		Phone:       rec.Phone,
		Plate:       rec.Plate,
		TotalVisits: 1,
		TotalSpent:  rec.Price,
	}
	s.customers = append(s.customers, c)
	rec.CustomerID = c.ID
	return Attribution{CustomerID: c.ID, Created: true}
}

func (s *Store) creditLocked(i int, rec *models.ServiceRecord) {
	s.customers[i].TotalVisits++
	s.customers[i].TotalSpent += rec.Price
	rec.CustomerID = s.customers[i].ID
}

// refreshDebtLocked recomputes a customer's debt flag from the tickets that
// carry its id. pending is a ticket not yet in s.services (or its newer
// version), and takes precedence over a stored ticket with the same id.
// It reports whether the flag changed.
func (s *Store) refreshDebtLocked(customerID string, pending models.ServiceRecord) bool {
	i := s.customerIndexLocked(customerID)
	if i < 0 {
		return false
	}

	owes := pending.CustomerID == customerID && pending.Status == models.StatusDebt
	for _, rec := range s.services {
		if owes {
			break
		}
		if rec.ID == pending.ID {
			continue
		}
		owes = rec.CustomerID == customerID && rec.Status == models.StatusDebt
	}

	if s.customers[i].HasDebt == owes {
		return false
	}
	s.customers[i].HasDebt = owes
	return true
}
