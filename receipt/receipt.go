// Package receipt prices a single ticket for the sales receipt. Prices on the
// board are tax inclusive; the receipt splits them into a taxable base and the
// sales tax.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"carwash-backend/models"

	"github.com/shopspring/decimal"
)

// TaxRate is the sales tax included in every price.
var TaxRate = decimal.RequireFromString("0.18")

var taxDivisor = decimal.NewFromInt(1).Add(TaxRate)

// Breakdown keeps full precision; Base plus Tax always equals Gross.
type Breakdown struct {
	Gross decimal.Decimal `json:"grossTotal"`
	Base  decimal.Decimal `json:"baseAmount"`
	Tax   decimal.Decimal `json:"taxAmount"`
}

// Calculate prices one ticket.
func Calculate(rec models.ServiceRecord) Breakdown {
	return Split(rec.Price)
}

// Split separates a tax inclusive price into base and tax.
func Split(price float64) Breakdown {
	gross := decimal.NewFromFloat(price)
	base := gross.Div(taxDivisor)
	return Breakdown{
		Gross: gross,
		Base:  base,
		Tax:   gross.Sub(base),
	}
}

// Shop is the header printed on receipts.
type Shop struct {
	Name     string
	TaxID    string
	Address  string
	Phone    string
	Currency string
}

func (s Shop) money(d decimal.Decimal) string {
	return s.Currency + " " + d.StringFixed(2)
}

// Text renders the receipt sent over chat. Amounts are rounded to cents here
// and nowhere else.
func Text(rec models.ServiceRecord, b Breakdown, shop Shop, at time.Time) string {
	sep := strings.Repeat("-", 28)

	var sb strings.Builder
	sb.WriteString("*ELECTRONIC SALES RECEIPT*\n")
	fmt.Fprintf(&sb, "*%s*\n", strings.ToUpper(shop.Name))
	sb.WriteString(sep + "\n")
	fmt.Fprintf(&sb, "Ticket: #%s\n", rec.ID)
	fmt.Fprintf(&sb, "Date: %s\n", at.Format("02/01/2006"))
	fmt.Fprintf(&sb, "Customer: %s\n", rec.CustomerName)
	fmt.Fprintf(&sb, "Plate: %s\n", rec.Plate)
	sb.WriteString(sep + "\n")
	sb.WriteString("DESCRIPTION          AMOUNT\n")
	fmt.Fprintf(&sb, "%s    %s\n", rec.ServiceType.DisplayName(), shop.money(b.Gross))
	sb.WriteString(sep + "\n")
	fmt.Fprintf(&sb, "Taxable: %s\n", shop.money(b.Base))
	fmt.Fprintf(&sb, "Tax (%s%%): %s\n", TaxRate.Shift(2).String(), shop.money(b.Tax))
	fmt.Fprintf(&sb, "*TOTAL: %s*\n", shop.money(b.Gross))
	sb.WriteString(sep + "\n")
	sb.WriteString("Thanks for your visit!\n")
	return sb.String()
}
