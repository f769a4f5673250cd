package receipt_test

import (
	"bytes"
	"testing"
	"time"

	"carwash-backend/models"
	"carwash-backend/receipt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shop = receipt.Shop{
	Name:     "Xpress Car Wash",
	TaxID:    "20601234567",
	Address:  "Av. Principal 123",
	Phone:    "987 654 321",
	Currency: "S/",
}

func TestCalculate(t *testing.T) {
	b := receipt.Calculate(models.ServiceRecord{ID: "TKT-1001", Price: 45})

	assert.Equal(t, "45.00", b.Gross.StringFixed(2))
	assert.Equal(t, "38.14", b.Base.StringFixed(2))
	assert.Equal(t, "6.86", b.Tax.StringFixed(2))
	assert.True(t, b.Base.Add(b.Tax).Equal(b.Gross))
}

func TestCalculate_SumsExactly(t *testing.T) {
	for _, p := range []float64{0, 0.01, 25, 33.33, 119.99, 1e6} {
		b := receipt.Split(p)
		assert.True(t, b.Base.Add(b.Tax).Equal(decimal.NewFromFloat(p)), "price %v", p)
		assert.False(t, b.Tax.IsNegative())
	}
}

func TestText(t *testing.T) {
	rec := models.ServiceRecord{
		ID:           "TKT-1001",
		Plate:        "ABC-123",
		CustomerName: "Carlos Mendoza",
		ServiceType:  models.ServicePremium,
		Price:        45,
	}
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	out := receipt.Text(rec, receipt.Calculate(rec), shop, at)

	assert.Contains(t, out, "*XPRESS CAR WASH*")
	assert.Contains(t, out, "Ticket: #TKT-1001")
	assert.Contains(t, out, "Date: 14/03/2026")
	assert.Contains(t, out, "Premium Wash    S/ 45.00")
	assert.Contains(t, out, "Taxable: S/ 38.14")
	assert.Contains(t, out, "Tax (18%): S/ 6.86")
	assert.Contains(t, out, "*TOTAL: S/ 45.00*")
}

func TestPDF(t *testing.T) {
	rec := models.SampleServices()[0]
	out, err := receipt.PDF(rec, shop, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
