package receipt

import (
	"errors"
	"fmt"
	"time"

	"carwash-backend/models"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ErrPDF is the only error PDF returns; its message is shown to the user as is.
var ErrPDF = errors.New("could not generate receipt PDF")

// A6, in millimetres.
const (
	pageWidth  = 105.0
	pageHeight = 148.0
)

// PDF renders a single-ticket receipt on an A6 page.
func PDF(rec models.ServiceRecord, shop Shop, at time.Time) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrPDF, r)
		}
	}()

	b := Calculate(rec)

	cfg := config.NewBuilder().
		WithDimensions(pageWidth, pageHeight).
		WithLeftMargin(6).
		WithRightMargin(6).
		WithTopMargin(6).
		Build()

	m := maroto.New(cfg)

	centered := props.Text{Size: 7, Align: align.Center}
	m.AddRow(8,
		text.NewCol(12, shop.Name, props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Center}),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New("Tax ID: "+shop.TaxID, centered),
			text.New(shop.Address, props.Text{Size: 7, Align: align.Center, Top: 3.5}),
			text.New("Phone: "+shop.Phone, props.Text{Size: 7, Align: align.Center, Top: 7}),
		),
	)

	m.AddRow(10,
		col.New(12).Add(
			text.New("SALES RECEIPT", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center}),
			text.New("SERIES B001 - "+rec.ID, props.Text{Size: 7, Align: align.Center, Top: 5}),
		),
	)

	label := props.Text{Size: 7}
	value := props.Text{Size: 7, Align: align.Right}
	for _, kv := range [][2]string{
		{"Date:", at.Format("02/01/2006 15:04")},
		{"Customer:", rec.CustomerName},
		{"Plate:", rec.Plate},
	} {
		m.AddRow(4, text.NewCol(4, kv[0], label), text.NewCol(8, kv[1], value))
	}

	m.AddRow(6,
		text.NewCol(2, "Qty", props.Text{Size: 7, Style: fontstyle.Bold, Top: 2}),
		text.NewCol(6, "Description", props.Text{Size: 7, Style: fontstyle.Bold, Top: 2}),
		text.NewCol(4, "Total", props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right, Top: 2}),
	)
	m.AddRow(5,
		text.NewCol(2, "1", label),
		text.NewCol(6, rec.ServiceType.DisplayName(), label),
		text.NewCol(4, b.Gross.StringFixed(2), value),
	)

	m.AddRow(7,
		text.NewCol(7, "TOTAL DUE", props.Text{Size: 9, Style: fontstyle.Bold, Top: 2}),
		text.NewCol(5, shop.money(b.Gross), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: 2}),
	)
	m.AddRow(4, text.NewCol(7, "Taxable", label), text.NewCol(5, shop.money(b.Base), value))
	m.AddRow(4, text.NewCol(7, "Tax ("+TaxRate.Shift(2).String()+"%)", label), text.NewCol(5, shop.money(b.Tax), value))

	m.AddRow(10,
		text.NewCol(12, "Thank you for choosing us!", props.Text{Size: 7, Align: align.Center, Top: 4}),
	)

	doc, genErr := m.Generate()
	if genErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDF, genErr)
	}
	return doc.GetBytes(), nil
}
