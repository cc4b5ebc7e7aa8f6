package mapper

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	dec "github.com/rezonia/ehf-generator/internal/decimal"
	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

var centTolerance = decimal.RequireFromString("0.01")

// lineCalc is a line record with its derived full-precision amounts
type lineCalc struct {
	id        string
	rec       model.Line
	unitCode  string
	name      string
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	rate      decimal.Decimal
	net       decimal.Decimal
	vat       decimal.Decimal
}

// rateKey groups equal rates written with different scales
func (l lineCalc) rateKey() string {
	return l.rate.String()
}

func (s *mapping) calculateLines() ([]lineCalc, error) {
	lines := make([]lineCalc, 0, len(s.in.Lines))

	for i, rec := range s.in.Lines {
		field := func(name string) string { return fmt.Sprintf("lines[%d].%s", i, name) }

		qty := *rec.Quantity
		if !dec.IsPositive(qty) {
			return nil, model.NewMalformedInputError(field("quantity"), qty.String(), "positive", "quantity must be greater than zero")
		}
		price := *rec.UnitPrice
		if !dec.IsNonNegative(price) {
			return nil, model.NewMalformedInputError(field("unit_price"), price.String(), "non-negative", "unit price must not be negative")
		}

		rate := dec.Zero
		if rec.VATRate != nil {
			rate = *rec.VATRate
		}
		if !dec.IsNonNegative(rate) {
			return nil, model.NewMalformedInputError(field("vat_rate"), rate.String(), "non-negative", "VAT rate must not be negative")
		}

		lc := lineCalc{
			id:        lineID(rec, i),
			rec:       rec,
			unitCode:  rec.UnitCode,
			name:      rec.DisplayName(),
			quantity:  qty,
			unitPrice: price,
			rate:      rate,
			net:       price.Mul(qty),
		}

		expectedVAT := dec.Percentage(lc.net, rate)
		if rec.VATAmount != nil {
			vat := *rec.VATAmount
			if !dec.IsCentScale(vat) {
				return nil, model.NewMalformedInputError(field("vat_amount"), vat.String(), "cent-scale", "VAT amount must have at most two decimals")
			}
			if !dec.WithinTolerance(vat, expectedVAT, centTolerance) {
				return nil, model.NewMalformedInputError(field("vat_amount"), vat.String(), "line-vat",
					fmt.Sprintf("VAT amount does not match %s%% of %s", rate.String(), lc.net.String()))
			}
			lc.vat = vat
		} else {
			lc.vat = dec.Round2(expectedVAT)
			s.fallback(RuleLineDefaults, field("vat_amount"), dec.Format2(lc.vat))
		}

		if lc.unitCode == "" {
			lc.unitCode = s.rules.DefaultUnitCode
			s.fallback(RuleLineDefaults, field("unit_code"), lc.unitCode)
		}

		if lc.name == "" {
			return nil, model.NewMissingFieldError(field("item_name"))
		}
		if rec.ItemName == "" {
			s.fallback(RuleLineDefaults, field("item_name"), lc.name)
		}

		lines = append(lines, lc)
	}

	return lines, nil
}

func lineID(rec model.Line, idx int) string {
	if rec.Number > 0 {
		return strconv.Itoa(rec.Number)
	}
	return strconv.Itoa(idx + 1)
}

func (s *mapping) invoiceLines(lines []lineCalc) []ubl.InvoiceLine {
	out := make([]ubl.InvoiceLine, 0, len(lines))

	for _, lc := range lines {
		line := ubl.InvoiceLine{
			ID:                  ubl.NewIdentifier(lc.id),
			Note:                ubl.NewText(lc.rec.Note),
			InvoicedQuantity:    s.quantity(lc.quantity, lc.unitCode),
			LineExtensionAmount: s.amount(lc.net),
			AccountingCost:      ubl.NewText(lc.rec.AccountingCost),
			Item: &ubl.Item{
				Description:           ubl.NewText(lc.rec.Description),
				Name:                  ubl.NewText(lc.name),
				ClassifiedTaxCategory: taxCategory(lc.rate),
			},
			Price: &ubl.Price{
				PriceAmount: s.amount(lc.unitPrice),
			},
		}

		if lc.rec.OrderLineID != "" {
			line.OrderLineReference = &ubl.OrderLineReference{LineID: ubl.NewIdentifier(lc.rec.OrderLineID)}
		}
		if lc.rec.ItemID != "" {
			line.Item.SellersItemIdentification = &ubl.ItemIdentification{ID: ubl.NewIdentifier(lc.rec.ItemID)}
		}

		out = append(out, line)
	}

	return out
}
