package mapper

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/ehf-generator/internal/decimal"
	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

// taxGroup is the per-rate subtotal of the tax breakdown
type taxGroup struct {
	rate    decimal.Decimal
	taxable decimal.Decimal
	tax     decimal.Decimal
}

// totals are the full-precision document amounts
type totals struct {
	lineExtension decimal.Decimal
	taxAmount     decimal.Decimal
	taxInclusive  decimal.Decimal
	prepaid       *decimal.Decimal
	payable       decimal.Decimal
	groups        []taxGroup
}

// groupByRate sums lines per VAT rate, in order of first appearance
func groupByRate(lines []lineCalc) []taxGroup {
	distinct := lo.UniqBy(lines, func(l lineCalc) string { return l.rateKey() })

	return lo.Map(distinct, func(first lineCalc, _ int) taxGroup {
		members := lo.Filter(lines, func(l lineCalc, _ int) bool { return l.rateKey() == first.rateKey() })
		return taxGroup{
			rate:    first.rate,
			taxable: dec.Sum(lo.Map(members, func(l lineCalc, _ int) decimal.Decimal { return l.net })),
			tax:     dec.Sum(lo.Map(members, func(l lineCalc, _ int) decimal.Decimal { return l.vat })),
		}
	})
}

// calculateTotals derives the document totals and cross-checks them
// against the totals stored on the invoice record
func (s *mapping) calculateTotals(lines []lineCalc) (totals, error) {
	rec := s.in.Invoice

	t := totals{
		lineExtension: dec.Sum(lo.Map(lines, func(l lineCalc, _ int) decimal.Decimal { return l.net })),
		taxAmount:     dec.Sum(lo.Map(lines, func(l lineCalc, _ int) decimal.Decimal { return l.vat })),
		groups:        groupByRate(lines),
	}
	t.taxInclusive = t.lineExtension.Add(t.taxAmount)
	t.payable = t.taxInclusive

	if rec.PrepaidAmount != nil {
		prepaid := *rec.PrepaidAmount
		if !dec.IsNonNegative(prepaid) {
			return totals{}, model.NewMalformedInputError("invoice.prepaid_amount", prepaid.String(), "non-negative", "prepaid amount must not be negative")
		}
		t.prepaid = &prepaid
		t.payable = t.taxInclusive.Sub(prepaid)
	}

	if !dec.Round2(*rec.VATAmount).Equal(dec.Round2(t.taxAmount)) {
		return totals{}, model.NewMalformedInputError("invoice.vat_amount", rec.VATAmount.String(), "totals",
			"VAT amount does not match the sum of line VAT "+dec.Format2(t.taxAmount))
	}

	tolerance := centTolerance.Mul(decimal.NewFromInt(int64(len(lines))))
	if !dec.WithinTolerance(dec.Round2(*rec.Subtotal), dec.Round2(t.lineExtension), tolerance) {
		return totals{}, model.NewMalformedInputError("invoice.subtotal", rec.Subtotal.String(), "totals",
			"subtotal does not match the sum of line amounts "+dec.Format2(t.lineExtension))
	}
	if !dec.WithinTolerance(dec.Round2(*rec.TotalAmount), dec.Round2(t.taxInclusive), tolerance) {
		return totals{}, model.NewMalformedInputError("invoice.total_amount", rec.TotalAmount.String(), "totals",
			"total does not match subtotal plus VAT "+dec.Format2(t.taxInclusive))
	}

	return t, nil
}

// taxCategory derives Z for a zero rate and S with the rate as percent
// otherwise. No exempt (E) category is derived.
func taxCategory(rate decimal.Decimal) *ubl.TaxCategory {
	tc := &ubl.TaxCategory{
		TaxScheme: &ubl.TaxScheme{ID: ubl.NewIdentifier(ubl.TaxSchemeVAT)},
	}
	if rate.IsZero() {
		tc.ID = ubl.NewIdentifier(ubl.TaxCategoryZeroRated)
		return tc
	}
	tc.ID = ubl.NewIdentifier(ubl.TaxCategoryStandard)
	tc.Percent = ubl.NewNumeric(rate)
	return tc
}

func (s *mapping) taxTotal(t totals) ubl.TaxTotal {
	subtotals := lo.Map(t.groups, func(g taxGroup, _ int) ubl.TaxSubtotal {
		return ubl.TaxSubtotal{
			TaxableAmount: s.amount(g.taxable),
			TaxAmount:     s.amount(g.tax),
			TaxCategory:   taxCategory(g.rate),
		}
	})

	return ubl.TaxTotal{
		TaxAmount:    s.amount(t.taxAmount),
		TaxSubtotals: subtotals,
	}
}

func (s *mapping) monetaryTotal(t totals) *ubl.MonetaryTotal {
	mt := &ubl.MonetaryTotal{
		LineExtensionAmount: s.amount(t.lineExtension),
		TaxExclusiveAmount:  s.amount(t.lineExtension),
		TaxInclusiveAmount:  s.amount(t.taxInclusive),
		PayableAmount:       s.amount(t.payable),
	}
	if t.prepaid != nil {
		mt.PrepaidAmount = s.amount(*t.prepaid)
	}
	return mt
}
