// Package mapper derives a PEPPOL BIS Billing 3.0 invoice document from
// flat invoice records, applying the EHF fallback rules.
package mapper

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

// Rule names reported on applied fallbacks
const (
	RuleBuyerReference   = "buyer-reference"
	RuleSupplierEndpoint = "supplier-endpoint"
	RuleBuyerEndpoint    = "buyer-endpoint"
	RuleCountryCode      = "country-code"
	RulePaymentAccount   = "payment-means"
	RuleLineDefaults     = "line-defaults"
)

// Rules holds the literals the derivation falls back to
type Rules struct {
	DefaultScheme       string `mapstructure:"default_scheme"`
	PlaceholderEndpoint string `mapstructure:"placeholder_endpoint"`
	NationalRegistry    string `mapstructure:"national_registry"`
	DefaultUnitCode     string `mapstructure:"default_unit_code"`
	DefaultCountry      string `mapstructure:"default_country"`
}

// DefaultRules returns the Norwegian EHF defaults
func DefaultRules() Rules {
	return Rules{
		DefaultScheme:       ubl.SchemeNorwegianOrgNumber,
		PlaceholderEndpoint: ubl.PlaceholderEndpointID,
		NationalRegistry:    ubl.NationalRegistryID,
		DefaultUnitCode:     ubl.DefaultUnitCode,
		DefaultCountry:      ubl.DefaultCountryCode,
	}
}

func (r Rules) withDefaults() Rules {
	def := DefaultRules()
	if r.DefaultScheme == "" {
		r.DefaultScheme = def.DefaultScheme
	}
	if r.PlaceholderEndpoint == "" {
		r.PlaceholderEndpoint = def.PlaceholderEndpoint
	}
	if r.NationalRegistry == "" {
		r.NationalRegistry = def.NationalRegistry
	}
	if r.DefaultUnitCode == "" {
		r.DefaultUnitCode = def.DefaultUnitCode
	}
	if r.DefaultCountry == "" {
		r.DefaultCountry = def.DefaultCountry
	}
	return r
}

// Fallback records a derivation rule that substituted a value
type Fallback struct {
	Rule  string `json:"rule"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (f Fallback) String() string {
	return fmt.Sprintf("%s: %s=%q", f.Rule, f.Field, f.Value)
}

// Result is a populated invoice plus the fallbacks applied to build it
type Result struct {
	Invoice   *ubl.Invoice
	Fallbacks []Fallback
}

// Mapper turns input records into invoice documents. It holds no
// mutable state and is safe for concurrent use.
type Mapper struct {
	rules       Rules
	attachments *AttachmentChecker
}

// New creates a mapper; empty rule fields take the EHF defaults
func New(rules Rules) *Mapper {
	return &Mapper{
		rules:       rules.withDefaults(),
		attachments: NewAttachmentChecker(),
	}
}

// Rules returns the effective rules
func (m *Mapper) Rules() Rules {
	return m.rules
}

// Map validates in and derives the invoice document. It never
// modifies in.
func (m *Mapper) Map(in model.Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s := &mapping{rules: m.rules, in: &in, currency: in.Invoice.Currency}

	lines, err := s.calculateLines()
	if err != nil {
		return nil, err
	}
	sums, err := s.calculateTotals(lines)
	if err != nil {
		return nil, err
	}

	inv := &ubl.Invoice{
		CustomizationID:      ubl.NewIdentifier(ubl.CustomizationID),
		ProfileID:            ubl.NewIdentifier(ubl.ProfileID),
		ID:                   ubl.NewIdentifier(in.Invoice.Number),
		InvoiceTypeCode:      ubl.NewCode(ubl.InvoiceTypeCommercial),
		Note:                 ubl.NewText(in.Invoice.Note),
		DocumentCurrencyCode: ubl.NewCode(in.Invoice.Currency),
		AccountingCost:       ubl.NewText(in.Invoice.AccountingCost),
	}

	if err := s.applyDates(inv); err != nil {
		return nil, err
	}
	s.applyReferences(inv)
	if err := s.applyDocumentReferences(inv, m.attachments); err != nil {
		return nil, err
	}

	inv.AccountingSupplierParty = s.supplierParty()
	inv.AccountingCustomerParty = s.customerParty()
	inv.PaymentMeans = []ubl.PaymentMeans{s.paymentMeans()}
	if in.Invoice.PaymentTerms != "" {
		inv.PaymentTerms = &ubl.PaymentTerms{Note: ubl.NewText(in.Invoice.PaymentTerms)}
	}

	inv.TaxTotals = []ubl.TaxTotal{s.taxTotal(sums)}
	inv.LegalMonetaryTotal = s.monetaryTotal(sums)
	inv.InvoiceLines = s.invoiceLines(lines)

	if s.err != nil {
		return nil, s.err
	}

	return &Result{Invoice: inv, Fallbacks: s.fallbacks}, nil
}

// mapping is the per-call derivation state
type mapping struct {
	rules     Rules
	in        *model.Input
	currency  string
	fallbacks []Fallback
	err       error
}

func (s *mapping) fallback(rule, field, value string) {
	s.fallbacks = append(s.fallbacks, Fallback{Rule: rule, Field: field, Value: value})
}

// amount wraps v in the document currency; construction failures are
// kept as the first error and reported once at the end of Map
func (s *mapping) amount(v decimal.Decimal) *ubl.Amount {
	a, err := ubl.NewAmount(v, s.currency)
	if err != nil && s.err == nil {
		s.err = model.NewInvariantError(model.StageMap, "build amount", err)
	}
	return a
}

func (s *mapping) quantity(v decimal.Decimal, unit string) *ubl.Quantity {
	q, err := ubl.NewQuantity(v, unit)
	if err != nil && s.err == nil {
		s.err = model.NewInvariantError(model.StageMap, "build quantity", err)
	}
	return q
}

func (s *mapping) applyDates(inv *ubl.Invoice) error {
	rec := s.in.Invoice

	issue, err := parseDate("invoice.issue_date", rec.IssueDate)
	if err != nil {
		return err
	}
	inv.IssueDate = *issue

	if inv.DueDate, err = parseDate("invoice.due_date", rec.DueDate); err != nil {
		return err
	}
	if inv.TaxPointDate, err = parseDate("invoice.tax_point_date", rec.TaxPointDate); err != nil {
		return err
	}

	start, err := parseDate("invoice.period_start", rec.PeriodStart)
	if err != nil {
		return err
	}
	end, err := parseDate("invoice.period_end", rec.PeriodEnd)
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.String() < start.String() {
		return model.NewMalformedInputError("invoice.period_end", rec.PeriodEnd, "period", "period ends before it starts")
	}
	if start != nil || end != nil {
		inv.InvoicePeriod = &ubl.Period{StartDate: start, EndDate: end}
	}
	return nil
}

func parseDate(field, value string) (*ubl.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := ubl.ParseDate(value)
	if err != nil {
		return nil, model.NewMalformedInputError(field, value, "date", "must be a calendar date (YYYY-MM-DD)")
	}
	return &d, nil
}

// applyReferences emits exactly one of BuyerReference and OrderReference
func (s *mapping) applyReferences(inv *ubl.Invoice) {
	rec := s.in.Invoice

	switch {
	case rec.BuyerReference != "":
		inv.BuyerReference = ubl.NewText(rec.BuyerReference)
	case rec.OrderReference != "":
		inv.OrderReference = &ubl.OrderReference{ID: ubl.NewIdentifier(rec.OrderReference)}
	default:
		inv.BuyerReference = ubl.NewText(rec.Number)
		s.fallback(RuleBuyerReference, "invoice.buyer_reference", rec.Number)
	}

	if rec.ContractID != "" {
		inv.ContractDocumentReference = &ubl.DocumentReference{ID: ubl.NewIdentifier(rec.ContractID)}
	}
}
