// Package xml reads EHF / PEPPOL BIS Billing 3.0 invoice XML back into
// the UBL document model.
package xml

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

// Source names the reader in parse errors
const Source = "ubl"

// Reader parses UBL 2.1 invoice documents
type Reader struct{}

// NewReader creates a new UBL reader
func NewReader() *Reader {
	return &Reader{}
}

// CanParse returns true if content looks like a UBL invoice
func (r *Reader) CanParse(content []byte) bool {
	return bytes.Contains(content, []byte(ubl.NamespaceInvoice)) &&
		bytes.Contains(content, []byte("Invoice"))
}

// Read parses a UBL invoice from rd
func (r *Reader) Read(rd io.Reader) (*ubl.Invoice, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, model.NewParseError(Source, "content", "failed to read content", err)
	}
	return r.ReadBytes(content)
}

// ReadBytes parses a UBL invoice held in memory
func (r *Reader) ReadBytes(content []byte) (*ubl.Invoice, error) {
	var doc ublInvoice
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, model.NewParseError(Source, "xml", "failed to parse XML", err)
	}

	c := &converter{}
	inv := c.invoice(&doc)
	if c.err != nil {
		return nil, c.err
	}
	return inv, nil
}

// converter keeps the first conversion error so the tree can be walked
// without checking every leaf
type converter struct {
	err error
}

func (c *converter) fail(field, message string, cause error) {
	if c.err == nil {
		c.err = model.NewParseError(Source, field, message, cause)
	}
}

func (c *converter) invoice(doc *ublInvoice) *ubl.Invoice {
	inv := &ubl.Invoice{
		CustomizationID:        identifier(doc.CustomizationID),
		ProfileID:              identifier(doc.ProfileID),
		ID:                     identifier(doc.ID),
		DueDate:                c.date("DueDate", doc.DueDate),
		InvoiceTypeCode:        code(doc.InvoiceTypeCode),
		Note:                   text(doc.Note),
		TaxPointDate:           c.date("TaxPointDate", doc.TaxPointDate),
		DocumentCurrencyCode:   code(doc.DocumentCurrencyCode),
		TaxCurrencyCode:        code(doc.TaxCurrencyCode),
		AccountingCost:         text(doc.AccountingCost),
		BuyerReference:         text(doc.BuyerReference),
		InvoicePeriod:          c.period("InvoicePeriod", doc.InvoicePeriod),
		PayeeParty:             c.party("PayeeParty", doc.PayeeParty),
		TaxRepresentativeParty: c.party("TaxRepresentativeParty", doc.TaxRepresentativeParty),
		LegalMonetaryTotal:     c.monetaryTotal(doc.LegalMonetaryTotal),
	}

	if issue := c.date("IssueDate", doc.IssueDate); issue != nil {
		inv.IssueDate = *issue
	}

	if doc.OrderReference != nil {
		inv.OrderReference = &ubl.OrderReference{
			ID:           identifier(doc.OrderReference.ID),
			SalesOrderID: identifier(doc.OrderReference.SalesOrderID),
		}
	}
	inv.ContractDocumentReference = c.documentReference("ContractDocumentReference", doc.ContractDocumentReference)
	for i := range doc.AdditionalDocumentReferences {
		field := fmt.Sprintf("AdditionalDocumentReference[%d]", i)
		inv.AdditionalDocumentReferences = append(inv.AdditionalDocumentReferences,
			*c.documentReference(field, &doc.AdditionalDocumentReferences[i]))
	}

	if doc.AccountingSupplierParty != nil {
		inv.AccountingSupplierParty = c.party("AccountingSupplierParty", doc.AccountingSupplierParty.Party)
	}
	if doc.AccountingCustomerParty != nil {
		inv.AccountingCustomerParty = c.party("AccountingCustomerParty", doc.AccountingCustomerParty.Party)
	}

	for _, pm := range doc.PaymentMeans {
		inv.PaymentMeans = append(inv.PaymentMeans, paymentMeans(pm))
	}
	if doc.PaymentTerms != nil {
		inv.PaymentTerms = &ubl.PaymentTerms{Note: text(doc.PaymentTerms.Note)}
	}
	for i := range doc.AllowanceCharges {
		inv.AllowanceCharges = append(inv.AllowanceCharges,
			*c.allowanceCharge(fmt.Sprintf("AllowanceCharge[%d]", i), &doc.AllowanceCharges[i]))
	}
	for i := range doc.TaxTotals {
		inv.TaxTotals = append(inv.TaxTotals, c.taxTotal(fmt.Sprintf("TaxTotal[%d]", i), &doc.TaxTotals[i]))
	}
	for i := range doc.InvoiceLines {
		inv.InvoiceLines = append(inv.InvoiceLines, c.invoiceLine(fmt.Sprintf("InvoiceLine[%d]", i), &doc.InvoiceLines[i]))
	}

	return inv
}

func identifier(w *ublIdentifier) *ubl.Identifier {
	if w == nil || strings.TrimSpace(w.Value) == "" {
		return nil
	}
	return &ubl.Identifier{
		Value:          strings.TrimSpace(w.Value),
		SchemeID:       w.SchemeID,
		SchemeAgencyID: w.SchemeAgencyID,
	}
}

func code(w *ublCode) *ubl.Code {
	if w == nil || strings.TrimSpace(w.Value) == "" {
		return nil
	}
	return &ubl.Code{
		Value:         strings.TrimSpace(w.Value),
		ListID:        w.ListID,
		ListAgencyID:  w.ListAgencyID,
		ListVersionID: w.ListVersionID,
		Name:          w.Name,
	}
}

func text(w *ublText) *ubl.Text {
	if w == nil || w.Value == "" {
		return nil
	}
	return &ubl.Text{Value: w.Value, LanguageID: w.LanguageID}
}

func (c *converter) decimal(field, value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		c.fail(field, "invalid decimal", err)
		return decimal.Zero, false
	}
	return d, true
}

func (c *converter) amount(field string, w *ublAmount) *ubl.Amount {
	if w == nil {
		return nil
	}
	v, ok := c.decimal(field, w.Value)
	if !ok {
		return nil
	}
	a, err := ubl.NewAmount(v, w.CurrencyID)
	if err != nil {
		c.fail(field, "invalid currencyID", err)
		return nil
	}
	return a
}

func (c *converter) quantity(field string, w *ublQuantity) *ubl.Quantity {
	if w == nil {
		return nil
	}
	v, ok := c.decimal(field, w.Value)
	if !ok {
		return nil
	}
	q, err := ubl.NewQuantity(v, w.UnitCode)
	if err != nil {
		c.fail(field, "invalid unitCode", err)
		return nil
	}
	return q
}

func (c *converter) numeric(field, value string) *ubl.Numeric {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v, ok := c.decimal(field, value)
	if !ok {
		return nil
	}
	return ubl.NewNumeric(v)
}

func (c *converter) date(field, value string) *ubl.Date {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := ubl.ParseDate(value)
	if err != nil {
		c.fail(field, "invalid date", err)
		return nil
	}
	return &d
}

func (c *converter) indicator(field, value string) ubl.Indicator {
	switch strings.TrimSpace(value) {
	case "":
		return ubl.IndicatorUnset
	case "true":
		return ubl.IndicatorTrue
	case "false":
		return ubl.IndicatorFalse
	default:
		c.fail(field, fmt.Sprintf("invalid indicator %q", value), nil)
		return ubl.IndicatorUnset
	}
}

func (c *converter) period(field string, w *ublPeriod) *ubl.Period {
	if w == nil {
		return nil
	}
	return &ubl.Period{
		StartDate: c.date(field+".StartDate", w.StartDate),
		EndDate:   c.date(field+".EndDate", w.EndDate),
	}
}

func (c *converter) documentReference(field string, w *ublDocumentReference) *ubl.DocumentReference {
	if w == nil {
		return nil
	}
	ref := &ubl.DocumentReference{
		ID:                  identifier(w.ID),
		DocumentTypeCode:    code(w.DocumentTypeCode),
		DocumentDescription: text(w.DocumentDescription),
	}
	if att := w.Attachment; att != nil {
		ref.Attachment = &ubl.Attachment{}
		if obj := att.EmbeddedDocument; obj != nil {
			content, err := base64.StdEncoding.DecodeString(strings.TrimSpace(obj.Value))
			if err != nil {
				c.fail(field+".Attachment", "invalid base64 content", err)
			}
			ref.Attachment.EmbeddedDocument = &ubl.BinaryObject{
				Content:  content,
				MimeCode: obj.MimeCode,
				Filename: obj.Filename,
			}
		}
		if att.ExternalReference != nil {
			ref.Attachment.ExternalURI = strings.TrimSpace(att.ExternalReference.URI)
		}
	}
	return ref
}

func (c *converter) party(field string, w *ublParty) *ubl.Party {
	if w == nil {
		return nil
	}
	p := &ubl.Party{
		EndpointID:    identifier(w.EndpointID),
		PostalAddress: address(w.PostalAddress),
	}
	for _, pid := range w.PartyIdentification {
		p.PartyIdentification = append(p.PartyIdentification, ubl.PartyIdentification{ID: identifier(pid.ID)})
	}
	if w.PartyName != nil {
		p.PartyName = &ubl.PartyName{Name: text(w.PartyName.Name)}
	}
	for _, pts := range w.PartyTaxSchemes {
		p.PartyTaxSchemes = append(p.PartyTaxSchemes, ubl.PartyTaxScheme{
			CompanyID: identifier(pts.CompanyID),
			TaxScheme: taxScheme(pts.TaxScheme),
		})
	}
	if le := w.PartyLegalEntity; le != nil {
		p.PartyLegalEntity = &ubl.PartyLegalEntity{
			RegistrationName: text(le.RegistrationName),
			CompanyID:        identifier(le.CompanyID),
			CompanyLegalForm: text(le.CompanyLegalForm),
		}
	}
	if ct := w.Contact; ct != nil {
		p.Contact = &ubl.Contact{
			Name:           text(ct.Name),
			Telephone:      text(ct.Telephone),
			ElectronicMail: text(ct.ElectronicMail),
		}
	}
	return p
}

func address(w *ublAddress) *ubl.Address {
	if w == nil {
		return nil
	}
	a := &ubl.Address{
		StreetName:           text(w.StreetName),
		AdditionalStreetName: text(w.AdditionalStreetName),
		CityName:             text(w.CityName),
		PostalZone:           text(w.PostalZone),
		CountrySubentity:     text(w.CountrySubentity),
		Country:              country(w.Country),
	}
	for _, line := range w.AddressLines {
		a.AddressLines = append(a.AddressLines, ubl.AddressLine{Line: text(line.Line)})
	}
	return a
}

func country(w *ublCountry) *ubl.Country {
	if w == nil {
		return nil
	}
	return &ubl.Country{IdentificationCode: code(w.IdentificationCode)}
}

func taxScheme(w *ublTaxScheme) *ubl.TaxScheme {
	if w == nil {
		return nil
	}
	return &ubl.TaxScheme{ID: identifier(w.ID)}
}

func paymentMeans(w ublPaymentMeans) ubl.PaymentMeans {
	pm := ubl.PaymentMeans{
		PaymentMeansCode: code(w.PaymentMeansCode),
		PaymentID:        identifier(w.PaymentID),
	}
	if acct := w.PayeeFinancialAccount; acct != nil {
		pm.PayeeFinancialAccount = &ubl.FinancialAccount{
			ID:   identifier(acct.ID),
			Name: text(acct.Name),
		}
		if br := acct.FinancialInstitutionBranch; br != nil {
			pm.PayeeFinancialAccount.FinancialInstitutionBranch = &ubl.Branch{
				ID:   identifier(br.ID),
				Name: text(br.Name),
			}
		}
	}
	return pm
}

func (c *converter) allowanceCharge(field string, w *ublAllowanceCharge) *ubl.AllowanceCharge {
	if w == nil {
		return nil
	}
	return &ubl.AllowanceCharge{
		ChargeIndicator:           c.indicator(field+".ChargeIndicator", w.ChargeIndicator),
		AllowanceChargeReasonCode: code(w.AllowanceChargeReasonCode),
		AllowanceChargeReason:     text(w.AllowanceChargeReason),
		MultiplierFactorNumeric:   c.numeric(field+".MultiplierFactorNumeric", w.MultiplierFactorNumeric),
		Amount:                    c.amount(field+".Amount", w.Amount),
		BaseAmount:                c.amount(field+".BaseAmount", w.BaseAmount),
		TaxCategory:               c.taxCategory(field+".TaxCategory", w.TaxCategory),
	}
}

func (c *converter) taxTotal(field string, w *ublTaxTotal) ubl.TaxTotal {
	tt := ubl.TaxTotal{TaxAmount: c.amount(field+".TaxAmount", w.TaxAmount)}
	for i, st := range w.TaxSubtotals {
		stField := fmt.Sprintf("%s.TaxSubtotal[%d]", field, i)
		tt.TaxSubtotals = append(tt.TaxSubtotals, ubl.TaxSubtotal{
			TaxableAmount: c.amount(stField+".TaxableAmount", st.TaxableAmount),
			TaxAmount:     c.amount(stField+".TaxAmount", st.TaxAmount),
			TaxCategory:   c.taxCategory(stField+".TaxCategory", st.TaxCategory),
		})
	}
	return tt
}

func (c *converter) taxCategory(field string, w *ublTaxCategory) *ubl.TaxCategory {
	if w == nil {
		return nil
	}
	return &ubl.TaxCategory{
		ID:                     identifier(w.ID),
		Percent:                c.numeric(field+".Percent", w.Percent),
		TaxExemptionReasonCode: code(w.TaxExemptionReasonCode),
		TaxExemptionReason:     text(w.TaxExemptionReason),
		TaxScheme:              taxScheme(w.TaxScheme),
	}
}

func (c *converter) monetaryTotal(w *ublMonetaryTotal) *ubl.MonetaryTotal {
	if w == nil {
		return nil
	}
	const field = "LegalMonetaryTotal"
	return &ubl.MonetaryTotal{
		LineExtensionAmount:   c.amount(field+".LineExtensionAmount", w.LineExtensionAmount),
		TaxExclusiveAmount:    c.amount(field+".TaxExclusiveAmount", w.TaxExclusiveAmount),
		TaxInclusiveAmount:    c.amount(field+".TaxInclusiveAmount", w.TaxInclusiveAmount),
		AllowanceTotalAmount:  c.amount(field+".AllowanceTotalAmount", w.AllowanceTotalAmount),
		ChargeTotalAmount:     c.amount(field+".ChargeTotalAmount", w.ChargeTotalAmount),
		PrepaidAmount:         c.amount(field+".PrepaidAmount", w.PrepaidAmount),
		PayableRoundingAmount: c.amount(field+".PayableRoundingAmount", w.PayableRoundingAmount),
		PayableAmount:         c.amount(field+".PayableAmount", w.PayableAmount),
	}
}

func (c *converter) invoiceLine(field string, w *ublInvoiceLine) ubl.InvoiceLine {
	line := ubl.InvoiceLine{
		ID:                  identifier(w.ID),
		Note:                text(w.Note),
		InvoicedQuantity:    c.quantity(field+".InvoicedQuantity", w.InvoicedQuantity),
		LineExtensionAmount: c.amount(field+".LineExtensionAmount", w.LineExtensionAmount),
		AccountingCost:      text(w.AccountingCost),
		InvoicePeriod:       c.period(field+".InvoicePeriod", w.InvoicePeriod),
		DocumentReference:   c.documentReference(field+".DocumentReference", w.DocumentReference),
	}
	if w.OrderLineReference != nil {
		line.OrderLineReference = &ubl.OrderLineReference{LineID: identifier(w.OrderLineReference.LineID)}
	}
	for i := range w.AllowanceCharges {
		line.AllowanceCharges = append(line.AllowanceCharges,
			*c.allowanceCharge(fmt.Sprintf("%s.AllowanceCharge[%d]", field, i), &w.AllowanceCharges[i]))
	}
	if it := w.Item; it != nil {
		item := &ubl.Item{
			Description:                text(it.Description),
			Name:                       text(it.Name),
			BuyersItemIdentification:   itemIdentification(it.BuyersItemIdentification),
			SellersItemIdentification:  itemIdentification(it.SellersItemIdentification),
			StandardItemIdentification: itemIdentification(it.StandardItemIdentification),
			OriginCountry:              country(it.OriginCountry),
			ClassifiedTaxCategory:      c.taxCategory(field+".ClassifiedTaxCategory", it.ClassifiedTaxCategory),
		}
		for _, cc := range it.CommodityClassifications {
			item.CommodityClassifications = append(item.CommodityClassifications,
				ubl.CommodityClassification{ItemClassificationCode: code(cc.ItemClassificationCode)})
		}
		for _, prop := range it.AdditionalItemProperties {
			item.AdditionalItemProperties = append(item.AdditionalItemProperties,
				ubl.ItemProperty{Name: text(prop.Name), Value: text(prop.Value)})
		}
		line.Item = item
	}
	if p := w.Price; p != nil {
		line.Price = &ubl.Price{
			PriceAmount:     c.amount(field+".PriceAmount", p.PriceAmount),
			BaseQuantity:    c.quantity(field+".BaseQuantity", p.BaseQuantity),
			AllowanceCharge: c.allowanceCharge(field+".Price.AllowanceCharge", p.AllowanceCharge),
		}
	}
	return line
}

func itemIdentification(w *ublItemIdentifier) *ubl.ItemIdentification {
	if w == nil {
		return nil
	}
	return &ubl.ItemIdentification{ID: identifier(w.ID)}
}
