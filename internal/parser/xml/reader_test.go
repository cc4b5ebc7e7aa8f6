package xml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ehf-generator/internal/mapper"
	"github.com/rezonia/ehf-generator/internal/model"
	xmlparser "github.com/rezonia/ehf-generator/internal/parser/xml"
	"github.com/rezonia/ehf-generator/internal/ubl"
	xmlwriter "github.com/rezonia/ehf-generator/internal/writer/xml"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90wS\xde")

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func sampleInput() model.Input {
	return model.Input{
		Supplier: model.Supplier{
			OrganizationNumber: "123456789",
			CompanyName:        "Snabel AS",
			LegalForm:          "AS",
			ContactPerson:      "Kari Nordmann",
			Email:              "kari@snabel.no",
			Address:            "Storgata 1",
			PostalCode:         "0155",
			City:               "Oslo",
			Country:            "Norge",
			BankAccount:        "15030012345",
			SwiftBIC:           "DNBANOKK",
		},
		Buyer: model.Buyer{
			Name:               "Kunde AB",
			OrganizationNumber: "987654321",
			City:               "Stockholm",
			Country:            "Sverige",
		},
		Invoice: model.InvoiceRecord{
			Number:         "INV-100",
			IssueDate:      "2026-03-01",
			DueDate:        "2026-03-31",
			PeriodStart:    "2026-02-01",
			PeriodEnd:      "2026-02-28",
			Currency:       "NOK",
			Note:           "Takk for handelen",
			OrderReference: "PO-55",
			ContractID:     "C-1",
			PaymentTerms:   "30 dager netto",
			Subtotal:       d("1500"),
			VATAmount:      d("250"),
			TotalAmount:    d("1750"),
			PrepaidAmount:  d("100"),
			Attachments: []model.Attachment{
				{ID: "ATT-1", Description: "Timeliste", Filename: "timer.png", Content: pngBytes},
			},
		},
		Lines: []model.Line{
			{ItemName: "Konsulent", ItemID: "K-1", UnitCode: "HUR", Quantity: d("10"), UnitPrice: d("100"), VATRate: d("25"), VATAmount: d("250"), OrderLineID: "1"},
			{Description: "Bøker", Quantity: d("5"), UnitPrice: d("100"), VATRate: d("0")},
		},
	}
}

func TestReader_RoundTrip(t *testing.T) {
	res, err := mapper.New(mapper.DefaultRules()).Map(sampleInput())
	require.NoError(t, err)

	w := xmlwriter.NewWriter()
	first, err := w.WriteToBytes(res.Invoice)
	require.NoError(t, err)

	parsed, err := xmlparser.NewReader().Read(bytes.NewReader(first))
	require.NoError(t, err)

	second, err := w.WriteToBytes(parsed)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	assert.Equal(t, "INV-100", parsed.ID.Value)
	assert.Equal(t, "2026-03-01", parsed.IssueDate.String())
	assert.Equal(t, "PO-55", parsed.OrderReference.ID.Value)
	assert.Nil(t, parsed.BuyerReference)
	assert.Equal(t, "123456789", parsed.AccountingSupplierParty.EndpointID.Value)
	assert.Equal(t, "0192", parsed.AccountingSupplierParty.EndpointID.SchemeID)
	assert.Equal(t, "SE", parsed.AccountingCustomerParty.PostalAddress.Country.IdentificationCode.Value)
	assert.Equal(t, "DNBANOKK", parsed.PaymentMeans[0].PayeeFinancialAccount.FinancialInstitutionBranch.ID.Value)
	assert.Equal(t, "1650.00", parsed.LegalMonetaryTotal.PayableAmount.Value.StringFixed(2))

	require.Len(t, parsed.AdditionalDocumentReferences, 1)
	obj := parsed.AdditionalDocumentReferences[0].Attachment.EmbeddedDocument
	assert.Equal(t, pngBytes, obj.Content)
	assert.Equal(t, "image/png", obj.MimeCode)

	require.Len(t, parsed.InvoiceLines, 2)
	assert.Equal(t, "Bøker", parsed.InvoiceLines[1].Item.Name.Value)
	assert.Equal(t, "Z", parsed.InvoiceLines[1].Item.ClassifiedTaxCategory.ID.Value)
	assert.Nil(t, parsed.InvoiceLines[1].Item.ClassifiedTaxCategory.Percent)
}

func TestReader_CanParse(t *testing.T) {
	r := xmlparser.NewReader()
	assert.True(t, r.CanParse([]byte(`<Invoice xmlns="`+ubl.NamespaceInvoice+`"></Invoice>`)))
	assert.False(t, r.CanParse([]byte(`<Invoice><TaxID>1</TaxID></Invoice>`)))
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"not xml", "this is not xml", "xml"},
		{"wrong namespace", `<Invoice xmlns="urn:example"><cbc:ID>1</cbc:ID></Invoice>`, "xml"},
		{"wrong root", `<CreditNote xmlns="` + ubl.NamespaceInvoice + `"></CreditNote>`, "xml"},
		{"bad issue date", invoiceWith(`<cbc:IssueDate>01.03.2026</cbc:IssueDate>`), "IssueDate"},
		{"bad amount", invoiceWith(`<cac:LegalMonetaryTotal><cbc:PayableAmount currencyID="NOK">abc</cbc:PayableAmount></cac:LegalMonetaryTotal>`), "LegalMonetaryTotal.PayableAmount"},
		{"bad currency", invoiceWith(`<cac:LegalMonetaryTotal><cbc:PayableAmount currencyID="nok">1.00</cbc:PayableAmount></cac:LegalMonetaryTotal>`), "LegalMonetaryTotal.PayableAmount"},
		{"bad indicator", invoiceWith(`<cac:AllowanceCharge><cbc:ChargeIndicator>yes</cbc:ChargeIndicator></cac:AllowanceCharge>`), "AllowanceCharge[0].ChargeIndicator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := xmlparser.NewReader().Read(strings.NewReader(tt.content))

			var parseErr *model.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, xmlparser.Source, parseErr.Source)
			assert.Equal(t, tt.field, parseErr.Field)
		})
	}
}

func invoiceWith(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<Invoice xmlns="` + ubl.NamespaceInvoice + `" xmlns:cac="` + ubl.NamespaceCAC + `" xmlns:cbc="` + ubl.NamespaceCBC + `">` +
		`<cbc:ID>1</cbc:ID>` + body + `</Invoice>`
}
