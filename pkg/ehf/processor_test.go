package ehf_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ehf-generator/pkg/ehf"
)

const recordJSON = `{
  "supplier": {"organization_number": "123456789", "company_name": "Snabel AS", "country": "Norge"},
  "buyer": {"name": "Kunde AS", "organization_number": "987654321", "country": "Sverige"},
  "invoice": {
    "number": "INV-77",
    "issue_date": "2026-01-15",
    "currency": "NOK",
    "subtotal": "1500",
    "vat_amount": "250",
    "total_amount": "1750"
  },
  "lines": [
    {"item_name": "Consulting", "unit_code": "HUR", "quantity": "10", "unit_price": "100", "vat_rate": "25", "vat_amount": "250"},
    {"item_name": "Books", "unit_code": "EA", "quantity": 5, "unit_price": 100, "vat_rate": 0, "vat_amount": 0}
  ]
}`

func TestNewDefaultProcessor(t *testing.T) {
	proc := ehf.NewDefaultProcessor()
	require.NotNil(t, proc)
	assert.Equal(t, ehf.DefaultRules(), proc.Rules())
}

func TestDefaultOptions(t *testing.T) {
	opts := ehf.DefaultOptions()

	assert.Equal(t, 2, opts.Indent)
	assert.Equal(t, "0192", opts.Rules.DefaultScheme)
	assert.Equal(t, "NO-ENDPOINT", opts.Rules.PlaceholderEndpoint)
	assert.Equal(t, "EA", opts.Rules.DefaultUnitCode)
	assert.Nil(t, opts.Logger)
}

func TestProcessorGenerateJSON(t *testing.T) {
	proc := ehf.NewDefaultProcessor()

	docs, err := proc.GenerateJSON(strings.NewReader(recordJSON))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, "INV-77", doc.Number)
	assert.True(t, bytes.HasPrefix(doc.XML, []byte(`<?xml version="1.0" encoding="UTF-8"?>`)))
	assert.Equal(t, "0192:987654321", doc.Routing.Receiver.String())
	assert.NotEmpty(t, doc.Fallbacks)

	again, err := proc.Generate(sampleInput(t))
	require.NoError(t, err)
	assert.Equal(t, doc.XML, again.XML)
}

func TestProcessorGenerateJSON_Batch(t *testing.T) {
	proc := ehf.NewDefaultProcessor()

	second := strings.Replace(recordJSON, "INV-77", "INV-78", 1)
	broken := strings.Replace(recordJSON, `"vat_amount": "250",`, `"vat_amount": "1",`, 1)

	docs, err := proc.GenerateJSON(strings.NewReader("[" + recordJSON + "," + second + "]"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "INV-78", docs[1].Number)

	docs, err = proc.GenerateJSON(strings.NewReader("[" + recordJSON + "," + broken + "]"))
	require.Error(t, err)
	assert.NotNil(t, docs[0])
	assert.Nil(t, docs[1])

	var malformed *ehf.MalformedInputError
	assert.True(t, errors.As(err, &malformed))
}

func TestProcessorGenerateJSON_ParseError(t *testing.T) {
	proc := ehf.NewDefaultProcessor()

	_, err := proc.GenerateJSON(strings.NewReader("not json"))
	require.Error(t, err)

	var parseErr *ehf.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Source)
}

func TestProcessorValidate(t *testing.T) {
	proc := ehf.NewDefaultProcessor()
	in := sampleInput(t)

	fallbacks, err := proc.Validate(in)
	require.NoError(t, err)
	require.NotEmpty(t, fallbacks)
	assert.Equal(t, "buyer-reference", fallbacks[0].Rule)

	in.Supplier.CompanyName = ""
	_, err = proc.Validate(in)
	var missing *ehf.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "supplier.company_name", missing.Field)
}

func TestProcessorInspect(t *testing.T) {
	proc := ehf.NewProcessor(ehf.Options{Indent: 4})

	doc, err := proc.Generate(sampleInput(t))
	require.NoError(t, err)
	assert.Contains(t, string(doc.XML), "\n    <cbc:CustomizationID>")

	summary, err := proc.Inspect(bytes.NewReader(doc.XML))
	require.NoError(t, err)
	assert.Equal(t, "INV-77", summary.ID)
	assert.Equal(t, "250.00 NOK", summary.TaxAmount)
	assert.Equal(t, []string{"S 25.00%", "Z"}, summary.TaxCategories)

	inv, err := proc.Read(bytes.NewReader(doc.XML))
	require.NoError(t, err)
	assert.Len(t, inv.InvoiceLines, 2)
}

func sampleInput(t *testing.T) ehf.Input {
	t.Helper()
	inputs, err := ehf.DecodeJSON(strings.NewReader(recordJSON))
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	return inputs[0]
}
