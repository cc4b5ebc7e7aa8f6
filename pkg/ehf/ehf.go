// Package ehf is the public API for generating EHF (PEPPOL BIS Billing
// 3.0) invoices from flat invoice records.
//
// Example usage:
//
//	proc := ehf.NewDefaultProcessor()
//	doc, err := proc.Generate(input)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(doc.XML)
package ehf

import (
	"github.com/rezonia/ehf-generator/internal/mapper"
	"github.com/rezonia/ehf-generator/internal/model"
	xmlparser "github.com/rezonia/ehf-generator/internal/parser/xml"
	"github.com/rezonia/ehf-generator/internal/transmit"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

// Re-export input record types
type (
	Input             = model.Input
	Supplier          = model.Supplier
	Buyer             = model.Buyer
	InvoiceRecord     = model.InvoiceRecord
	Line              = model.Line
	Attachment        = model.Attachment
	DocumentReference = model.DocumentReference
	DeliveryMethod    = model.DeliveryMethod
)

// Re-export delivery methods
const (
	DeliveryEHF         = model.DeliveryEHF
	DeliveryEFakturaB2C = model.DeliveryEFakturaB2C
	DeliveryEmail       = model.DeliveryEmail
)

// Re-export document and derivation types
type (
	Invoice       = ubl.Invoice
	Rules         = mapper.Rules
	Fallback      = mapper.Fallback
	Routing       = transmit.Routing
	ParticipantID = transmit.ParticipantID
	Summary       = xmlparser.Summary
)

// Re-export error types
type (
	MissingFieldError   = model.MissingFieldError
	MalformedInputError = model.MalformedInputError
	InvariantError      = model.InvariantError
	ParseError          = model.ParseError
)

// DefaultRules returns the Norwegian EHF derivation defaults
func DefaultRules() Rules {
	return mapper.DefaultRules()
}
