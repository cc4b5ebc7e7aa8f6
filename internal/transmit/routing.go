// Package transmit describes how generated invoices are handed to a
// PEPPOL access point, and provides an outbox stand-in for one.
package transmit

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/rezonia/ehf-generator/internal/ubl"
)

// ParticipantID is a PEPPOL participant: an endpoint value in an
// identifier scheme such as 0192
type ParticipantID struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

func (p ParticipantID) String() string {
	if p.Scheme == "" {
		return p.Value
	}
	return p.Scheme + ":" + p.Value
}

// IsZero reports whether p carries no value
func (p ParticipantID) IsZero() bool {
	return p.Value == ""
}

// ParseParticipantID accepts "scheme:value" or a bare value, which gets
// defaultScheme
func ParseParticipantID(s, defaultScheme string) (ParticipantID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ParticipantID{}, errors.New("participant id is empty")
	}

	scheme, value, found := strings.Cut(s, ":")
	if !found {
		return ParticipantID{Scheme: defaultScheme, Value: s}, nil
	}
	if scheme == "" || value == "" {
		return ParticipantID{}, errors.Newf("malformed participant id %q", s)
	}
	return ParticipantID{Scheme: scheme, Value: value}, nil
}

// Identifier is a schemed document type or process identifier
type Identifier struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

func (i Identifier) String() string {
	return i.Scheme + "::" + i.Value
}

// Routing is the envelope information an access point needs to deliver
// a document
type Routing struct {
	Sender       ParticipantID `json:"sender"`
	Receiver     ParticipantID `json:"receiver"`
	DocumentType Identifier    `json:"document_type"`
	Process      Identifier    `json:"process"`
}

// InvoiceDocumentType is the BIS Billing 3.0 invoice document type
func InvoiceDocumentType() Identifier {
	return Identifier{Scheme: ubl.DocumentTypeScheme, Value: ubl.DocumentTypeID}
}

// BillingProcess is the BIS Billing 3.0 process
func BillingProcess() Identifier {
	return Identifier{Scheme: ubl.ProcessScheme, Value: ubl.ProcessID}
}

// RoutingFor derives routing from the resolved endpoints of inv
func RoutingFor(inv *ubl.Invoice) (Routing, error) {
	if inv == nil {
		return Routing{}, errors.New("routing: invoice is nil")
	}
	sender, err := endpoint(inv.AccountingSupplierParty)
	if err != nil {
		return Routing{}, errors.Wrap(err, "routing: supplier")
	}
	receiver, err := endpoint(inv.AccountingCustomerParty)
	if err != nil {
		return Routing{}, errors.Wrap(err, "routing: customer")
	}

	return Routing{
		Sender:       sender,
		Receiver:     receiver,
		DocumentType: InvoiceDocumentType(),
		Process:      BillingProcess(),
	}, nil
}

func endpoint(p *ubl.Party) (ParticipantID, error) {
	if p == nil || p.EndpointID == nil || p.EndpointID.Value == "" {
		return ParticipantID{}, errors.New("no endpoint id")
	}
	return ParticipantID{Scheme: p.EndpointID.SchemeID, Value: p.EndpointID.Value}, nil
}
