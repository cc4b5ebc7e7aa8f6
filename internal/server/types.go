package server

import (
	"github.com/rezonia/ehf-generator/internal/mapper"
	"github.com/rezonia/ehf-generator/internal/model"
	"github.com/rezonia/ehf-generator/internal/transmit"
)

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status       string                 `json:"status"`
	Time         string                 `json:"time"`
	Capabilities []model.DeliveryMethod `json:"capabilities"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
	Rule  string `json:"rule,omitempty"`
}

// EnvelopeResponse carries a generated document with its routing.
// Payload is base64 in JSON.
type EnvelopeResponse struct {
	InvoiceNumber string            `json:"invoice_number"`
	Payload       []byte            `json:"payload"`
	Routing       transmit.Routing  `json:"routing"`
	Fallbacks     []mapper.Fallback `json:"fallbacks,omitempty"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid     bool              `json:"valid"`
	Errors    []ErrorResponse   `json:"errors,omitempty"`
	Fallbacks []mapper.Fallback `json:"fallbacks,omitempty"`
}

// SendResponse is the response for the send endpoint
type SendResponse struct {
	Receipt   *transmit.Receipt `json:"receipt"`
	Routing   transmit.Routing  `json:"routing"`
	Fallbacks []mapper.Fallback `json:"fallbacks,omitempty"`
}
