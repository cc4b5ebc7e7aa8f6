package transmit

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/rezonia/ehf-generator/internal/ubl"
)

var (
	// ErrUnsupportedMethod is returned for a delivery method without a
	// registered transmitter
	ErrUnsupportedMethod = errors.New("transmit: unsupported delivery method")

	// ErrUnroutable is returned when the receiver has no real endpoint
	ErrUnroutable = errors.New("transmit: receiver has no routable endpoint")
)

// Request is a serialized document with its routing
type Request struct {
	Payload []byte
	Routing Routing
}

// NewRequest pairs payload with the routing derived from inv
func NewRequest(payload []byte, inv *ubl.Invoice) (*Request, error) {
	if len(payload) == 0 {
		return nil, errors.New("transmit: payload is empty")
	}
	routing, err := RoutingFor(inv)
	if err != nil {
		return nil, err
	}
	return &Request{Payload: payload, Routing: routing}, nil
}

// Receipt confirms that a transmitter accepted a document
type Receipt struct {
	MessageID   string    `json:"message_id"`
	Transmitter string    `json:"transmitter"`
	Timestamp   time.Time `json:"timestamp"`
}

// Transmitter hands a document to a delivery channel
type Transmitter interface {
	Transmit(ctx context.Context, req *Request) (*Receipt, error)
}
