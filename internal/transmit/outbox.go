package transmit

import (
	"context"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rezonia/ehf-generator/internal/archive"
	"github.com/rezonia/ehf-generator/internal/ubl"
)

// OutboxName identifies the outbox on receipts
const OutboxName = "outbox"

// OutboxTransmitter writes documents to an archive store where an
// access point integration picks them up
type OutboxTransmitter struct {
	store       archive.Store
	logger      *zap.Logger
	placeholder string
	now         func() time.Time
}

// OutboxOption configures an OutboxTransmitter
type OutboxOption func(*OutboxTransmitter)

// WithLogger sets the outbox logger
func WithLogger(logger *zap.Logger) OutboxOption {
	return func(o *OutboxTransmitter) {
		o.logger = logger
	}
}

// WithPlaceholder sets the endpoint value treated as unroutable
func WithPlaceholder(endpoint string) OutboxOption {
	return func(o *OutboxTransmitter) {
		o.placeholder = endpoint
	}
}

// WithClock sets the time source for receipts
func WithClock(now func() time.Time) OutboxOption {
	return func(o *OutboxTransmitter) {
		o.now = now
	}
}

// NewOutboxTransmitter creates an outbox over store
func NewOutboxTransmitter(store archive.Store, opts ...OutboxOption) *OutboxTransmitter {
	o := &OutboxTransmitter{
		store:       store,
		logger:      zap.NewNop(),
		placeholder: ubl.PlaceholderEndpointID,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Key returns the archive key of a queued message
func Key(receiver ParticipantID, messageID string) string {
	return path.Join("outbox", receiver.Scheme+"-"+receiver.Value, messageID+".xml")
}

// Transmit queues req under outbox/<scheme>-<receiver>/<message id>.xml
func (o *OutboxTransmitter) Transmit(ctx context.Context, req *Request) (*Receipt, error) {
	if req == nil || len(req.Payload) == 0 {
		return nil, errors.New("transmit: empty request")
	}
	receiver := req.Routing.Receiver
	if receiver.IsZero() || receiver.Value == o.placeholder {
		return nil, errors.Wrapf(ErrUnroutable, "receiver %s", receiver)
	}

	messageID := uuid.NewString()
	key := Key(receiver, messageID)
	if err := o.store.Put(ctx, key, req.Payload, "application/xml"); err != nil {
		return nil, errors.Wrap(err, "queue document")
	}

	o.logger.Info("document queued",
		zap.String("message_id", messageID),
		zap.String("sender", req.Routing.Sender.String()),
		zap.String("receiver", receiver.String()),
		zap.String("key", key))

	return &Receipt{
		MessageID:   messageID,
		Transmitter: OutboxName,
		Timestamp:   o.now().UTC(),
	}, nil
}
