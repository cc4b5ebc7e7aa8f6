package transmit

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/rezonia/ehf-generator/internal/model"
)

// Registry maps delivery methods to transmitters
type Registry struct {
	mu           sync.RWMutex
	transmitters map[model.DeliveryMethod]Transmitter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{transmitters: make(map[model.DeliveryMethod]Transmitter)}
}

// Register sets the transmitter for method, replacing any previous one
func (r *Registry) Register(method model.DeliveryMethod, t Transmitter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transmitters[method] = t
}

// Get returns the transmitter for method
func (r *Registry) Get(method model.DeliveryMethod) (Transmitter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transmitters[method]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedMethod, "method %q", method)
	}
	return t, nil
}

// Transmit sends req through the transmitter registered for method.
// An empty method means EHF.
func (r *Registry) Transmit(ctx context.Context, method model.DeliveryMethod, req *Request) (*Receipt, error) {
	if method == "" {
		method = model.DeliveryEHF
	}
	t, err := r.Get(method)
	if err != nil {
		return nil, err
	}
	return t.Transmit(ctx, req)
}

// Capabilities lists the registered delivery methods in sorted order
func (r *Registry) Capabilities() []model.DeliveryMethod {
	r.mu.RLock()
	defer r.mu.RUnlock()
	methods := make([]model.DeliveryMethod, 0, len(r.transmitters))
	for m := range r.transmitters {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}
