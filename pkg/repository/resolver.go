// Package repository routes external item identifiers to the backend that
// stores the item.
package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/umd-lib/iiif/pkg/itemid"
	"github.com/umd-lib/iiif/pkg/presentation"
)

// Backend creates items for one identifier prefix.
type Backend interface {
	// Provider is the identifier prefix this backend serves.
	Provider() itemid.ProviderType

	// NewItem returns an item for id. It performs no I/O: the backing
	// document is fetched on first use.
	NewItem(id itemid.ItemID) (presentation.Item, error)
}

// Resolver maps identifier prefixes to backends. It is safe for concurrent
// use.
type Resolver struct {
	backends map[itemid.ProviderType]Backend
	mu       sync.RWMutex
	logger   hclog.Logger
}

// NewResolver creates an empty resolver.
func NewResolver(logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{
		backends: make(map[itemid.ProviderType]Backend),
		logger:   logger.Named("resolver"),
	}
}

// Register adds a backend. Each prefix can be registered once.
func (r *Resolver) Register(b Backend) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	provider := b.Provider()
	if !provider.IsValid() {
		return fmt.Errorf("invalid provider type: %s", provider)
	}
	if _, exists := r.backends[provider]; exists {
		return fmt.Errorf("backend %s already registered", provider)
	}
	r.backends[provider] = b

	r.logger.Info("backend registered", "provider", provider)
	return nil
}

// Backend returns the backend registered for provider.
func (r *Resolver) Backend(provider itemid.ProviderType) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.backends[provider]
	if !ok {
		return nil, &presentation.Error{
			Op:  "Resolve",
			Err: presentation.ErrInvalidID,
			Msg: fmt.Sprintf("no backend for prefix %q", provider),
		}
	}
	return b, nil
}

// Providers returns the registered prefixes in sorted order.
func (r *Resolver) Providers() []itemid.ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]itemid.ProviderType, 0, len(r.backends))
	for p := range r.backends {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// Resolve parses an external identifier and creates the item it names.
// Malformed identifiers and unknown prefixes yield ErrInvalidID.
func (r *Resolver) Resolve(id string) (presentation.Item, error) {
	parsed, err := itemid.Parse(id)
	if err != nil {
		return nil, &presentation.Error{Op: "Resolve", Err: presentation.ErrInvalidID, Msg: err.Error()}
	}

	b, err := r.Backend(parsed.Provider())
	if err != nil {
		return nil, err
	}

	item, err := b.NewItem(parsed)
	if err != nil {
		if errors.Is(err, presentation.ErrInvalidID) {
			return nil, err
		}
		return nil, &presentation.Error{Op: "Resolve", Err: presentation.ErrInvalidID, Msg: err.Error()}
	}

	r.logger.Trace("item resolved", "id", id, "provider", parsed.Provider())
	return item, nil
}
