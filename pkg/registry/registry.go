// Package registry maps string type ids to dedicated pools, supporting
// dynamic runtime registration of data-driven content. The same contract is
// instantiated independently for enemies, coins, projectiles and effects;
// nothing differs between them beyond the factory and the capacity numbers.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/riftlabs/cinder/pkg/errors"
	"github.com/riftlabs/cinder/pkg/pool"
)

// Registry manages typed pool registration and lookup. Registration and
// lookup take a lock because content may be registered while a level loads;
// the pools themselves remain owned by the game tick.
type Registry[T pool.Spawnable] struct {
	pools map[string]*pool.Pool[T]
	mu    sync.RWMutex
	log   *zap.Logger
}

// New creates an empty registry.
func New[T pool.Spawnable](log *zap.Logger) *Registry[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry[T]{
		pools: make(map[string]*pool.Pool[T]),
		log:   log.With(zap.String("component", "pool_registry")),
	}
}

// Register creates and stores a pool keyed by typeID. Registering an already
// known type id is a logged no-op that preserves the first registration's
// bounds. A factory or capacity problem is a configuration error; the
// registry stays usable for other types.
func (r *Registry[T]) Register(typeID string, factory pool.Factory[T], capacity pool.Capacity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pools[typeID]; exists {
		r.log.Warn("duplicate registration ignored", zap.String("type", typeID))
		return nil
	}

	p, err := pool.New(typeID, factory, capacity, r.log)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to register pool for "+typeID)
	}

	r.pools[typeID] = p
	r.log.Info("pool registered",
		zap.String("type", typeID),
		zap.Int("initial", capacity.Initial),
		zap.Int("max", capacity.Max))
	return nil
}

// Unregister clears the pool for typeID and removes it. Unknown type ids are
// a logged no-op.
func (r *Registry[T]) Unregister(typeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.pools[typeID]
	if !exists {
		r.log.Warn("unregister of unknown type", zap.String("type", typeID))
		return
	}
	p.Clear()
	delete(r.pools, typeID)
	r.log.Info("pool unregistered", zap.String("type", typeID))
}

// Acquire looks up the pool for typeID and acquires from it. An unknown type
// id is logged and yields the empty handle; exhaustion of a registered pool
// yields the empty handle without logging, as it is expected under load.
func (r *Registry[T]) Acquire(typeID string, at pool.Transform) (pool.Handle[T], bool) {
	r.mu.RLock()
	p, exists := r.pools[typeID]
	r.mu.RUnlock()

	if !exists {
		r.log.Warn("acquire for unregistered type", zap.String("type", typeID))
		return pool.Handle[T]{}, false
	}
	return p.Acquire(at)
}

// Release returns the instance to its owning pool, resolved through the
// reference the handle carries; no name matching is involved.
func (r *Registry[T]) Release(h pool.Handle[T]) {
	if h.IsZero() {
		r.log.Warn("release of empty handle")
		return
	}
	h.Release()
}

// IsRegistered reports whether typeID has a pool.
func (r *Registry[T]) IsRegistered(typeID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.pools[typeID]
	return exists
}

// ListTypes returns the registered type ids in sorted order.
func (r *Registry[T]) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.pools))
	for typeID := range r.pools {
		types = append(types, typeID)
	}
	sort.Strings(types)
	return types
}

// Pool returns the pool for typeID for direct access, such as prewarming
// diagnostics.
func (r *Registry[T]) Pool(typeID string) (*pool.Pool[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, exists := r.pools[typeID]
	return p, exists
}

// Clear clears every pool and removes all registrations. Used on scene or
// context teardown.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for typeID, p := range r.pools {
		p.Clear()
		delete(r.pools, typeID)
	}
}

// Debug returns occupancy snapshots for every registered pool, keyed by
// type id order.
func (r *Registry[T]) Debug() []pool.DebugInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]pool.DebugInfo, 0, len(r.pools))
	for _, typeID := range r.listLocked() {
		infos = append(infos, r.pools[typeID].Debug())
	}
	return infos
}

func (r *Registry[T]) listLocked() []string {
	types := make([]string, 0, len(r.pools))
	for typeID := range r.pools {
		types = append(types, typeID)
	}
	sort.Strings(types)
	return types
}
