// Package pool provides bounded, reusable object pooling for Cinder.
// A Pool owns a dense arena of instances of one resource type; callers hold
// opaque handles (index plus generation counter) instead of raw references,
// so stale or double releases are detected instead of corrupting pool state.
//
// Pools are used identically for enemies, coins, projectiles and visual
// effects; the only differences between them are the factory and the
// capacity numbers.
//
// Example usage:
//
//	p, err := pool.New("sparks", factory, pool.Capacity{Initial: 8, Max: 32}, logger)
//	if err != nil {
//	    return err
//	}
//	h, ok := p.Acquire(pool.Transform{Position: pool.Vec3{X: 10}})
//	if !ok {
//	    // pool exhausted; a normal outcome under load, not an error
//	}
//	p.Release(h)
//
// Pools are owned by the game tick: all mutation is expected from the single
// logical update goroutine. They are not safe for concurrent use.
package pool

import (
	"go.uber.org/zap"

	"github.com/riftlabs/cinder/pkg/errors"
)

// Spawnable is the capability a pooled instance must provide: it can be
// activated at a pose, deactivated, and returned to a neutral pose.
type Spawnable interface {
	// Activate makes the instance live at the given pose.
	Activate(at Transform)
	// Deactivate hides the instance without destroying it.
	Deactivate()
	// ResetTransform returns the instance to the neutral pose.
	ResetTransform()
}

// Factory creates and destroys pooled instances. Create is called during
// prewarm and lazy expansion; Destroy only when the owning pool is cleared.
type Factory[T Spawnable] interface {
	Create() (T, error)
	Destroy(T)
}

// FactoryFuncs adapts plain functions to the Factory interface.
type FactoryFuncs[T Spawnable] struct {
	CreateFn  func() (T, error)
	DestroyFn func(T)
}

// Create implements Factory.
func (f FactoryFuncs[T]) Create() (T, error) { return f.CreateFn() }

// Destroy implements Factory.
func (f FactoryFuncs[T]) Destroy(obj T) {
	if f.DestroyFn != nil {
		f.DestroyFn(obj)
	}
}

// Capacity describes pool bounds. Max of zero means unbounded growth when
// Expandable is set; a non-expandable pool never grows past Initial.
type Capacity struct {
	Initial    int  `yaml:"initial" json:"initial"`
	Max        int  `yaml:"max" json:"max"`
	Expandable bool `yaml:"expandable" json:"expandable"`
}

// DebugInfo is a snapshot of pool occupancy for diagnostics and metrics.
type DebugInfo struct {
	Name      string
	Available int
	Active    int
	Total     int
	Capacity  Capacity
	Closed    bool
}

type slot[T Spawnable] struct {
	instance   T
	generation uint32
	active     bool
}

// Pool is a fixed-or-expandable pool of reusable instances of one resource
// type. Instances cycle Available -> Active -> Available until the pool is
// cleared. Invariants: an instance is never in both states, and the total
// never exceeds Capacity.Max when bounded.
type Pool[T Spawnable] struct {
	name    string
	factory Factory[T]
	cap     Capacity

	slots     []slot[T]
	available []uint32
	active    int
	closed    bool

	log *zap.Logger
}

// Handle is an opaque, stable reference to a pooled instance. It carries its
// owning pool, so release never needs name matching or registry lookups. The
// zero Handle is "empty" and is what failed acquisitions return.
type Handle[T Spawnable] struct {
	pool       *Pool[T]
	index      uint32
	generation uint32
}

// IsZero reports whether h is the empty handle.
func (h Handle[T]) IsZero() bool { return h.pool == nil }

// Instance returns the referenced instance, or false if the handle is empty
// or stale (the instance was released since the handle was obtained).
func (h Handle[T]) Instance() (T, bool) {
	var zero T
	if h.pool == nil || int(h.index) >= len(h.pool.slots) {
		return zero, false
	}
	s := &h.pool.slots[h.index]
	if !s.active || s.generation != h.generation {
		return zero, false
	}
	return s.instance, true
}

// Release returns the instance to its owning pool. Equivalent to calling
// Release on the pool that produced the handle.
func (h Handle[T]) Release() {
	if h.pool != nil {
		h.pool.Release(h)
	}
}

// New constructs a pool and pre-creates cap.Initial instances, each
// deactivated. A nil factory or inconsistent capacity is a configuration
// error; instances created before a prewarm failure are destroyed again.
func New[T Spawnable](name string, factory Factory[T], capacity Capacity, log *zap.Logger) (*Pool[T], error) {
	if factory == nil {
		return nil, errors.Newf(errors.ErrorTypeConfiguration, "pool %s: nil factory", name)
	}
	if capacity.Initial < 0 || capacity.Max < 0 {
		return nil, errors.Newf(errors.ErrorTypeConfiguration, "pool %s: negative capacity", name)
	}
	if capacity.Max > 0 && capacity.Initial > capacity.Max {
		return nil, errors.Newf(errors.ErrorTypeConfiguration,
			"pool %s: initial size %d exceeds max %d", name, capacity.Initial, capacity.Max)
	}
	if log == nil {
		log = zap.NewNop()
	}

	p := &Pool[T]{
		name:      name,
		factory:   factory,
		cap:       capacity,
		slots:     make([]slot[T], 0, capacity.Initial),
		available: make([]uint32, 0, capacity.Initial),
		log:       log.With(zap.String("pool", name)),
	}

	for i := 0; i < capacity.Initial; i++ {
		inst, err := factory.Create()
		if err != nil {
			for _, s := range p.slots {
				factory.Destroy(s.instance)
			}
			return nil, errors.Wrap(err, errors.ErrorTypeConfiguration,
				"pool "+name+": prewarm failed")
		}
		inst.Deactivate()
		p.slots = append(p.slots, slot[T]{instance: inst})
		p.available = append(p.available, uint32(i))
	}

	return p, nil
}

// Name returns the pool's name.
func (p *Pool[T]) Name() string { return p.name }

// Acquire pops an available instance, or lazily creates one when the pool is
// expandable and under its bound. The instance is activated at the given
// pose. Exhaustion is a normal outcome: the empty handle and false are
// returned, and callers decide fallback behavior.
func (p *Pool[T]) Acquire(at Transform) (Handle[T], bool) {
	if p.closed {
		p.log.Warn("acquire on cleared pool")
		return Handle[T]{}, false
	}

	var idx uint32
	if n := len(p.available); n > 0 {
		idx = p.available[n-1]
		p.available = p.available[:n-1]
	} else {
		if !p.cap.Expandable || (p.cap.Max > 0 && len(p.slots) >= p.cap.Max) {
			return Handle[T]{}, false
		}
		inst, err := p.factory.Create()
		if err != nil {
			p.log.Warn("lazy expansion failed", zap.Error(err))
			return Handle[T]{}, false
		}
		p.slots = append(p.slots, slot[T]{instance: inst})
		idx = uint32(len(p.slots) - 1)
	}

	s := &p.slots[idx]
	s.active = true
	p.active++
	s.instance.Activate(at)

	return Handle[T]{pool: p, index: idx, generation: s.generation}, true
}

// Release deactivates the instance, resets it to the neutral pose and
// returns it to the available queue. Releasing an empty, stale or already
// released handle is a logged no-op; it never corrupts pool state.
func (p *Pool[T]) Release(h Handle[T]) {
	if p.closed {
		p.log.Warn("release on cleared pool")
		return
	}
	if h.pool != p {
		p.log.Warn("release of handle owned by another pool")
		return
	}
	if int(h.index) >= len(p.slots) {
		p.log.Warn("release of out-of-range handle", zap.Uint32("index", h.index))
		return
	}

	s := &p.slots[h.index]
	if !s.active || s.generation != h.generation {
		p.log.Warn("double or stale release ignored",
			zap.Uint32("index", h.index),
			zap.Uint32("generation", h.generation))
		return
	}

	s.instance.Deactivate()
	s.instance.ResetTransform()
	s.active = false
	s.generation++
	p.active--
	p.available = append(p.available, h.index)
}

// ReleaseAll releases every active instance. Iteration works on a snapshot
// of the active set so releases do not invalidate it mid-walk.
func (p *Pool[T]) ReleaseAll() {
	if p.closed {
		return
	}
	handles := make([]Handle[T], 0, p.active)
	for i := range p.slots {
		if p.slots[i].active {
			handles = append(handles, Handle[T]{
				pool:       p,
				index:      uint32(i),
				generation: p.slots[i].generation,
			})
		}
	}
	for _, h := range handles {
		p.Release(h)
	}
}

// Clear destroys every instance, active and available, and empties both
// collections. The pool is unusable afterwards until reconstructed.
func (p *Pool[T]) Clear() {
	if p.closed {
		return
	}
	for i := range p.slots {
		p.factory.Destroy(p.slots[i].instance)
	}
	p.slots = nil
	p.available = nil
	p.active = 0
	p.closed = true
}

// Debug returns a snapshot of pool occupancy.
func (p *Pool[T]) Debug() DebugInfo {
	return DebugInfo{
		Name:      p.name,
		Available: len(p.available),
		Active:    p.active,
		Total:     len(p.slots),
		Capacity:  p.cap,
		Closed:    p.closed,
	}
}
