// Package scheduler orchestrates acquisition of pooled effect instances
// under a global performance budget, priority tiers, distance LOD, per-type
// rate limiting and automatic timed release.
//
// The scheduler is single-threaded and frame-tick driven: game code calls
// Play/Stop from the update loop and advances time with Update(dt).
// Deferred work (auto-release, delayed audio, multi-phase continuations)
// lives on an internal timer queue resumed by Update, not on goroutines.
//
// State machine per effect instance:
//
//	Pooled -> Active -> (AutoReleasePending | ManualStop) -> Pooled
//
// The two release paths are mutually exclusive: an explicit Stop cancels the
// pending auto-release timer, and a handle is never returned to its pool
// while an active record still references it.
package scheduler

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/riftlabs/cinder/pkg/audio"
	"github.com/riftlabs/cinder/pkg/descriptor"
	"github.com/riftlabs/cinder/pkg/errors"
	"github.com/riftlabs/cinder/pkg/events"
	"github.com/riftlabs/cinder/pkg/metrics"
	"github.com/riftlabs/cinder/pkg/pool"
	"github.com/riftlabs/cinder/pkg/registry"
)

// Handle references an active or pooled effect instance.
type Handle = pool.Handle[Effect]

// Config carries the scheduler's tunables.
type Config struct {
	// MaxBudget is the ceiling on total particle cost of simultaneously
	// active effects.
	MaxBudget int `yaml:"max_budget" json:"max_budget"`
	// ReleaseBuffer is the fixed slack in seconds added to every
	// auto-release timer on top of duration plus particle lifetime.
	ReleaseBuffer float64 `yaml:"release_buffer" json:"release_buffer"`
}

// Collaborators are the scheduler's external interfaces. Viewer, Audio and
// Bus are optional: distance LOD, audio sync and event notification are
// disabled when the corresponding field is nil.
type Collaborators struct {
	Viewer ViewerProvider
	Audio  audio.Bridge
	Bus    *events.Bus
	Logger *zap.Logger
}

type activeRecord struct {
	handle     Handle
	typeID     string
	admittedAt float64
	cost       int

	releaseToken  TimerToken // auto-release timer, zero for looping effects
	continuations []TimerToken
}

// Scheduler performs admission control and lifecycle management for pooled
// effects. Construct with New; the zero value is not usable.
type Scheduler struct {
	cfg     Config
	library *descriptor.Library
	pools   *registry.Registry[Effect]

	budget *budget
	timers *timerQueue
	active map[Handle]*activeRecord

	limiters map[string]*rate.Limiter
	// epoch anchors the frame clock to an arbitrary absolute time so rate
	// limiters consume game time, never the wall clock.
	epoch time.Time

	viewer ViewerProvider
	audio  audio.Bridge
	bus    *events.Bus
	log    *zap.Logger
}

// New validates collaborators and builds a scheduler. A nil library or
// registry, a non-positive budget, or a dangling phase reference is a
// configuration error reported here, once, at startup.
func New(cfg Config, library *descriptor.Library, pools *registry.Registry[Effect], collab Collaborators) (*Scheduler, error) {
	if library == nil {
		return nil, errors.New(errors.ErrorTypeConfiguration, "scheduler: nil descriptor library")
	}
	if pools == nil {
		return nil, errors.New(errors.ErrorTypeConfiguration, "scheduler: nil pool registry")
	}
	if cfg.MaxBudget <= 0 {
		return nil, errors.Newf(errors.ErrorTypeConfiguration,
			"scheduler: max budget must be positive, got %d", cfg.MaxBudget)
	}
	if cfg.ReleaseBuffer < 0 {
		return nil, errors.New(errors.ErrorTypeConfiguration, "scheduler: negative release buffer")
	}
	if err := library.Validate(); err != nil {
		return nil, err
	}

	log := collab.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "effect_scheduler"))

	return &Scheduler{
		cfg:      cfg,
		library:  library,
		pools:    pools,
		budget:   newBudget(cfg.MaxBudget, log),
		timers:   newTimerQueue(),
		active:   make(map[Handle]*activeRecord),
		limiters: make(map[string]*rate.Limiter),
		epoch:    time.Unix(0, 0),
		viewer:   collab.Viewer,
		audio:    collab.Audio,
		bus:      collab.Bus,
		log:      log,
	}, nil
}

// RegisterFactory registers an effect pool for typeID using the pool bounds
// carried by its descriptor.
func (s *Scheduler) RegisterFactory(typeID string, factory pool.Factory[Effect]) error {
	desc, ok := s.library.Get(typeID)
	if !ok {
		return errors.Newf(errors.ErrorTypeNotRegistered,
			"no descriptor for effect type %q", typeID)
	}
	return s.pools.Register(typeID, factory, desc.Pool)
}

// Update advances the frame clock by dt seconds, fires due continuations
// and refreshes observability gauges. Call once per game tick.
func (s *Scheduler) Update(dt float64) {
	s.timers.Advance(dt)

	metrics.BudgetCost.Set(float64(s.budget.Current()))
	metrics.ActiveEffects.Set(float64(len(s.active)))
	for _, info := range s.pools.Debug() {
		metrics.PoolAvailable.WithLabelValues(info.Name).Set(float64(info.Available))
		metrics.PoolActive.WithLabelValues(info.Name).Set(float64(info.Active))
	}
}

// Clock returns the scheduler's frame time in seconds.
func (s *Scheduler) Clock() float64 { return s.timers.Now() }

// GetActiveCost returns the current total particle cost.
func (s *Scheduler) GetActiveCost() int { return s.budget.Current() }

// GetActiveCount returns the number of active effect instances.
func (s *Scheduler) GetActiveCount() int { return len(s.active) }

type playOptions struct {
	color  *Color
	follow TransformProvider
}

// Play requests an effect of typeID at the given pose. The empty handle
// means the play was rejected or the pool exhausted; both are expected
// under load and never fatal.
func (s *Scheduler) Play(typeID string, at pool.Transform) (Handle, bool) {
	return s.play(typeID, at, playOptions{})
}

// PlayWithColorOverride plays an effect with its tint overridden for this
// activation. Instances without the capability play untinted.
func (s *Scheduler) PlayWithColorOverride(typeID string, at pool.Transform, c Color) (Handle, bool) {
	return s.play(typeID, at, playOptions{color: &c})
}

// PlayAttached plays an effect following a moving target for its active
// lifetime. The spawn pose is the target's current pose.
func (s *Scheduler) PlayAttached(typeID string, target TransformProvider) (Handle, bool) {
	if target == nil {
		s.log.Warn("attached play without target", zap.String("type", typeID))
		return Handle{}, false
	}
	return s.play(typeID, target.CurrentTransform(), playOptions{follow: target})
}

func (s *Scheduler) play(typeID string, at pool.Transform, opts playOptions) (Handle, bool) {
	desc, ok := s.library.Get(typeID)
	if !ok {
		s.log.Warn("play of unregistered effect type", zap.String("type", typeID))
		s.reject(typeID, events.ReasonNotRegistered)
		return Handle{}, false
	}

	// Critical effects bypass every advisory check. Pool exhaustion below
	// still blocks them; there is nothing to play without an instance.
	if desc.Priority != descriptor.PriorityCritical {
		if desc.RateLimit != nil && !s.limiter(typeID, desc.RateLimit).AllowN(s.frameTime(), 1) {
			s.reject(typeID, events.ReasonRateLimited)
			return Handle{}, false
		}

		if desc.MaxDistance > 0 && s.viewer != nil {
			if viewerPos, haveViewer := s.viewer.ViewerPosition(); haveViewer {
				if dist := viewerPos.DistanceTo(at.Position); dist > desc.MaxDistance {
					s.reject(typeID, events.ReasonDistance)
					return Handle{}, false
				}
			}
		}

		if desc.Priority < descriptor.PriorityHigh && !s.budget.CanAfford(desc.ParticleBudget) {
			s.reject(typeID, events.ReasonBudget)
			return Handle{}, false
		}
	}

	h, ok := s.pools.Acquire(typeID, at)
	if !ok {
		s.log.Warn("effect pool exhausted", zap.String("type", typeID))
		metrics.Rejections.WithLabelValues(typeID, string(events.ReasonPoolExhausted)).Inc()
		s.dispatch(events.Event{Type: events.PoolExhausted, Data: events.EffectPayload{TypeID: typeID}})
		s.dispatch(events.Event{Type: events.EffectRejected, Data: events.EffectPayload{
			TypeID: typeID,
			Reason: events.ReasonPoolExhausted,
		}})
		return Handle{}, false
	}

	inst, _ := h.Instance()

	if opts.color != nil {
		if tintable, ok := inst.(ColorOverridable); ok {
			tintable.SetColor(*opts.color)
		} else {
			s.log.Warn("color override on effect without tint capability",
				zap.String("type", typeID))
		}
	}
	if opts.follow != nil {
		if attachable, ok := inst.(Attachable); ok {
			attachable.Attach(opts.follow)
		} else {
			s.log.Warn("attached play on effect without follow capability",
				zap.String("type", typeID))
		}
	}

	cost := inst.ParticleCapacity()
	s.budget.Charge(cost)

	rec := &activeRecord{
		handle:     h,
		typeID:     typeID,
		admittedAt: s.timers.Now(),
		cost:       cost,
	}

	if a := desc.Audio; a != nil && s.audio != nil {
		if a.Delay > 0 {
			clip, volume := a.Clip, a.Volume
			token := s.timers.Schedule(a.Delay, func() {
				s.audio.PlayClip(clip, volume)
			})
			rec.continuations = append(rec.continuations, token)
		} else {
			s.audio.PlayClip(a.Clip, a.Volume)
		}
	}

	for _, ph := range desc.Phases {
		phaseType := ph.Type
		token := s.timers.Schedule(ph.Delay, func() {
			s.Play(phaseType, at)
		})
		rec.continuations = append(rec.continuations, token)
	}

	if !inst.Looping() {
		delay := inst.Duration() + inst.MaxParticleLifetime() + s.cfg.ReleaseBuffer
		rec.releaseToken = s.timers.Schedule(delay, func() {
			s.autoRelease(h)
		})
	}

	s.active[h] = rec

	metrics.Admissions.WithLabelValues(typeID, desc.Priority.String()).Inc()
	s.dispatch(events.Event{Type: events.EffectAdmitted, Data: events.EffectPayload{
		TypeID: typeID,
		Cost:   cost,
	}})

	return h, true
}

// Stop cancels any pending auto-release and continuations, refunds the
// recorded cost and returns the instance to its pool. Stopping an already
// released handle is a logged no-op.
func (s *Scheduler) Stop(h Handle) {
	rec, ok := s.active[h]
	if !ok {
		s.log.Warn("stop of inactive effect handle")
		return
	}

	if rec.releaseToken != 0 {
		s.timers.Cancel(rec.releaseToken)
	}
	for _, token := range rec.continuations {
		s.timers.Cancel(token)
	}
	s.release(rec)

	s.dispatch(events.Event{Type: events.EffectStopped, Data: events.EffectPayload{
		TypeID: rec.typeID,
		Cost:   rec.cost,
	}})
}

// StopAllOfType stops every active effect of the given type.
func (s *Scheduler) StopAllOfType(typeID string) {
	handles := make([]Handle, 0, len(s.active))
	for h, rec := range s.active {
		if rec.typeID == typeID {
			handles = append(handles, h)
		}
	}
	for _, h := range handles {
		s.Stop(h)
	}
}

// ClearAll cancels every pending timer, releases every active instance and
// resets the budget to zero. Used on scene or context teardown.
func (s *Scheduler) ClearAll() {
	s.timers.Reset()
	for h, rec := range s.active {
		s.detach(rec)
		s.pools.Release(h)
		delete(s.active, h)
	}
	s.budget.Reset()
	metrics.BudgetCost.Set(0)
	metrics.ActiveEffects.Set(0)
	s.log.Info("scheduler cleared")
}

// autoRelease is the timer-driven path back to the pool. It and Stop are
// mutually exclusive: Stop cancels the timer, and a fired timer removes the
// record before Stop could find it. Unfired continuations are left alone:
// natural expiry is not a cancellation, so a phase whose delay outlives the
// parent still fires.
func (s *Scheduler) autoRelease(h Handle) {
	rec, ok := s.active[h]
	if !ok {
		return
	}
	s.release(rec)

	metrics.AutoReleases.WithLabelValues(rec.typeID).Inc()
	s.dispatch(events.Event{Type: events.EffectAutoReleased, Data: events.EffectPayload{
		TypeID: rec.typeID,
		Cost:   rec.cost,
	}})
}

func (s *Scheduler) release(rec *activeRecord) {
	s.detach(rec)
	s.budget.Refund(rec.cost)
	delete(s.active, rec.handle)
	s.pools.Release(rec.handle)
}

func (s *Scheduler) detach(rec *activeRecord) {
	if inst, ok := rec.handle.Instance(); ok {
		if attachable, ok := inst.(Attachable); ok {
			attachable.Detach()
		}
	}
}

// frameTime converts the current frame clock to the absolute time scale the
// rate limiters run on. Identical play/Update sequences see identical
// limiter decisions regardless of host speed.
func (s *Scheduler) frameTime() time.Time {
	return s.epoch.Add(time.Duration(s.timers.Now() * float64(time.Second)))
}

func (s *Scheduler) limiter(typeID string, rl *descriptor.RateLimit) *rate.Limiter {
	lim, ok := s.limiters[typeID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(rl.PerSecond), rl.Burst)
		s.limiters[typeID] = lim
	}
	return lim
}

func (s *Scheduler) reject(typeID string, reason events.RejectionReason) {
	metrics.Rejections.WithLabelValues(typeID, string(reason)).Inc()
	s.dispatch(events.Event{Type: events.EffectRejected, Data: events.EffectPayload{
		TypeID: typeID,
		Reason: reason,
	}})
}

func (s *Scheduler) dispatch(event events.Event) {
	if s.bus != nil {
		s.bus.Dispatch(event)
	}
}
