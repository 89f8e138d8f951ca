package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftlabs/cinder/pkg/descriptor"
	"github.com/riftlabs/cinder/pkg/events"
	"github.com/riftlabs/cinder/pkg/pool"
	"github.com/riftlabs/cinder/pkg/registry"
)

// testEffect is a minimal Effect with configurable cost and lifetime facts.
type testEffect struct {
	cost     int
	looping  bool
	duration float64
	lifetime float64

	active bool
	pose   pool.Transform
	tint   Color
	target TransformProvider
}

func (e *testEffect) Activate(at pool.Transform) { e.active = true; e.pose = at }
func (e *testEffect) Deactivate()                { e.active = false }
func (e *testEffect) ResetTransform()            { e.pose = pool.Transform{} }
func (e *testEffect) ParticleCapacity() int      { return e.cost }
func (e *testEffect) Looping() bool              { return e.looping }
func (e *testEffect) Duration() float64          { return e.duration }
func (e *testEffect) MaxParticleLifetime() float64 {
	return e.lifetime
}
func (e *testEffect) SetColor(c Color)               { e.tint = c }
func (e *testEffect) Attach(target TransformProvider) { e.target = target }
func (e *testEffect) Detach()                         { e.target = nil }

type effectDef struct {
	desc     descriptor.Descriptor
	cost     int
	looping  bool
	duration float64
	lifetime float64
}

// eventRecorder captures every dispatched event in order.
type eventRecorder struct {
	events []events.Event
}

func (r *eventRecorder) OnEvent(event events.Event) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) countByType(et events.EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == et {
			n++
		}
	}
	return n
}

func (r *eventRecorder) lastRejection() (events.RejectionReason, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == events.EffectRejected {
			payload := r.events[i].Data.(events.EffectPayload)
			return payload.Reason, true
		}
	}
	return "", false
}

type clipPlay struct {
	clip   string
	volume float64
}

// clipRecorder is an audio bridge that records triggers.
type clipRecorder struct {
	plays []clipPlay
}

func (r *clipRecorder) PlayClip(clip string, volume float64) {
	r.plays = append(r.plays, clipPlay{clip: clip, volume: volume})
}

type testViewer struct {
	pos  pool.Vec3
	gone bool
}

func (v *testViewer) ViewerPosition() (pool.Vec3, bool) {
	return v.pos, !v.gone
}

type testRig struct {
	sched  *Scheduler
	pools  *registry.Registry[Effect]
	rec    *eventRecorder
	audio  *clipRecorder
	viewer *testViewer
}

func newTestRig(t *testing.T, cfg Config, defs ...effectDef) *testRig {
	t.Helper()

	lib := descriptor.NewLibrary(nil)
	for _, def := range defs {
		require.NoError(t, lib.Add(def.desc))
	}

	pools := registry.New[Effect](nil)
	bus := events.NewBus()
	rec := &eventRecorder{}
	for _, et := range []events.EventType{
		events.EffectAdmitted, events.EffectRejected, events.EffectStopped,
		events.EffectAutoReleased, events.PoolExhausted,
	} {
		bus.Subscribe(et, rec)
	}

	audioRec := &clipRecorder{}
	viewer := &testViewer{}

	sched, err := New(cfg, lib, pools, Collaborators{
		Viewer: viewer,
		Audio:  audioRec,
		Bus:    bus,
	})
	require.NoError(t, err)

	for _, def := range defs {
		def := def
		factory := pool.FactoryFuncs[Effect]{
			CreateFn: func() (Effect, error) {
				return &testEffect{
					cost:     def.cost,
					looping:  def.looping,
					duration: def.duration,
					lifetime: def.lifetime,
				}, nil
			},
		}
		require.NoError(t, sched.RegisterFactory(def.desc.Type, factory))
	}

	return &testRig{sched: sched, pools: pools, rec: rec, audio: audioRec, viewer: viewer}
}

func simpleDef(typeID string, priority descriptor.Priority, cost int) effectDef {
	return effectDef{
		desc: descriptor.Descriptor{
			Type:           typeID,
			Priority:       priority,
			Pool:           pool.Capacity{Initial: 4, Max: 8},
			ParticleBudget: cost,
		},
		cost:     cost,
		duration: 1.0,
		lifetime: 0.5,
	}
}

func TestNewValidation(t *testing.T) {
	lib := descriptor.NewLibrary(nil)
	pools := registry.New[Effect](nil)

	t.Run("nil library", func(t *testing.T) {
		_, err := New(Config{MaxBudget: 100}, nil, pools, Collaborators{})
		assert.Error(t, err)
	})

	t.Run("nil registry", func(t *testing.T) {
		_, err := New(Config{MaxBudget: 100}, lib, nil, Collaborators{})
		assert.Error(t, err)
	})

	t.Run("non-positive budget", func(t *testing.T) {
		_, err := New(Config{MaxBudget: 0}, lib, pools, Collaborators{})
		assert.Error(t, err)
	})

	t.Run("negative release buffer", func(t *testing.T) {
		_, err := New(Config{MaxBudget: 100, ReleaseBuffer: -1}, lib, pools, Collaborators{})
		assert.Error(t, err)
	})

	t.Run("dangling phase reference", func(t *testing.T) {
		broken := descriptor.NewLibrary(nil)
		require.NoError(t, broken.Add(descriptor.Descriptor{
			Type:   "parent",
			Phases: []descriptor.Phase{{Type: "missing", Delay: 0.1}},
		}))
		_, err := New(Config{MaxBudget: 100}, broken, pools, Collaborators{})
		assert.Error(t, err)
	})
}

func TestBudgetAdmission(t *testing.T) {
	// Ceiling of 50: a 40-cost effect is admitted, a further 20-cost medium
	// effect is rejected, and a 20-cost critical effect is admitted past the
	// ceiling.
	rig := newTestRig(t, Config{MaxBudget: 50, ReleaseBuffer: 0.1},
		simpleDef("heavy", descriptor.PriorityMedium, 40),
		simpleDef("light", descriptor.PriorityMedium, 20),
		simpleDef("vital", descriptor.PriorityCritical, 20),
	)

	_, ok := rig.sched.Play("heavy", pool.Transform{})
	require.True(t, ok)
	assert.Equal(t, 40, rig.sched.GetActiveCost())

	_, ok = rig.sched.Play("light", pool.Transform{})
	assert.False(t, ok)
	reason, found := rig.rec.lastRejection()
	require.True(t, found)
	assert.Equal(t, events.ReasonBudget, reason)
	assert.Equal(t, 40, rig.sched.GetActiveCost(), "rejected play must not charge the budget")

	_, ok = rig.sched.Play("vital", pool.Transform{})
	require.True(t, ok, "critical effects bypass the budget check")
	assert.Equal(t, 60, rig.sched.GetActiveCost())
}

func TestHighPriorityBypassesBudgetOnly(t *testing.T) {
	rig := newTestRig(t, Config{MaxBudget: 50, ReleaseBuffer: 0.1},
		simpleDef("heavy", descriptor.PriorityMedium, 40),
		effectDef{
			desc: descriptor.Descriptor{
				Type:           "boss_hit",
				Priority:       descriptor.PriorityHigh,
				Pool:           pool.Capacity{Initial: 2, Max: 2},
				MaxDistance:    30,
				ParticleBudget: 30,
			},
			cost: 30, duration: 1.0, lifetime: 0.5,
		},
	)

	_, ok := rig.sched.Play("heavy", pool.Transform{})
	require.True(t, ok)

	// Over budget, but High skips the budget check.
	_, ok = rig.sched.Play("boss_hit", pool.Transform{})
	require.True(t, ok)
	assert.Equal(t, 70, rig.sched.GetActiveCost())

	// Distance still applies to High.
	_, ok = rig.sched.Play("boss_hit", pool.Transform{Position: pool.Vec3{X: 100}})
	assert.False(t, ok)
	reason, found := rig.rec.lastRejection()
	require.True(t, found)
	assert.Equal(t, events.ReasonDistance, reason)
}

func TestDistanceCulling(t *testing.T) {
	lowDef := effectDef{
		desc: descriptor.Descriptor{
			Type:           "ambience",
			Priority:       descriptor.PriorityLow,
			Pool:           pool.Capacity{Initial: 2, Max: 2},
			MaxDistance:    30,
			ParticleBudget: 10,
		},
		cost: 10, duration: 1.0, lifetime: 0.5,
	}
	critDef := effectDef{
		desc: descriptor.Descriptor{
			Type:           "objective",
			Priority:       descriptor.PriorityCritical,
			Pool:           pool.Capacity{Initial: 2, Max: 2},
			MaxDistance:    30,
			ParticleBudget: 10,
		},
		cost: 10, duration: 1.0, lifetime: 0.5,
	}

	t.Run("low beyond cutoff rejected, critical admitted", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 1000}, lowDef, critDef)
		far := pool.Transform{Position: pool.Vec3{X: 40}}

		_, ok := rig.sched.Play("ambience", far)
		assert.False(t, ok)
		reason, found := rig.rec.lastRejection()
		require.True(t, found)
		assert.Equal(t, events.ReasonDistance, reason)

		_, ok = rig.sched.Play("objective", far)
		assert.True(t, ok, "critical effects ignore distance culling")
	})

	t.Run("within cutoff admitted", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 1000}, lowDef, critDef)
		_, ok := rig.sched.Play("ambience", pool.Transform{Position: pool.Vec3{X: 29.9}})
		assert.True(t, ok)
	})

	t.Run("no viewer disables culling", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 1000}, lowDef, critDef)
		rig.viewer.gone = true
		_, ok := rig.sched.Play("ambience", pool.Transform{Position: pool.Vec3{X: 500}})
		assert.True(t, ok)
	})

	t.Run("zero max distance means unlimited", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 1000},
			simpleDef("anywhere", descriptor.PriorityLow, 10))
		_, ok := rig.sched.Play("anywhere", pool.Transform{Position: pool.Vec3{X: 10000}})
		assert.True(t, ok)
	})
}

func TestAutoRelease(t *testing.T) {
	// Duration 1.0 + lifetime 0.5 + buffer 0.1: release fires at t=1.6.
	rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1},
		simpleDef("burst", descriptor.PriorityMedium, 30))

	h, ok := rig.sched.Play("burst", pool.Transform{})
	require.True(t, ok)

	rig.sched.Update(1.55)
	assert.Equal(t, 1, rig.sched.GetActiveCount(), "still active just before the deadline")
	assert.Equal(t, 30, rig.sched.GetActiveCost())

	rig.sched.Update(0.1)
	assert.Zero(t, rig.sched.GetActiveCount())
	assert.Zero(t, rig.sched.GetActiveCost(), "auto-release must refund the cost")
	assert.Equal(t, 1, rig.rec.countByType(events.EffectAutoReleased))

	_, live := h.Instance()
	assert.False(t, live, "instance is back in the pool")
	info := rig.pools.Debug()[0]
	assert.Equal(t, 0, info.Active)
}

func TestStop(t *testing.T) {
	t.Run("early stop refunds and cancels auto-release", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1},
			simpleDef("burst", descriptor.PriorityMedium, 30))

		h, ok := rig.sched.Play("burst", pool.Transform{})
		require.True(t, ok)

		rig.sched.Update(0.5)
		rig.sched.Stop(h)

		assert.Zero(t, rig.sched.GetActiveCost())
		assert.Zero(t, rig.sched.GetActiveCount())
		assert.Equal(t, 1, rig.rec.countByType(events.EffectStopped))

		// Past the original deadline: the cancelled timer must not fire.
		rig.sched.Update(5.0)
		assert.Zero(t, rig.rec.countByType(events.EffectAutoReleased))
		assert.Zero(t, rig.sched.GetActiveCost(), "budget must stay non-negative")
	})

	t.Run("stop twice is a no-op", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1},
			simpleDef("burst", descriptor.PriorityMedium, 30))

		h, _ := rig.sched.Play("burst", pool.Transform{})
		rig.sched.Stop(h)
		rig.sched.Stop(h)

		assert.Zero(t, rig.sched.GetActiveCost())
		assert.Equal(t, 1, rig.rec.countByType(events.EffectStopped))
	})

	t.Run("stop after auto-release is a no-op", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1},
			simpleDef("burst", descriptor.PriorityMedium, 30))

		h, _ := rig.sched.Play("burst", pool.Transform{})
		rig.sched.Update(2.0)
		require.Equal(t, 1, rig.rec.countByType(events.EffectAutoReleased))

		rig.sched.Stop(h)
		assert.Zero(t, rig.sched.GetActiveCost())
		assert.Zero(t, rig.rec.countByType(events.EffectStopped))
	})
}

func TestLoopingEffects(t *testing.T) {
	rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1},
		effectDef{
			desc: descriptor.Descriptor{
				Type:           "aura",
				Priority:       descriptor.PriorityMedium,
				Pool:           pool.Capacity{Initial: 1, Max: 1},
				ParticleBudget: 10,
			},
			cost: 10, looping: true, duration: 0.5, lifetime: 0.2,
		})

	h, ok := rig.sched.Play("aura", pool.Transform{})
	require.True(t, ok)

	rig.sched.Update(60.0)
	assert.Equal(t, 1, rig.sched.GetActiveCount(), "looping effects never auto-release")

	rig.sched.Stop(h)
	assert.Zero(t, rig.sched.GetActiveCount())
}

func TestPoolExhaustion(t *testing.T) {
	rig := newTestRig(t, Config{MaxBudget: 1000, ReleaseBuffer: 0.1},
		effectDef{
			desc: descriptor.Descriptor{
				Type:           "finisher",
				Priority:       descriptor.PriorityCritical,
				Pool:           pool.Capacity{Initial: 1, Max: 1},
				ParticleBudget: 10,
			},
			cost: 10, duration: 1.0, lifetime: 0.5,
		})

	_, ok := rig.sched.Play("finisher", pool.Transform{})
	require.True(t, ok)

	// Even critical effects hard-block on an empty pool.
	_, ok = rig.sched.Play("finisher", pool.Transform{})
	assert.False(t, ok)
	assert.Equal(t, 1, rig.rec.countByType(events.PoolExhausted))
	reason, found := rig.rec.lastRejection()
	require.True(t, found)
	assert.Equal(t, events.ReasonPoolExhausted, reason)
	assert.Equal(t, 10, rig.sched.GetActiveCost(), "failed acquire must not charge")
}

func TestRateLimiting(t *testing.T) {
	def := effectDef{
		desc: descriptor.Descriptor{
			Type:           "footstep",
			Priority:       descriptor.PriorityLow,
			Pool:           pool.Capacity{Initial: 8, Max: 8},
			ParticleBudget: 1,
			RateLimit:      &descriptor.RateLimit{PerSecond: 1, Burst: 2},
		},
		cost: 1, duration: 0.1, lifetime: 0.1,
	}
	rig := newTestRig(t, Config{MaxBudget: 1000}, def)

	// Burst of two passes, the third is suppressed.
	_, ok := rig.sched.Play("footstep", pool.Transform{})
	require.True(t, ok)
	_, ok = rig.sched.Play("footstep", pool.Transform{})
	require.True(t, ok)
	_, ok = rig.sched.Play("footstep", pool.Transform{})
	assert.False(t, ok)
	reason, found := rig.rec.lastRejection()
	require.True(t, found)
	assert.Equal(t, events.ReasonRateLimited, reason)
}

func TestRateLimitRefillsOnFrameClock(t *testing.T) {
	// The limiter consumes game time: one play per game-second at a
	// 1/second rate is always admitted, however fast the host runs the
	// ticks.
	def := effectDef{
		desc: descriptor.Descriptor{
			Type:           "footstep",
			Priority:       descriptor.PriorityLow,
			Pool:           pool.Capacity{Initial: 2, Max: 2},
			ParticleBudget: 1,
			RateLimit:      &descriptor.RateLimit{PerSecond: 1, Burst: 1},
		},
		cost: 1, duration: 0.1, lifetime: 0.1,
	}
	rig := newTestRig(t, Config{MaxBudget: 1000, ReleaseBuffer: 0.1}, def)

	admitted := 0
	for i := 0; i < 10; i++ {
		if _, ok := rig.sched.Play("footstep", pool.Transform{}); ok {
			admitted++
		}
		rig.sched.Update(1.0)
	}
	assert.Equal(t, 10, admitted)
}

func TestUnknownType(t *testing.T) {
	rig := newTestRig(t, Config{MaxBudget: 100})
	_, ok := rig.sched.Play("phantom", pool.Transform{})
	assert.False(t, ok)
	reason, found := rig.rec.lastRejection()
	require.True(t, found)
	assert.Equal(t, events.ReasonNotRegistered, reason)
}

func TestColorOverride(t *testing.T) {
	rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1},
		simpleDef("tinted", descriptor.PriorityMedium, 10))

	tint := Color{R: 1, G: 0.5, B: 0, A: 1}
	h, ok := rig.sched.PlayWithColorOverride("tinted", pool.Transform{}, tint)
	require.True(t, ok)

	inst, ok := h.Instance()
	require.True(t, ok)
	assert.Equal(t, tint, inst.(*testEffect).tint)
}

type movingTarget struct {
	pose pool.Transform
}

func (m *movingTarget) CurrentTransform() pool.Transform { return m.pose }

func TestPlayAttached(t *testing.T) {
	t.Run("attaches and spawns at target pose", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1},
			simpleDef("trail", descriptor.PriorityMedium, 10))

		target := &movingTarget{pose: pool.Transform{Position: pool.Vec3{X: 7}}}
		h, ok := rig.sched.PlayAttached("trail", target)
		require.True(t, ok)

		inst, ok := h.Instance()
		require.True(t, ok)
		eff := inst.(*testEffect)
		assert.Equal(t, target.pose, eff.pose)
		assert.Equal(t, TransformProvider(target), eff.target)

		// Release detaches before the instance returns to the pool.
		rig.sched.Stop(h)
		assert.Nil(t, eff.target)
	})

	t.Run("nil target is rejected", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 100},
			simpleDef("trail", descriptor.PriorityMedium, 10))
		_, ok := rig.sched.PlayAttached("trail", nil)
		assert.False(t, ok)
	})
}

func TestAudioSync(t *testing.T) {
	t.Run("immediate clip fires at admission", func(t *testing.T) {
		def := simpleDef("boom", descriptor.PriorityMedium, 10)
		def.desc.Audio = &descriptor.AudioSync{Clip: "impact", Volume: 0.8}
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1}, def)

		_, ok := rig.sched.Play("boom", pool.Transform{})
		require.True(t, ok)
		require.Len(t, rig.audio.plays, 1)
		assert.Equal(t, clipPlay{clip: "impact", volume: 0.8}, rig.audio.plays[0])
	})

	t.Run("delayed clip waits for the clock", func(t *testing.T) {
		def := simpleDef("boom", descriptor.PriorityMedium, 10)
		def.desc.Audio = &descriptor.AudioSync{Clip: "impact", Volume: 1, Delay: 0.3}
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1}, def)

		_, ok := rig.sched.Play("boom", pool.Transform{})
		require.True(t, ok)
		assert.Empty(t, rig.audio.plays)

		rig.sched.Update(0.2)
		assert.Empty(t, rig.audio.plays)
		rig.sched.Update(0.2)
		require.Len(t, rig.audio.plays, 1)
	})

	t.Run("stop before the delay cancels the clip", func(t *testing.T) {
		def := simpleDef("boom", descriptor.PriorityMedium, 10)
		def.desc.Audio = &descriptor.AudioSync{Clip: "impact", Volume: 1, Delay: 0.5}
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1}, def)

		h, ok := rig.sched.Play("boom", pool.Transform{})
		require.True(t, ok)
		rig.sched.Stop(h)

		rig.sched.Update(2.0)
		assert.Empty(t, rig.audio.plays)
	})
}

func TestPhases(t *testing.T) {
	parent := simpleDef("combo", descriptor.PriorityMedium, 10)
	parent.desc.Phases = []descriptor.Phase{
		{Type: "flash", Delay: 0.2},
		{Type: "smoke", Delay: 0.4},
	}
	flash := simpleDef("flash", descriptor.PriorityMedium, 5)
	smoke := simpleDef("smoke", descriptor.PriorityMedium, 5)

	t.Run("phases fire as delayed plays", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1}, parent, flash, smoke)

		_, ok := rig.sched.Play("combo", pool.Transform{})
		require.True(t, ok)
		assert.Equal(t, 1, rig.rec.countByType(events.EffectAdmitted))

		rig.sched.Update(0.25)
		assert.Equal(t, 2, rig.rec.countByType(events.EffectAdmitted), "flash phase fired")
		rig.sched.Update(0.25)
		assert.Equal(t, 3, rig.rec.countByType(events.EffectAdmitted), "smoke phase fired")
	})

	t.Run("phases outlive an auto-released parent", func(t *testing.T) {
		// Parent expires at 0.3 (0.1 + 0.1 + 0.1 buffer); its phase fires
		// at 0.5. Natural expiry is not a cancellation.
		short := effectDef{
			desc: descriptor.Descriptor{
				Type:           "fuse",
				Priority:       descriptor.PriorityMedium,
				Pool:           pool.Capacity{Initial: 2, Max: 2},
				ParticleBudget: 5,
				Phases:         []descriptor.Phase{{Type: "flash", Delay: 0.5}},
			},
			cost: 5, duration: 0.1, lifetime: 0.1,
		}
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1}, short, flash)

		_, ok := rig.sched.Play("fuse", pool.Transform{})
		require.True(t, ok)

		rig.sched.Update(0.4)
		require.Equal(t, 1, rig.rec.countByType(events.EffectAutoReleased), "parent expired")

		rig.sched.Update(0.2)
		assert.Equal(t, 2, rig.rec.countByType(events.EffectAdmitted), "phase fired after expiry")
	})

	t.Run("stopping the parent halts unfired phases", func(t *testing.T) {
		rig := newTestRig(t, Config{MaxBudget: 100, ReleaseBuffer: 0.1}, parent, flash, smoke)

		h, ok := rig.sched.Play("combo", pool.Transform{})
		require.True(t, ok)

		rig.sched.Update(0.25) // flash fired
		rig.sched.Stop(h)
		rig.sched.Update(1.0)

		assert.Equal(t, 2, rig.rec.countByType(events.EffectAdmitted), "smoke phase must not fire")
	})
}

func TestStopAllOfType(t *testing.T) {
	rig := newTestRig(t, Config{MaxBudget: 1000, ReleaseBuffer: 0.1},
		simpleDef("spark", descriptor.PriorityMedium, 10),
		simpleDef("smoke", descriptor.PriorityMedium, 10))

	for i := 0; i < 3; i++ {
		_, ok := rig.sched.Play("spark", pool.Transform{})
		require.True(t, ok)
	}
	_, ok := rig.sched.Play("smoke", pool.Transform{})
	require.True(t, ok)

	rig.sched.StopAllOfType("spark")
	assert.Equal(t, 1, rig.sched.GetActiveCount())
	assert.Equal(t, 10, rig.sched.GetActiveCost())
	assert.Equal(t, 3, rig.rec.countByType(events.EffectStopped))
}

func TestClearAll(t *testing.T) {
	def := simpleDef("boom", descriptor.PriorityMedium, 10)
	def.desc.Audio = &descriptor.AudioSync{Clip: "impact", Volume: 1, Delay: 0.5}
	rig := newTestRig(t, Config{MaxBudget: 1000, ReleaseBuffer: 0.1}, def)

	for i := 0; i < 4; i++ {
		_, ok := rig.sched.Play("boom", pool.Transform{})
		require.True(t, ok)
	}
	require.Equal(t, 40, rig.sched.GetActiveCost())

	rig.sched.ClearAll()
	assert.Zero(t, rig.sched.GetActiveCount())
	assert.Zero(t, rig.sched.GetActiveCost())

	info := rig.pools.Debug()[0]
	assert.Equal(t, 0, info.Active)
	assert.Equal(t, 4, info.Available)

	// Pending audio and auto-release timers were dropped with the records.
	rig.sched.Update(5.0)
	assert.Empty(t, rig.audio.plays)
	assert.Zero(t, rig.rec.countByType(events.EffectAutoReleased))

	// The scheduler stays usable after teardown.
	_, ok := rig.sched.Play("boom", pool.Transform{})
	assert.True(t, ok)
}

func TestClock(t *testing.T) {
	rig := newTestRig(t, Config{MaxBudget: 100})
	assert.Zero(t, rig.sched.Clock())
	rig.sched.Update(1.0 / 60.0)
	rig.sched.Update(1.0 / 60.0)
	assert.InDelta(t, 2.0/60.0, rig.sched.Clock(), 1e-9)
}
