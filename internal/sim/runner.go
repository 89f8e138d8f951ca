package sim

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/riftlabs/cinder/pkg/descriptor"
	"github.com/riftlabs/cinder/pkg/events"
	"github.com/riftlabs/cinder/pkg/pool"
	"github.com/riftlabs/cinder/pkg/scheduler"
)

// Stats tallies scheduling outcomes observed over a run.
type Stats struct {
	Plays        int
	Admitted     int
	Rejected     map[events.RejectionReason]int
	AutoReleased int
	PeakCost     int
}

// Runner drives a scheduler through randomized play traffic on a fixed
// tick, the way a busy combat scene would.
type Runner struct {
	sched *scheduler.Scheduler
	types []string
	rng   *rand.Rand
	log   *zap.Logger

	stats Stats
}

// NewRunner subscribes to the bus for outcome counting and prepares a
// deterministic traffic source from the seed.
func NewRunner(sched *scheduler.Scheduler, library *descriptor.Library, bus *events.Bus, seed int64, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		sched: sched,
		types: library.Types(),
		rng:   rand.New(rand.NewSource(seed)),
		log:   log.With(zap.String("component", "sim_runner")),
	}
	r.stats.Rejected = make(map[events.RejectionReason]int)

	bus.Subscribe(events.EffectAdmitted, r)
	bus.Subscribe(events.EffectRejected, r)
	bus.Subscribe(events.EffectAutoReleased, r)
	return r
}

// OnEvent implements events.Listener.
func (r *Runner) OnEvent(event events.Event) {
	payload, _ := event.Data.(events.EffectPayload)
	switch event.Type {
	case events.EffectAdmitted:
		r.stats.Admitted++
	case events.EffectRejected:
		r.stats.Rejected[payload.Reason]++
	case events.EffectAutoReleased:
		r.stats.AutoReleased++
	}
}

// Run executes the scenario: playsPerTick random plays each tick for the
// given number of ticks at dt seconds per tick. Returns outcome tallies.
func (r *Runner) Run(ticks, playsPerTick int, dt float64) Stats {
	if len(r.types) == 0 {
		r.log.Warn("no descriptors loaded, nothing to simulate")
		return r.stats
	}

	for tick := 0; tick < ticks; tick++ {
		for i := 0; i < playsPerTick; i++ {
			typeID := r.types[r.rng.Intn(len(r.types))]
			at := pool.Transform{Position: pool.Vec3{
				X: r.rng.Float64()*100 - 50,
				Y: 0,
				Z: r.rng.Float64()*100 - 50,
			}}
			r.stats.Plays++
			r.sched.Play(typeID, at)
		}
		r.sched.Update(dt)

		if cost := r.sched.GetActiveCost(); cost > r.stats.PeakCost {
			r.stats.PeakCost = cost
		}
	}

	return r.stats
}
