// Package descriptor defines the immutable, data-driven effect catalog:
// per-type pool bounds, priority tier, distance cutoff, audio sync and
// multi-phase continuations, loaded from YAML or JSON files at startup.
package descriptor

import (
	"github.com/riftlabs/cinder/pkg/errors"
	"github.com/riftlabs/cinder/pkg/pool"
)

// AudioSync describes the clip triggered when an effect is admitted.
type AudioSync struct {
	// Clip names the audio clip to trigger.
	Clip string `yaml:"clip" json:"clip"`
	// Volume is linear gain in [0, 1].
	Volume float64 `yaml:"volume" json:"volume"`
	// Delay postpones the trigger by this many seconds after admission.
	Delay float64 `yaml:"delay" json:"delay"`
}

// Phase is a delayed continuation: admission of the parent effect schedules
// a Play of Type after Delay seconds. Stopping the parent halts phases that
// have not fired yet.
type Phase struct {
	Type  string  `yaml:"type" json:"type"`
	Delay float64 `yaml:"delay" json:"delay"`
}

// RateLimit suppresses bursts of the same effect type. Non-critical plays
// beyond the sustained rate are rejected at admission.
type RateLimit struct {
	PerSecond float64 `yaml:"per_second" json:"per_second"`
	Burst     int     `yaml:"burst" json:"burst"`
}

// Descriptor is the load-time definition of one effect type. Immutable after
// load; the scheduler reads it on every Play.
type Descriptor struct {
	// Type is the string id effects are played by.
	Type string `yaml:"type" json:"type"`
	// Priority is the admission tier.
	Priority Priority `yaml:"priority" json:"priority"`
	// Pool carries the per-type pool bounds.
	Pool pool.Capacity `yaml:"pool" json:"pool"`
	// MaxDistance culls plays farther than this from the viewer; zero means
	// unlimited.
	MaxDistance float64 `yaml:"max_distance" json:"max_distance"`
	// ParticleBudget is the estimated cost used by the admission budget
	// check before an instance exists. Accounting after acquisition uses the
	// instance's actual capacity.
	ParticleBudget int `yaml:"particle_budget" json:"particle_budget"`
	// Audio optionally synchronizes a clip with admission.
	Audio *AudioSync `yaml:"audio,omitempty" json:"audio,omitempty"`
	// Phases schedules follow-up effects as delayed continuations.
	Phases []Phase `yaml:"phases,omitempty" json:"phases,omitempty"`
	// RateLimit optionally suppresses play bursts of this type.
	RateLimit *RateLimit `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`
}

// Validate checks a single descriptor in isolation. Cross-descriptor checks
// (phase references) live on the Library.
func (d *Descriptor) Validate() error {
	if d.Type == "" {
		return errors.New(errors.ErrorTypeValidation, "descriptor missing type id")
	}
	if !d.Priority.Valid() {
		return errors.Newf(errors.ErrorTypeValidation,
			"descriptor %s: invalid priority %d", d.Type, int(d.Priority))
	}
	if d.Pool.Initial < 0 || d.Pool.Max < 0 {
		return errors.Newf(errors.ErrorTypeValidation,
			"descriptor %s: negative pool capacity", d.Type)
	}
	if d.Pool.Max > 0 && d.Pool.Initial > d.Pool.Max {
		return errors.Newf(errors.ErrorTypeValidation,
			"descriptor %s: pool initial %d exceeds max %d", d.Type, d.Pool.Initial, d.Pool.Max)
	}
	if d.MaxDistance < 0 {
		return errors.Newf(errors.ErrorTypeValidation,
			"descriptor %s: negative max_distance", d.Type)
	}
	if d.ParticleBudget < 0 {
		return errors.Newf(errors.ErrorTypeValidation,
			"descriptor %s: negative particle_budget", d.Type)
	}
	if a := d.Audio; a != nil {
		if a.Clip == "" {
			return errors.Newf(errors.ErrorTypeValidation,
				"descriptor %s: audio sync missing clip", d.Type)
		}
		if a.Volume < 0 || a.Volume > 1 {
			return errors.Newf(errors.ErrorTypeValidation,
				"descriptor %s: audio volume %.2f outside [0,1]", d.Type, a.Volume)
		}
		if a.Delay < 0 {
			return errors.Newf(errors.ErrorTypeValidation,
				"descriptor %s: negative audio delay", d.Type)
		}
	}
	for _, ph := range d.Phases {
		if ph.Type == "" {
			return errors.Newf(errors.ErrorTypeValidation,
				"descriptor %s: phase missing type id", d.Type)
		}
		if ph.Type == d.Type {
			return errors.Newf(errors.ErrorTypeValidation,
				"descriptor %s: phase references itself", d.Type)
		}
		if ph.Delay < 0 {
			return errors.Newf(errors.ErrorTypeValidation,
				"descriptor %s: negative phase delay", d.Type)
		}
	}
	if rl := d.RateLimit; rl != nil {
		if rl.PerSecond <= 0 {
			return errors.Newf(errors.ErrorTypeValidation,
				"descriptor %s: rate limit per_second must be positive", d.Type)
		}
		if rl.Burst < 1 {
			return errors.Newf(errors.ErrorTypeValidation,
				"descriptor %s: rate limit burst must be at least 1", d.Type)
		}
	}
	return nil
}
