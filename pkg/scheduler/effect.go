package scheduler

import "github.com/riftlabs/cinder/pkg/pool"

// Effect is the capability a pooled instance must provide to be scheduled:
// spawnable like any pooled resource, plus the cost and lifetime facts the
// admission and auto-release logic needs.
type Effect interface {
	pool.Spawnable

	// ParticleCapacity returns the instance's total particle capacity,
	// including nested sub-systems. Charged against the budget on admission.
	ParticleCapacity() int
	// Looping reports whether the effect runs until explicitly stopped.
	// Looping effects never get an auto-release timer.
	Looping() bool
	// Duration returns the effect's system duration in seconds.
	Duration() float64
	// MaxParticleLifetime returns the longest particle lifetime in seconds.
	MaxParticleLifetime() float64
}

// Color is a linear RGBA tint.
type Color struct {
	R, G, B, A float64
}

// ColorOverridable is implemented by effects whose tint can be overridden
// per play. PlayWithColorOverride falls back to a plain play when the
// instance lacks this capability.
type ColorOverridable interface {
	SetColor(c Color)
}

// TransformProvider supplies the current pose of a moving target.
type TransformProvider interface {
	CurrentTransform() pool.Transform
}

// Attachable is implemented by effects that can follow a moving target for
// their active lifetime. Detach is called when the effect is released.
type Attachable interface {
	Attach(target TransformProvider)
	Detach()
}

// ViewerProvider supplies the observer position for distance LOD. The
// second return value reports whether a viewer is currently available; LOD
// is skipped when it is not.
type ViewerProvider interface {
	ViewerPosition() (pool.Vec3, bool)
}
