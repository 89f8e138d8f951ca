// Package sim provides a synthetic, headless effect implementation and a
// scenario runner for exercising the scheduling core without a rendering
// backend. Used by the simulate command and useful as an integration rig.
package sim

import (
	"github.com/riftlabs/cinder/pkg/pool"
	"github.com/riftlabs/cinder/pkg/scheduler"
)

// Profile describes the synthetic effect produced by a factory: its cost
// and lifetime facts, mirroring what a particle system would report.
type Profile struct {
	ParticleCapacity    int
	Looping             bool
	Duration            float64
	MaxParticleLifetime float64
}

// SpriteEffect is a minimal frame-driven effect instance. It tracks only
// the state the scheduler interacts with.
type SpriteEffect struct {
	profile Profile

	active bool
	pose   pool.Transform
	tint   scheduler.Color
	target scheduler.TransformProvider
}

// Activate implements pool.Spawnable.
func (e *SpriteEffect) Activate(at pool.Transform) {
	e.active = true
	e.pose = at
}

// Deactivate implements pool.Spawnable.
func (e *SpriteEffect) Deactivate() {
	e.active = false
	e.target = nil
	e.tint = scheduler.Color{}
}

// ResetTransform implements pool.Spawnable.
func (e *SpriteEffect) ResetTransform() {
	e.pose = pool.Transform{}
}

// ParticleCapacity implements scheduler.Effect.
func (e *SpriteEffect) ParticleCapacity() int { return e.profile.ParticleCapacity }

// Looping implements scheduler.Effect.
func (e *SpriteEffect) Looping() bool { return e.profile.Looping }

// Duration implements scheduler.Effect.
func (e *SpriteEffect) Duration() float64 { return e.profile.Duration }

// MaxParticleLifetime implements scheduler.Effect.
func (e *SpriteEffect) MaxParticleLifetime() float64 { return e.profile.MaxParticleLifetime }

// SetColor implements scheduler.ColorOverridable.
func (e *SpriteEffect) SetColor(c scheduler.Color) { e.tint = c }

// Attach implements scheduler.Attachable.
func (e *SpriteEffect) Attach(target scheduler.TransformProvider) { e.target = target }

// Detach implements scheduler.Attachable.
func (e *SpriteEffect) Detach() { e.target = nil }

// Active reports whether the instance is live.
func (e *SpriteEffect) Active() bool { return e.active }

// Pose returns the instance's current pose.
func (e *SpriteEffect) Pose() pool.Transform { return e.pose }

// NewFactory returns a factory producing SpriteEffect instances with the
// given profile.
func NewFactory(profile Profile) pool.Factory[scheduler.Effect] {
	return pool.FactoryFuncs[scheduler.Effect]{
		CreateFn: func() (scheduler.Effect, error) {
			return &SpriteEffect{profile: profile}, nil
		},
	}
}

// FixedViewer is a ViewerProvider pinned to one position.
type FixedViewer struct {
	Position pool.Vec3
}

// ViewerPosition implements scheduler.ViewerProvider.
func (v FixedViewer) ViewerPosition() (pool.Vec3, bool) {
	return v.Position, true
}
