// Package audio provides the side-channel that plays synchronized clips
// when effects are admitted. The scheduler only depends on the Bridge
// interface; delay handling stays in the scheduler's timer queue so audio
// follows the same frame-driven clock as everything else.
package audio

// Bridge triggers playback of a named clip at a linear volume in [0, 1].
// Implementations must degrade gracefully: a missing clip or absent audio
// backend is logged, never fatal.
type Bridge interface {
	PlayClip(clip string, volume float64)
}

// NopBridge discards every trigger. Used when audio is disabled and as the
// default collaborator in tests.
type NopBridge struct{}

// PlayClip implements Bridge.
func (NopBridge) PlayClip(string, float64) {}
