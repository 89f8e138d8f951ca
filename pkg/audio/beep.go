package audio

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/riftlabs/cinder/pkg/errors"
)

// Waveform names accepted in clip definitions.
const (
	WaveSine   = "sine"
	WaveSquare = "square"
	WaveSaw    = "saw"
	WaveNoise  = "noise"
)

// Clip defines a synthesized tone: waveform, pitch, length and envelope.
// Clips are rendered once at bridge construction and replayed from memory.
type Clip struct {
	Wave      string  `yaml:"wave" json:"wave"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Duration  float64 `yaml:"duration" json:"duration"`
	Attack    float64 `yaml:"attack" json:"attack"`
	Release   float64 `yaml:"release" json:"release"`
}

// BeepConfig configures the beep-backed bridge.
type BeepConfig struct {
	SampleRate int             `yaml:"sample_rate" json:"sample_rate"`
	BufferMs   int             `yaml:"buffer_ms" json:"buffer_ms"`
	Clips      map[string]Clip `yaml:"clips" json:"clips"`
}

// DefaultBeepConfig returns a 48kHz config with a small built-in clip set.
func DefaultBeepConfig() BeepConfig {
	return BeepConfig{
		SampleRate: 48000,
		BufferMs:   100,
		Clips: map[string]Clip{
			"impact": {Wave: WaveSquare, Frequency: 110, Duration: 0.15, Attack: 0.005, Release: 0.08},
			"chime":  {Wave: WaveSine, Frequency: 880, Duration: 0.4, Attack: 0.01, Release: 0.3},
			"whoosh": {Wave: WaveNoise, Frequency: 0, Duration: 0.3, Attack: 0.05, Release: 0.2},
		},
	}
}

// BeepBridge plays pre-rendered tone clips through the beep speaker. The
// speaker runs its own mixing goroutine; the bridge only adds finished
// streamers to the mixer, so triggers stay cheap on the game tick.
type BeepBridge struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	clips       map[string][]float64
	initialized bool
	log         *zap.Logger
}

// NewBeepBridge renders every configured clip and opens the speaker. An
// unavailable audio backend is an audio error; callers are expected to fall
// back to NopBridge rather than fail startup.
func NewBeepBridge(cfg BeepConfig, log *zap.Logger) (*BeepBridge, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 48000
	}
	if cfg.BufferMs <= 0 {
		cfg.BufferMs = 100
	}

	sr := beep.SampleRate(cfg.SampleRate)
	b := &BeepBridge{
		sampleRate: sr,
		mixer:      &beep.Mixer{},
		clips:      make(map[string][]float64, len(cfg.Clips)),
		log:        log.With(zap.String("component", "beep_bridge")),
	}
	for name, clip := range cfg.Clips {
		b.clips[name] = renderClip(clip, cfg.SampleRate)
	}

	if err := speaker.Init(sr, sr.N(time.Millisecond*time.Duration(cfg.BufferMs))); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeAudio, "failed to open audio backend")
	}
	speaker.Play(b.mixer)
	b.initialized = true

	return b, nil
}

// PlayClip implements Bridge. Unknown clips are a logged no-op.
func (b *BeepBridge) PlayClip(clip string, volume float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	samples, ok := b.clips[clip]
	if !ok {
		b.log.Warn("unknown audio clip", zap.String("clip", clip))
		return
	}

	streamer := &sampleStreamer{samples: samples}
	b.mixer.Add(newVolume(streamer, volume))
}

// Close stops playback and detaches the mixer. The speaker itself has no
// close in beep; clearing the mixer silences it.
func (b *BeepBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	b.mixer.Clear()
	b.initialized = false
}

// sampleStreamer streams pre-rendered mono samples to both channels.
type sampleStreamer struct {
	samples []float64
	pos     int
}

// Stream implements beep.Streamer.
func (s *sampleStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := 0
	for i := range out {
		if s.pos >= len(s.samples) {
			break
		}
		v := s.samples[s.pos]
		out[i][0] = v
		out[i][1] = v
		s.pos++
		n++
	}
	return n, true
}

// Err implements beep.Streamer.
func (s *sampleStreamer) Err() error { return nil }

// newVolume wraps a streamer with linear volume in [0, 1].
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	if vol > 1 {
		vol = 1
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// renderClip synthesizes a clip's waveform with an attack/release envelope.
func renderClip(clip Clip, sampleRate int) []float64 {
	total := int(clip.Duration * float64(sampleRate))
	if total <= 0 {
		return nil
	}

	buf := make([]float64, total)
	phase := 0.0
	phaseInc := clip.Frequency / float64(sampleRate)

	for i := 0; i < total; i++ {
		switch clip.Wave {
		case WaveSquare:
			if phase < 0.5 {
				buf[i] = 1.0
			} else {
				buf[i] = -1.0
			}
		case WaveSaw:
			buf[i] = 2.0 * (phase - 0.5)
		case WaveNoise:
			buf[i] = rand.Float64()*2 - 1
		default: // sine
			buf[i] = math.Sin(2 * math.Pi * phase)
		}

		phase += phaseInc
		if phase >= 1.0 {
			phase -= 1.0
		}
	}

	applyEnvelope(buf, clip.Attack, clip.Release, sampleRate)
	return buf
}

// applyEnvelope shapes the buffer in place with linear attack and release
// ramps to avoid clicks.
func applyEnvelope(buf []float64, attackSec, releaseSec float64, sampleRate int) {
	total := len(buf)
	attackSamples := int(attackSec * float64(sampleRate))
	releaseSamples := int(releaseSec * float64(sampleRate))

	releaseStart := total - releaseSamples
	if releaseStart < attackSamples {
		releaseStart = attackSamples
	}

	for i := 0; i < total; i++ {
		vol := 1.0
		if i < attackSamples && attackSamples > 0 {
			vol = float64(i) / float64(attackSamples)
		} else if i >= releaseStart && releaseSamples > 0 {
			vol = float64(total-i) / float64(releaseSamples)
		}
		buf[i] *= vol
	}
}
