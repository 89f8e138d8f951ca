package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftlabs/cinder/pkg/pool"
)

func validDescriptor() Descriptor {
	return Descriptor{
		Type:           "explosion_small",
		Priority:       PriorityMedium,
		Pool:           pool.Capacity{Initial: 8, Max: 16},
		MaxDistance:    60,
		ParticleBudget: 80,
	}
}

func TestDescriptorValidate(t *testing.T) {
	t.Run("valid descriptor", func(t *testing.T) {
		d := validDescriptor()
		assert.NoError(t, d.Validate())
	})

	t.Run("missing type id", func(t *testing.T) {
		d := validDescriptor()
		d.Type = ""
		assert.Error(t, d.Validate())
	})

	t.Run("invalid priority", func(t *testing.T) {
		d := validDescriptor()
		d.Priority = Priority(9)
		assert.Error(t, d.Validate())
	})

	t.Run("pool initial above max", func(t *testing.T) {
		d := validDescriptor()
		d.Pool = pool.Capacity{Initial: 20, Max: 10}
		assert.Error(t, d.Validate())
	})

	t.Run("negative distance", func(t *testing.T) {
		d := validDescriptor()
		d.MaxDistance = -1
		assert.Error(t, d.Validate())
	})

	t.Run("negative particle budget", func(t *testing.T) {
		d := validDescriptor()
		d.ParticleBudget = -5
		assert.Error(t, d.Validate())
	})

	t.Run("audio volume outside range", func(t *testing.T) {
		d := validDescriptor()
		d.Audio = &AudioSync{Clip: "impact", Volume: 1.5}
		assert.Error(t, d.Validate())
	})

	t.Run("audio missing clip", func(t *testing.T) {
		d := validDescriptor()
		d.Audio = &AudioSync{Volume: 0.5}
		assert.Error(t, d.Validate())
	})

	t.Run("self-referencing phase", func(t *testing.T) {
		d := validDescriptor()
		d.Phases = []Phase{{Type: d.Type, Delay: 0.1}}
		assert.Error(t, d.Validate())
	})

	t.Run("negative phase delay", func(t *testing.T) {
		d := validDescriptor()
		d.Phases = []Phase{{Type: "sparks", Delay: -0.1}}
		assert.Error(t, d.Validate())
	})

	t.Run("rate limit needs positive rate", func(t *testing.T) {
		d := validDescriptor()
		d.RateLimit = &RateLimit{PerSecond: 0, Burst: 1}
		assert.Error(t, d.Validate())

		d.RateLimit = &RateLimit{PerSecond: 5, Burst: 0}
		assert.Error(t, d.Validate())

		d.RateLimit = &RateLimit{PerSecond: 5, Burst: 1}
		assert.NoError(t, d.Validate())
	})
}

func TestPriority(t *testing.T) {
	t.Run("ordering", func(t *testing.T) {
		assert.True(t, PriorityLow < PriorityMedium)
		assert.True(t, PriorityMedium < PriorityHigh)
		assert.True(t, PriorityHigh < PriorityCritical)
	})

	t.Run("string round trip", func(t *testing.T) {
		for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical} {
			parsed, err := ParsePriority(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, parsed)
		}
	})

	t.Run("parse is case insensitive", func(t *testing.T) {
		p, err := ParsePriority("  CRITICAL ")
		require.NoError(t, err)
		assert.Equal(t, PriorityCritical, p)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParsePriority("urgent")
		assert.Error(t, err)
	})

	t.Run("valid range", func(t *testing.T) {
		assert.True(t, PriorityLow.Valid())
		assert.True(t, PriorityCritical.Valid())
		assert.False(t, Priority(-1).Valid())
		assert.False(t, Priority(4).Valid())
	})

	t.Run("json marshalling", func(t *testing.T) {
		data, err := PriorityHigh.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `"high"`, string(data))

		var p Priority
		require.NoError(t, p.UnmarshalJSON([]byte(`"critical"`)))
		assert.Equal(t, PriorityCritical, p)
	})
}
