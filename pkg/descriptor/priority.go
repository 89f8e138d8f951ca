package descriptor

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Priority classifies an effect's resistance to budget and distance
// rejection. Critical effects are always admitted; High effects skip only
// the budget check; Medium and Low are subject to everything.
type Priority int

const (
	// PriorityLow is ambience and cosmetic flourish, first to be culled.
	PriorityLow Priority = iota
	// PriorityMedium is ordinary gameplay feedback.
	PriorityMedium
	// PriorityHigh is important feedback admitted over budget pressure.
	PriorityHigh
	// PriorityCritical is gameplay-readable feedback that bypasses all
	// admission checks.
	PriorityCritical
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Valid reports whether p is one of the four defined tiers.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// ParsePriority converts a case-insensitive tier name to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return PriorityLow, fmt.Errorf("unknown priority %q", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler, accepting tier names.
func (p *Priority) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Priority) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting quoted tier names.
func (p *Priority) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}
