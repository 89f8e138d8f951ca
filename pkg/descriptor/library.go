package descriptor

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/riftlabs/cinder/internal/envsubst"
	"github.com/riftlabs/cinder/pkg/errors"
)

// Library holds every loaded descriptor, keyed by type id. Descriptors are
// immutable once added; duplicate type ids keep the first definition.
type Library struct {
	descriptors map[string]*Descriptor
	log         *zap.Logger
}

// NewLibrary creates an empty library.
func NewLibrary(log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		descriptors: make(map[string]*Descriptor),
		log:         log.With(zap.String("component", "effect_library")),
	}
}

// Add validates and stores a descriptor. A duplicate type id is a logged
// no-op preserving the first definition, matching registry semantics.
func (l *Library) Add(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := l.descriptors[d.Type]; exists {
		l.log.Warn("duplicate descriptor ignored", zap.String("type", d.Type))
		return nil
	}
	stored := d
	l.descriptors[d.Type] = &stored
	return nil
}

// Get returns the descriptor for typeID.
func (l *Library) Get(typeID string) (*Descriptor, bool) {
	d, ok := l.descriptors[typeID]
	return d, ok
}

// Types returns the loaded type ids in sorted order.
func (l *Library) Types() []string {
	types := make([]string, 0, len(l.descriptors))
	for typeID := range l.descriptors {
		types = append(types, typeID)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of loaded descriptors.
func (l *Library) Len() int { return len(l.descriptors) }

// LoadFile reads one descriptor file. The format follows the extension:
// .yaml/.yml or .json. ${VAR} references are substituted from the
// environment before parsing, so shared descriptor sets can be tuned per
// deployment.
func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path controlled by caller
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfiguration,
			"failed to read descriptor file "+path)
	}

	content := envsubst.Expand(string(data))

	var defs []Descriptor
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(content), &defs); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfiguration,
				"failed to parse descriptor file "+path)
		}
	case ".json":
		if err := gojson.Unmarshal([]byte(content), &defs); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfiguration,
				"failed to parse descriptor file "+path)
		}
	default:
		return errors.Newf(errors.ErrorTypeConfiguration,
			"unsupported descriptor format %q", filepath.Ext(path))
	}

	for _, d := range defs {
		if err := l.Add(d); err != nil {
			return err
		}
	}

	l.log.Info("descriptors loaded",
		zap.String("file", path),
		zap.Int("count", len(defs)))
	return nil
}

// LoadFiles reads several descriptor files in order.
func (l *Library) LoadFiles(paths ...string) error {
	for _, path := range paths {
		if err := l.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// Validate performs cross-descriptor checks: every phase must reference a
// loaded type id. Called once after all files are loaded.
func (l *Library) Validate() error {
	for _, d := range l.descriptors {
		for _, ph := range d.Phases {
			if _, ok := l.descriptors[ph.Type]; !ok {
				return errors.Newf(errors.ErrorTypeValidation,
					"descriptor %s: phase references unknown type %q", d.Type, ph.Type)
			}
		}
	}
	return nil
}
