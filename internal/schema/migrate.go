package schema

import (
	"fmt"
	"time"

	"learnpath_backend/internal/model"
)

// A transform upgrades a raw document in place from its version to the next.
type transform func(raw map[string]interface{}) error

// Migrator upgrades older persisted documents to the current schema version.
// Transforms are applied sequentially, so adding a version means appending
// one entry here without touching any call site.
type Migrator struct {
	transforms map[int]transform
}

func NewMigrator() *Migrator {
	return &Migrator{
		// No historical versions yet. A future version 2 adds:
		//   2: upgradeV1toV2,
		transforms: map[int]transform{},
	}
}

// Version reads the schema version of a raw document. A missing or
// malformed version is treated as version 1, the shape the first release
// persisted before versioning existed.
func (m *Migrator) Version(raw map[string]interface{}) int {
	if v, ok := asInt(raw["schemaVersion"]); ok && v >= 1 {
		return v
	}
	return 1
}

// Migrate normalizes a raw document to the current schema version. It
// returns whether anything changed so the caller can re-save once.
func (m *Migrator) Migrate(raw map[string]interface{}) (changed bool, err error) {
	if raw == nil {
		return false, fmt.Errorf("cannot migrate null document")
	}

	version := m.Version(raw)
	if _, ok := asInt(raw["schemaVersion"]); !ok {
		// Normalize the pre-versioning shape.
		raw["schemaVersion"] = float64(version)
		changed = true
	}

	for version < model.CurrentSchemaVersion {
		step, ok := m.transforms[version+1]
		if !ok {
			return changed, fmt.Errorf("no migration path from schema version %d", version)
		}
		if err := step(raw); err != nil {
			return changed, fmt.Errorf("migrate schema version %d to %d: %w", version, version+1, err)
		}
		version++
		raw["schemaVersion"] = float64(version)
		changed = true
	}

	if changed {
		raw["lastUpdated"] = time.Now().Format(time.RFC3339Nano)
	}

	return changed, nil
}
