package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/schema"
	"learnpath_backend/internal/util"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ProgressKey is the single well-known key the document is stored under.
const ProgressKey = "learnpath:progress"

// ProgressRepository is the persistence gateway for the progress document.
// It owns serialization, schema migration and validation on load, and the
// fail-safe handling of corrupt or invalid stored data.
type ProgressRepository struct {
	Store     KVStore
	Validator *schema.Validator
	Migrator  *schema.Migrator
}

func NewProgressRepository(store KVStore, validator *schema.Validator, migrator *schema.Migrator) *ProgressRepository {
	return &ProgressRepository{
		Store:     store,
		Validator: validator,
		Migrator:  migrator,
	}
}

// Save stamps the document and writes it under the fixed key. The returned
// error is classified (quota, denied, other) for diagnostics; callers treat
// any non-nil error uniformly as a failed save.
func (r *ProgressRepository) Save(ctx context.Context, doc *model.ProgressDocument) error {
	doc.LastUpdated = time.Now()

	data, err := json.Marshal(doc)
	if err != nil {
		monitoring.SaveFailures.WithLabelValues("serialize").Inc()
		logger.Log.Error("Failed to serialize progress document", zap.Error(err))
		return err
	}

	if err := r.Store.Set(ctx, ProgressKey, string(data)); err != nil {
		switch {
		case errors.Is(err, util.ErrStorageQuota):
			monitoring.SaveFailures.WithLabelValues("quota").Inc()
			logger.Log.Warn("Progress save failed, storage quota exhausted", zap.Error(err))
		case errors.Is(err, util.ErrStorageDenied):
			monitoring.SaveFailures.WithLabelValues("denied").Inc()
			logger.Log.Warn("Progress save failed, storage access denied", zap.Error(err))
		default:
			monitoring.SaveFailures.WithLabelValues("other").Inc()
			logger.Log.Warn("Progress save failed", zap.Error(err))
		}
		return err
	}

	return nil
}

// Load reads the stored document. It returns (nil, nil) when no document
// exists, which covers both first use and a corrupt entry that was just
// deleted. A parseable document that fails validation returns
// util.ErrDocumentInvalid and is left in storage untouched.
func (r *ProgressRepository) Load(ctx context.Context) (*model.ProgressDocument, error) {
	text, err := r.Store.Get(ctx, ProgressKey)
	if errors.Is(err, util.ErrKeyNotFound) {
		monitoring.LoadOutcomes.WithLabelValues("absent").Inc()
		return nil, nil
	}
	if err != nil {
		monitoring.LoadOutcomes.WithLabelValues("unavailable").Inc()
		logger.Log.Warn("Progress storage unavailable", zap.Error(err))
		return nil, err
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		// Corrupt entries are deleted so the next load is a clean first run
		// instead of logging the same corruption forever.
		monitoring.LoadOutcomes.WithLabelValues("corrupt").Inc()
		logger.Log.Warn("Stored progress document is corrupt, deleting it", zap.Error(err))
		if delErr := r.Store.Delete(ctx, ProgressKey); delErr != nil {
			logger.Log.Error("Failed to delete corrupt progress document", zap.Error(delErr))
		}
		return nil, nil
	}

	// Valid JSON that is not an object (a list, number, string or null) is
	// invalid, not corrupt: it stays in storage like any other document that
	// fails validation.
	raw, ok := decoded.(map[string]interface{})
	if !ok {
		monitoring.LoadOutcomes.WithLabelValues("invalid").Inc()
		logger.Log.Warn("Stored progress document failed validation",
			zap.Strings("violations", []string{"document must be a JSON object"}))
		return nil, util.ErrDocumentInvalid
	}

	migrated := false
	if r.Migrator.Version(raw) < model.CurrentSchemaVersion || !hasSchemaVersion(raw) {
		changed, err := r.Migrator.Migrate(raw)
		if err != nil {
			monitoring.LoadOutcomes.WithLabelValues("migration_failed").Inc()
			logger.Log.Error("Progress document migration failed", zap.Error(err))
			return nil, nil
		}
		migrated = changed
	}

	if result := r.Validator.Validate(raw); !result.Valid {
		// Left in storage on purpose: an invalid-but-parseable document is
		// worth inspecting, unlike corrupt bytes.
		monitoring.LoadOutcomes.WithLabelValues("invalid").Inc()
		logger.Log.Warn("Stored progress document failed validation",
			zap.Strings("violations", result.Errors))
		return nil, util.ErrDocumentInvalid
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		monitoring.LoadOutcomes.WithLabelValues("decode_failed").Inc()
		logger.Log.Error("Failed to decode progress document", zap.Error(err))
		return nil, nil
	}

	if migrated {
		// Persist the upgraded shape right away; best effort, the in-memory
		// document is already usable.
		if err := r.Save(ctx, doc); err != nil {
			logger.Log.Warn("Failed to re-save migrated progress document", zap.Error(err))
		}
	}

	monitoring.LoadOutcomes.WithLabelValues("ok").Inc()
	return doc, nil
}

// Clear removes the stored document. Deleting an absent key is a success.
func (r *ProgressRepository) Clear(ctx context.Context) error {
	if err := r.Store.Delete(ctx, ProgressKey); err != nil && !errors.Is(err, util.ErrKeyNotFound) {
		logger.Log.Error("Failed to clear progress document", zap.Error(err))
		return err
	}
	return nil
}

func hasSchemaVersion(raw map[string]interface{}) bool {
	_, present := raw["schemaVersion"]
	return present
}

func decodeDocument(raw map[string]interface{}) (*model.ProgressDocument, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var doc model.ProgressDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
