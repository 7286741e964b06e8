package service

import (
	"context"
	"errors"
	"sync"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"
	"learnpath_backend/pkg/logger"

	"go.uber.org/zap"
)

// Mutation computes a new document from the current one. Returning the
// input document unchanged means nothing to apply or persist. Returning an
// error leaves the state untouched; the error travels to the caller.
type Mutation func(current *model.ProgressDocument) (*model.ProgressDocument, error)

// StateManager owns the single live copy of the progress document and the
// optimistic-update protocol around it: compute, apply in memory, persist,
// roll back to the last confirmed snapshot when the save fails. The visible
// state can diverge from durable state for at most one failed save.
type StateManager struct {
	mu       sync.Mutex
	repo     *repository.ProgressRepository
	progress *ProgressService

	current *model.ProgressDocument

	// confirmed is the rollback target: the document as of the last
	// successful save, or the in-memory baseline when storage is degraded.
	// Outside Apply it always equals current.
	confirmed *model.ProgressDocument

	// memoryOnly is set when storage was unreachable at startup. Every
	// mutation still attempts persistence and is rolled back when the save
	// fails; the first successful save clears the flag.
	memoryOnly bool

	// storedInvalid is set when a parseable but invalid document sits in
	// storage. It is preserved for inspection until a save or reset
	// replaces it.
	storedInvalid bool
}

func NewStateManager(repo *repository.ProgressRepository, progress *ProgressService) *StateManager {
	return &StateManager{repo: repo, progress: progress}
}

// Init loads or creates the document. Any unrecoverable load outcome falls
// back to a fresh first-run document instead of failing startup.
func (m *StateManager) Init(ctx context.Context, variant model.LearnerVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.repo.Load(ctx)
	switch {
	case doc != nil:
		m.current = doc
		m.confirmed = doc
		return nil
	case err == nil:
		// First use, or a corrupt entry that was just deleted.
		m.current = m.progress.NewInitialDocument(variant)
		m.confirmed = m.current
		if saveErr := m.repo.Save(ctx, m.current); saveErr != nil {
			m.memoryOnly = true
			logger.Log.Warn("Continuing without durable storage", zap.Error(saveErr))
		}
		return nil
	case errors.Is(err, util.ErrDocumentInvalid):
		// Keep the stored copy for debugging; start fresh in memory and
		// only overwrite once the learner actually does something.
		m.storedInvalid = true
		m.current = m.progress.NewInitialDocument(variant)
		m.confirmed = m.current
		logger.Log.Warn("Stored progress is invalid, starting a fresh document in memory")
		return nil
	default:
		m.memoryOnly = true
		m.current = m.progress.NewInitialDocument(variant)
		m.confirmed = m.current
		logger.Log.Warn("Storage unavailable, running memory-only", zap.Error(err))
		return nil
	}
}

// Current returns the live document. Callers must treat it as read-only;
// all changes go through Apply.
func (m *StateManager) Current() *model.ProgressDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// MemoryOnly reports whether the manager is running without durable storage.
func (m *StateManager) MemoryOnly() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.memoryOnly
}

// StoredInvalid reports whether an invalid document is parked in storage.
func (m *StateManager) StoredInvalid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storedInvalid
}

// Apply runs a mutation against the current document and persists the
// result. On save failure the optimistic update is discarded and the
// previous document restored; the storage error is returned so the caller
// can tell the user the action did not stick.
func (m *StateManager) Apply(ctx context.Context, mutate Mutation) (*model.ProgressDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := mutate(m.current)
	if err != nil {
		return m.current, err
	}
	if next == m.current {
		return m.current, nil
	}

	m.current = next

	if err := m.repo.Save(ctx, next); err != nil {
		m.current = m.confirmed
		return m.confirmed, err
	}

	m.confirmed = next
	m.memoryOnly = false
	m.storedInvalid = false
	return next, nil
}

// Reset destroys the stored document and starts over, as a first-run
// initializer would.
func (m *StateManager) Reset(ctx context.Context, variant model.LearnerVariant) (*model.ProgressDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo.Clear(ctx); err != nil {
		return m.current, err
	}
	m.storedInvalid = false

	fresh := m.progress.NewInitialDocument(variant)
	m.current = fresh
	m.confirmed = fresh
	if err := m.repo.Save(ctx, fresh); err != nil {
		m.memoryOnly = true
		logger.Log.Warn("Reset saved nothing, continuing memory-only", zap.Error(err))
	} else {
		m.memoryOnly = false
	}
	return fresh, nil
}
