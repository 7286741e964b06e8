package util

import "errors"

var (
	// Storage failure classes. Callers treat any of them as a failed save;
	// the distinction exists for logs and metrics.
	ErrStorageQuota  = errors.New("storage quota exhausted")
	ErrStorageDenied = errors.New("storage access denied")
	ErrKeyNotFound   = errors.New("storage key not found")

	// ErrDocumentInvalid marks a stored document that parsed but failed
	// schema validation. The stored copy is left in place for debugging.
	ErrDocumentInvalid = errors.New("stored progress document is invalid")

	ErrSessionAlreadyActive = errors.New("a learning session is already active")
	ErrNoActiveSession      = errors.New("no active learning session")
	ErrUnknownAchievement   = errors.New("unknown achievement id")
)
