package service

import (
	"time"

	"learnpath_backend/internal/model"
	"learnpath_backend/internal/util"
)

// SessionService records learning sessions. The invariant is at most one
// open session; a second start is refused rather than auto-closing the
// first, since silently closing a session would corrupt duration analytics.
type SessionService struct{}

func NewSessionService() *SessionService {
	return &SessionService{}
}

// Start opens a new session seeded with the current module. If a session is
// already open the document comes back unchanged with
// util.ErrSessionAlreadyActive.
func (s *SessionService) Start(doc *model.ProgressDocument) (*model.ProgressDocument, error) {
	if doc.ActiveSession() != nil {
		return doc, util.ErrSessionAlreadyActive
	}

	now := time.Now()
	next := doc.Clone()
	next.SessionHistory = append(next.SessionHistory, model.SessionRecord{
		SessionStart:   now,
		ModulesVisited: []int{doc.CurrentModuleID},
	})
	next.LastUpdated = now
	return next, nil
}

// End closes the open session. With no session history, or the last session
// already ended, the document comes back unchanged with
// util.ErrNoActiveSession.
func (s *SessionService) End(doc *model.ProgressDocument) (*model.ProgressDocument, error) {
	if doc.ActiveSession() == nil {
		return doc, util.ErrNoActiveSession
	}

	now := time.Now()
	next := doc.Clone()
	record := &next.SessionHistory[len(next.SessionHistory)-1]
	record.SessionEnd = &now
	next.LastUpdated = now
	return next, nil
}

// VisitModule moves the learner's current location to a module and, when a
// session is open, records the visit once per session. Revisiting the
// current module with nothing to record returns the document unchanged.
func (s *SessionService) VisitModule(doc *model.ProgressDocument, moduleID int) *model.ProgressDocument {
	next := doc
	changed := false

	if active := doc.ActiveSession(); active != nil && !containsInt(active.ModulesVisited, moduleID) {
		next = doc.Clone()
		changed = true
		record := &next.SessionHistory[len(next.SessionHistory)-1]
		record.ModulesVisited = append(record.ModulesVisited, moduleID)
	}

	if next.CurrentModuleID != moduleID {
		if !changed {
			next = doc.Clone()
			changed = true
		}
		next.CurrentModuleID = moduleID
		next.CurrentSectionID = nil
	}

	if changed {
		next.LastUpdated = time.Now()
	}
	return next
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
