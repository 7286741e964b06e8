package service

import (
	"errors"
	"testing"

	"learnpath_backend/internal/content"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/util"
)

func newSessionFixture() (*SessionService, *model.ProgressDocument) {
	store := content.NewStore(content.Default())
	progress := NewProgressService(store)
	return NewSessionService(), progress.NewInitialDocument(model.VariantA)
}

func openSessions(doc *model.ProgressDocument) int {
	count := 0
	for _, record := range doc.SessionHistory {
		if record.SessionEnd == nil {
			count++
		}
	}
	return count
}

func TestSession_StartAndEnd(t *testing.T) {
	sessions, doc := newSessionFixture()

	doc, err := sessions.Start(doc)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if len(doc.SessionHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(doc.SessionHistory))
	}

	record := doc.SessionHistory[0]
	if record.SessionStart.IsZero() {
		t.Error("SessionStart should be set")
	}
	if record.SessionEnd != nil {
		t.Error("new session should be open")
	}
	if len(record.ModulesVisited) != 1 || record.ModulesVisited[0] != doc.CurrentModuleID {
		t.Errorf("ModulesVisited = %v, want the current module", record.ModulesVisited)
	}

	doc, err = sessions.End(doc)
	if err != nil {
		t.Fatalf("End() error: %v", err)
	}
	if doc.SessionHistory[0].SessionEnd == nil {
		t.Error("session should be closed")
	}
}

func TestSession_SingleActiveInvariant(t *testing.T) {
	sessions, doc := newSessionFixture()

	doc, err := sessions.Start(doc)
	if err != nil {
		t.Fatal(err)
	}

	again, err := sessions.Start(doc)
	if !errors.Is(err, util.ErrSessionAlreadyActive) {
		t.Errorf("error = %v, want ErrSessionAlreadyActive", err)
	}
	if again != doc {
		t.Error("refused start should return the document unchanged")
	}
	if got := openSessions(again); got != 1 {
		t.Errorf("open sessions = %d, want exactly 1", got)
	}
}

func TestSession_EndWithoutActive(t *testing.T) {
	sessions, doc := newSessionFixture()

	tests := []struct {
		name  string
		setup func() *model.ProgressDocument
	}{
		{
			name:  "empty history",
			setup: func() *model.ProgressDocument { return doc },
		},
		{
			name: "last session already ended",
			setup: func() *model.ProgressDocument {
				d, _ := sessions.Start(doc)
				d, _ = sessions.End(d)
				return d
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.setup()
			result, err := sessions.End(d)
			if !errors.Is(err, util.ErrNoActiveSession) {
				t.Errorf("error = %v, want ErrNoActiveSession", err)
			}
			if result != d {
				t.Error("refused end should return the document unchanged")
			}
		})
	}
}

func TestVisitModule(t *testing.T) {
	sessions, doc := newSessionFixture()

	doc, err := sessions.Start(doc)
	if err != nil {
		t.Fatal(err)
	}

	doc = sessions.VisitModule(doc, 2)
	if doc.CurrentModuleID != 2 {
		t.Errorf("CurrentModuleID = %d, want 2", doc.CurrentModuleID)
	}
	if doc.CurrentSectionID != nil {
		t.Error("entering a module should clear the current section")
	}

	record := doc.SessionHistory[0]
	if len(record.ModulesVisited) != 2 || record.ModulesVisited[1] != 2 {
		t.Errorf("ModulesVisited = %v, want [1 2]", record.ModulesVisited)
	}

	// Revisiting records nothing new.
	same := sessions.VisitModule(doc, 2)
	if same != doc {
		t.Error("revisiting the current module should be a no-op")
	}
}

func TestVisitModule_WithoutSession(t *testing.T) {
	sessions, doc := newSessionFixture()

	// No open session: the location still moves, nothing is recorded.
	doc = sessions.VisitModule(doc, 3)
	if doc.CurrentModuleID != 3 {
		t.Errorf("CurrentModuleID = %d, want 3", doc.CurrentModuleID)
	}
	if len(doc.SessionHistory) != 0 {
		t.Error("no session record should appear")
	}
}
