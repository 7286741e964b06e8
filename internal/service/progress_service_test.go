package service

import (
	"encoding/json"
	"testing"

	"learnpath_backend/internal/content"
	"learnpath_backend/internal/model"
)

func newEngine() (*ProgressService, *QueryService, *content.Store) {
	store := content.NewStore(content.Default())
	return NewProgressService(store), NewQueryService(store), store
}

func sectionIDs(catalog *content.Catalog, moduleID int) []string {
	def := catalog.Module(moduleID)
	ids := make([]string, len(def.Sections))
	for i, s := range def.Sections {
		ids[i] = s.ID
	}
	return ids
}

func TestNewInitialDocument(t *testing.T) {
	progress, _, store := newEngine()

	doc := progress.NewInitialDocument(model.VariantB)

	if doc.SchemaVersion != model.CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", doc.SchemaVersion, model.CurrentSchemaVersion)
	}
	if doc.LearnerVariant != model.VariantB {
		t.Errorf("LearnerVariant = %q, want B", doc.LearnerVariant)
	}
	if doc.CurrentModuleID != 1 {
		t.Errorf("CurrentModuleID = %d, want 1", doc.CurrentModuleID)
	}
	if doc.CurrentSectionID != nil {
		t.Error("CurrentSectionID should start null")
	}

	for _, id := range store.Catalog().ModuleIDs() {
		module := doc.Modules[id]
		if module == nil {
			t.Fatalf("module %d missing", id)
		}

		wantStatus := model.StatusLocked
		if id == 1 {
			wantStatus = model.StatusInProgress
		}
		if module.Status != wantStatus {
			t.Errorf("module %d status = %q, want %q", id, module.Status, wantStatus)
		}
		if module.CompletionPercentage != 0 {
			t.Errorf("module %d starts at %d%%", id, module.CompletionPercentage)
		}
		for _, s := range module.Sections {
			if s.Completed {
				t.Errorf("section %s starts completed", s.ID)
			}
		}
	}
}

func TestCompleteSection_Idempotent(t *testing.T) {
	progress, _, _ := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	once, changed := progress.CompleteSection(doc, 1, "bits-and-bytes")
	if !changed {
		t.Fatal("first completion should change the document")
	}

	twice, changed := progress.CompleteSection(once, 1, "bits-and-bytes")
	if changed {
		t.Error("second completion should be a no-op")
	}
	if twice != once {
		t.Error("second completion should return the same document")
	}
	if got := once.Modules[1].CompletedSections(); got != 1 {
		t.Errorf("completed sections = %d, want 1", got)
	}
}

func TestCompleteSection_UnknownIDs(t *testing.T) {
	progress, _, _ := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	tests := []struct {
		name      string
		moduleID  int
		sectionID string
	}{
		{"unknown module", 9, "bits-and-bytes"},
		{"unknown section", 1, "no-such-section"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, changed := progress.CompleteSection(doc, tc.moduleID, tc.sectionID)
			if changed {
				t.Error("expected no change")
			}
			if result != doc {
				t.Error("expected the same document back")
			}
		})
	}
}

func TestCompleteSection_DoesNotMutateInput(t *testing.T) {
	progress, _, _ := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	before, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	progress.CompleteSection(doc, 1, "bits-and-bytes")

	after, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("CompleteSection mutated its input document")
	}
}

func TestCompleteSection_PercentageConsistency(t *testing.T) {
	progress, _, store := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	previous := 0
	for _, sectionID := range sectionIDs(store.Catalog(), 2) {
		doc, _ = progress.CompleteSection(doc, 2, sectionID)
		module := doc.Modules[2]

		completed := module.CompletedSections()
		total := len(module.Sections)
		want := (completed*100*2 + total) / (total * 2)
		if module.CompletionPercentage != want {
			t.Errorf("after %s: percentage = %d, want %d", sectionID, module.CompletionPercentage, want)
		}
		if module.CompletionPercentage < previous {
			t.Errorf("percentage decreased from %d to %d", previous, module.CompletionPercentage)
		}
		previous = module.CompletionPercentage
	}
}

func TestCompleteSection_DirectCompletionUnlocksModule(t *testing.T) {
	progress, _, _ := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	// Module 3 is LOCKED; completing one of its sections directly is treated
	// as evidence the module is active.
	doc, changed := progress.CompleteSection(doc, 3, "packets")
	if !changed {
		t.Fatal("expected a change")
	}
	if got := doc.Modules[3].Status; got != model.StatusInProgress {
		t.Errorf("module 3 status = %q, want IN_PROGRESS", got)
	}
	if doc.Modules[3].StartedAt == nil {
		t.Error("StartedAt should be set on first activity")
	}
}

func TestCompleteSection_StartedAtSetOnce(t *testing.T) {
	progress, _, _ := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	doc, _ = progress.CompleteSection(doc, 1, "bits-and-bytes")
	started := doc.Modules[1].StartedAt
	if started == nil {
		t.Fatal("StartedAt should be set by the first completion")
	}

	doc, _ = progress.CompleteSection(doc, 1, "counting-in-binary")
	if !doc.Modules[1].StartedAt.Equal(*started) {
		t.Error("StartedAt must not change after the first completion")
	}
}

func TestCompleteSection_CascadeUnlock(t *testing.T) {
	progress, query, store := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	for _, sectionID := range sectionIDs(store.Catalog(), 1) {
		doc, _ = progress.CompleteSection(doc, 1, sectionID)
	}

	m1 := doc.Modules[1]
	if m1.Status != model.StatusCompleted {
		t.Errorf("module 1 status = %q, want COMPLETED", m1.Status)
	}
	if m1.CompletionPercentage != 100 {
		t.Errorf("module 1 percentage = %d, want 100", m1.CompletionPercentage)
	}
	if m1.CompletedAt == nil {
		t.Error("module 1 CompletedAt should be set")
	}

	if got := doc.Modules[2].Status; got != model.StatusInProgress {
		t.Errorf("module 2 status = %q, want IN_PROGRESS after cascade", got)
	}
	if doc.Modules[2].StartedAt == nil {
		t.Error("module 2 StartedAt should be set by the cascade")
	}

	// Module 3 stays locked until module 2 also completes.
	if got := query.ModuleStatus(doc, 3); got != model.StatusLocked {
		t.Errorf("module 3 status = %q, want LOCKED", got)
	}

	for _, sectionID := range sectionIDs(store.Catalog(), 2) {
		doc, _ = progress.CompleteSection(doc, 2, sectionID)
	}
	if got := doc.Modules[3].Status; got != model.StatusInProgress {
		t.Errorf("module 3 status = %q, want IN_PROGRESS after module 2 completes", got)
	}
}

func TestCompleteSection_ConcreteScenario(t *testing.T) {
	progress, query, store := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	sections := sectionIDs(store.Catalog(), 1)
	if len(sections) != 5 {
		t.Fatalf("module 1 has %d sections, the scenario expects 5", len(sections))
	}

	for _, sectionID := range sections {
		doc, _ = progress.CompleteSection(doc, 1, sectionID)
	}

	if doc.Modules[1].Status != model.StatusCompleted {
		t.Error("module 1 should be COMPLETED")
	}
	if doc.Modules[1].CompletionPercentage != 100 {
		t.Error("module 1 should be at 100%")
	}
	if doc.Modules[2].Status != model.StatusInProgress {
		t.Error("module 2 should be IN_PROGRESS")
	}
	if got := query.OverallCompletion(doc); got != 33 {
		t.Errorf("overall completion = %d, want 33", got)
	}

	last := sections[len(sections)-1]
	if doc.CurrentModuleID != 1 || doc.CurrentSectionID == nil || *doc.CurrentSectionID != last {
		t.Error("current location should point at the last completed section")
	}
}

func TestUpdatePreferences(t *testing.T) {
	progress, _, _ := newEngine()
	doc := progress.NewInitialDocument(model.VariantA)

	prefs := model.UserPreferences{AnimationSpeed: model.SpeedFast, AutoplayAnimations: false}
	next := progress.UpdatePreferences(doc, prefs)
	if next == doc {
		t.Fatal("expected a new document")
	}
	if next.Preferences != prefs {
		t.Errorf("preferences = %+v, want %+v", next.Preferences, prefs)
	}

	// Writing identical preferences is a no-op.
	same := progress.UpdatePreferences(next, prefs)
	if same != next {
		t.Error("identical preferences should return the same document")
	}
}
