package service

import (
	"math"
	"time"

	"learnpath_backend/internal/content"
	"learnpath_backend/internal/model"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ProgressService is the completion engine. Every method is a pure function
// of the document it is given: the input is never mutated, a changed result
// is always a fresh clone. Persistence is the caller's job.
type ProgressService struct {
	Content *content.Store
}

func NewProgressService(contentStore *content.Store) *ProgressService {
	return &ProgressService{Content: contentStore}
}

// NewInitialDocument builds the first-use document: the first module open
// and in progress, every later module locked, nothing completed.
func (s *ProgressService) NewInitialDocument(variant model.LearnerVariant) *model.ProgressDocument {
	catalog := s.Content.Catalog()
	moduleIDs := catalog.ModuleIDs()

	modules := make(map[int]*model.ModuleProgress, len(moduleIDs))
	for i, id := range moduleIDs {
		def := catalog.Module(id)

		sections := make([]model.SectionProgress, len(def.Sections))
		for j, sectionDef := range def.Sections {
			sections[j] = model.SectionProgress{
				ID:    sectionDef.ID,
				Title: sectionDef.Title,
			}
		}

		status := model.StatusLocked
		if i == 0 {
			status = model.StatusInProgress
		}

		modules[id] = &model.ModuleProgress{
			ID:       id,
			Title:    def.Title,
			Status:   status,
			Sections: sections,
		}
	}

	return &model.ProgressDocument{
		SchemaVersion:   model.CurrentSchemaVersion,
		LearnerVariant:  variant,
		LastUpdated:     time.Now(),
		CurrentModuleID: moduleIDs[0],
		Modules:         modules,
		Achievements:    []model.Achievement{},
		SessionHistory:  []model.SessionRecord{},
		Preferences: model.UserPreferences{
			AnimationSpeed:     model.SpeedNormal,
			AutoplayAnimations: true,
		},
	}
}

// CompleteSection marks a section complete and runs the module state
// machine: percentage recompute, status transition, and the unlock of the
// immediately following module when its prerequisites are now satisfied.
// Unknown ids and already-complete sections return the document unchanged.
func (s *ProgressService) CompleteSection(doc *model.ProgressDocument, moduleID int, sectionID string) (*model.ProgressDocument, bool) {
	module, ok := doc.Modules[moduleID]
	if !ok || module.Section(sectionID) == nil {
		logger.Log.Warn("Ignoring completion of unknown module or section",
			zap.Int("moduleId", moduleID), zap.String("sectionId", sectionID))
		return doc, false
	}
	if module.Section(sectionID).Completed {
		return doc, false
	}

	now := time.Now()
	next := doc.Clone()
	module = next.Modules[moduleID]

	section := module.Section(sectionID)
	section.Completed = true
	section.CompletedAt = &now

	module.CompletionPercentage = percentage(module.CompletedSections(), len(module.Sections))

	becameCompleted := false
	if module.CompletionPercentage == 100 {
		module.Status = model.StatusCompleted
		module.CompletedAt = &now
		becameCompleted = true
	} else if module.Status == model.StatusLocked {
		// A completion in a locked module means the module is in fact
		// active; repair the status rather than reject the progress.
		module.Status = model.StatusInProgress
	}

	if module.StartedAt == nil {
		module.StartedAt = &now
	}

	if becameCompleted {
		s.cascadeUnlock(next, moduleID, now)
	}

	next.CurrentModuleID = moduleID
	next.CurrentSectionID = &sectionID
	next.LastUpdated = now

	monitoring.SectionCompletions.Inc()
	return next, true
}

// cascadeUnlock opens module N+1 after module N completes, if every one of
// its prerequisites is now COMPLETED. Only the direct successor is
// considered: in a linear curriculum a single completion can satisfy at
// most the next module's prerequisites.
func (s *ProgressService) cascadeUnlock(doc *model.ProgressDocument, completedID int, now time.Time) {
	nextModule, ok := doc.Modules[completedID+1]
	if !ok || nextModule.Status != model.StatusLocked {
		return
	}

	def := s.Content.Catalog().Module(completedID + 1)
	if def == nil {
		return
	}

	for _, prereq := range def.Prerequisites {
		m, ok := doc.Modules[prereq]
		if !ok || m.Status != model.StatusCompleted {
			return
		}
	}

	nextModule.Status = model.StatusInProgress
	nextModule.StartedAt = &now
	logger.Log.Info("Unlocked module", zap.Int("moduleId", nextModule.ID))
}

// UpdatePreferences replaces the user preferences.
func (s *ProgressService) UpdatePreferences(doc *model.ProgressDocument, prefs model.UserPreferences) *model.ProgressDocument {
	if doc.Preferences == prefs {
		return doc
	}
	next := doc.Clone()
	next.Preferences = prefs
	next.LastUpdated = time.Now()
	return next
}

// percentage rounds half up, so 1/3 complete reads as 33 and 2/3 as 67.
func percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(completed*100)/float64(total) + 0.5))
}
