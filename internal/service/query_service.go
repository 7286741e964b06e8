package service

import (
	"math"

	"learnpath_backend/internal/content"
	"learnpath_backend/internal/model"
)

// QueryService is the read-only layer: pure derivations over a document.
type QueryService struct {
	Content *content.Store
}

func NewQueryService(contentStore *content.Store) *QueryService {
	return &QueryService{Content: contentStore}
}

// ModuleStatus returns the module's effective status. The stored status is
// only a hint: whenever any direct prerequisite is not COMPLETED the module
// reads as LOCKED, overriding a stale stored value.
func (q *QueryService) ModuleStatus(doc *model.ProgressDocument, moduleID int) model.ModuleStatus {
	module, ok := doc.Modules[moduleID]
	if !ok {
		return model.StatusLocked
	}

	def := q.Content.Catalog().Module(moduleID)
	if def != nil {
		for _, prereq := range def.Prerequisites {
			m, ok := doc.Modules[prereq]
			if !ok || m.Status != model.StatusCompleted {
				return model.StatusLocked
			}
		}
	}

	return module.Status
}

// OverallCompletion is the equal-weight mean of the module percentages,
// rounded half up. Modules count the same regardless of section count.
func (q *QueryService) OverallCompletion(doc *model.ProgressDocument) int {
	ids := q.Content.Catalog().ModuleIDs()
	if len(ids) == 0 {
		return 0
	}

	sum := 0
	for _, id := range ids {
		if module, ok := doc.Modules[id]; ok {
			sum += module.CompletionPercentage
		}
	}

	return int(math.Floor(float64(sum)/float64(len(ids)) + 0.5))
}

// NextModule returns the id of the next sequential module, or nil when the
// current module is the last or the next one is still locked.
func (q *QueryService) NextModule(doc *model.ProgressDocument, currentID int) *int {
	nextID := currentID + 1
	if q.Content.Catalog().Module(nextID) == nil {
		return nil
	}
	if q.ModuleStatus(doc, nextID) == model.StatusLocked {
		return nil
	}
	return &nextID
}

// PreviousModule returns the id of the previous sequential module, or nil
// at the start of the curriculum.
func (q *QueryService) PreviousModule(currentID int) *int {
	prevID := currentID - 1
	if q.Content.Catalog().Module(prevID) == nil {
		return nil
	}
	return &prevID
}

// Location is the learner's last visited position.
type Location struct {
	ModuleID  int     `json:"moduleId"`
	SectionID *string `json:"sectionId"`
}

// LastVisitedLocation reports where the learner left off, defaulting to the
// first module.
func (q *QueryService) LastVisitedLocation(doc *model.ProgressDocument) Location {
	moduleID := doc.CurrentModuleID
	if moduleID == 0 {
		ids := q.Content.Catalog().ModuleIDs()
		if len(ids) > 0 {
			moduleID = ids[0]
		}
	}
	return Location{ModuleID: moduleID, SectionID: doc.CurrentSectionID}
}
