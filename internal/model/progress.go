package model

import "time"

// CurrentSchemaVersion is the version stamped on documents produced by this
// build. Loaded documents with an older version run through schema migration.
const CurrentSchemaVersion = 1

type ModuleStatus string

const (
	StatusLocked     ModuleStatus = "LOCKED"
	StatusInProgress ModuleStatus = "IN_PROGRESS"
	StatusCompleted  ModuleStatus = "COMPLETED"
)

type LearnerVariant string

const (
	VariantA LearnerVariant = "A"
	VariantB LearnerVariant = "B"
)

type AnimationSpeed string

const (
	SpeedSlow   AnimationSpeed = "slow"
	SpeedNormal AnimationSpeed = "normal"
	SpeedFast   AnimationSpeed = "fast"
)

// ProgressDocument is the root aggregate for a single learner. Engine
// functions never mutate a document in place; they clone, modify the clone
// and return it, so callers can keep the previous snapshot for rollback.
type ProgressDocument struct {
	SchemaVersion    int                     `json:"schemaVersion"`
	LearnerVariant   LearnerVariant          `json:"learnerVariant"`
	LastUpdated      time.Time               `json:"lastUpdated"`
	CurrentModuleID  int                     `json:"currentModuleId"`
	CurrentSectionID *string                 `json:"currentSectionId"`
	Modules          map[int]*ModuleProgress `json:"modules"`
	Achievements     []Achievement           `json:"achievements"`
	SessionHistory   []SessionRecord         `json:"sessionHistory"`
	Preferences      UserPreferences         `json:"preferences"`
}

type ModuleProgress struct {
	ID                   int               `json:"id"`
	Title                string            `json:"title"`
	Status               ModuleStatus      `json:"status"`
	Sections             []SectionProgress `json:"sections"`
	CompletionPercentage int               `json:"completionPercentage"`
	StartedAt            *time.Time        `json:"startedAt"`
	CompletedAt          *time.Time        `json:"completedAt"`
}

// Section completion is monotonic: once Completed is true it never reverts.
type SectionProgress struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

type Achievement struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// SessionRecord tracks one learning session. At most one record in a
// document's history may have a nil SessionEnd.
type SessionRecord struct {
	SessionStart   time.Time  `json:"sessionStart"`
	SessionEnd     *time.Time `json:"sessionEnd"`
	ModulesVisited []int      `json:"modulesVisited"`
}

type UserPreferences struct {
	AnimationSpeed     AnimationSpeed `json:"animationSpeed"`
	AutoplayAnimations bool           `json:"autoplayAnimations"`
}

// Clone returns a deep copy of the document.
func (d *ProgressDocument) Clone() *ProgressDocument {
	next := *d

	if d.CurrentSectionID != nil {
		sectionID := *d.CurrentSectionID
		next.CurrentSectionID = &sectionID
	}

	next.Modules = make(map[int]*ModuleProgress, len(d.Modules))
	for id, m := range d.Modules {
		next.Modules[id] = m.clone()
	}

	next.Achievements = make([]Achievement, len(d.Achievements))
	copy(next.Achievements, d.Achievements)

	next.SessionHistory = make([]SessionRecord, len(d.SessionHistory))
	for i, s := range d.SessionHistory {
		next.SessionHistory[i] = s.clone()
	}

	return &next
}

// HasAchievement reports whether an achievement id is already recorded.
func (d *ProgressDocument) HasAchievement(id string) bool {
	for _, a := range d.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// ActiveSession returns the open session record, or nil if none is open.
// Only the last record can be open.
func (d *ProgressDocument) ActiveSession() *SessionRecord {
	if len(d.SessionHistory) == 0 {
		return nil
	}
	last := &d.SessionHistory[len(d.SessionHistory)-1]
	if last.SessionEnd == nil {
		return last
	}
	return nil
}

func (m *ModuleProgress) clone() *ModuleProgress {
	next := *m

	if m.StartedAt != nil {
		t := *m.StartedAt
		next.StartedAt = &t
	}
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		next.CompletedAt = &t
	}

	next.Sections = make([]SectionProgress, len(m.Sections))
	for i, s := range m.Sections {
		next.Sections[i] = s
		if s.CompletedAt != nil {
			t := *s.CompletedAt
			next.Sections[i].CompletedAt = &t
		}
	}

	return &next
}

// Section returns the section with the given id, or nil.
func (m *ModuleProgress) Section(id string) *SectionProgress {
	for i := range m.Sections {
		if m.Sections[i].ID == id {
			return &m.Sections[i]
		}
	}
	return nil
}

// CompletedSections counts sections marked complete.
func (m *ModuleProgress) CompletedSections() int {
	count := 0
	for _, s := range m.Sections {
		if s.Completed {
			count++
		}
	}
	return count
}

func (s SessionRecord) clone() SessionRecord {
	next := s
	if s.SessionEnd != nil {
		t := *s.SessionEnd
		next.SessionEnd = &t
	}
	next.ModulesVisited = make([]int, len(s.ModulesVisited))
	copy(next.ModulesVisited, s.ModulesVisited)
	return next
}
