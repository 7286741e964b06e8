package content

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// SectionDef describes one completable unit of content within a module.
type SectionDef struct {
	ID               string `yaml:"id" json:"id"`
	Title            string `yaml:"title" json:"title"`
	EstimatedMinutes int    `yaml:"estimated_minutes" json:"estimatedMinutes"`
}

// ModuleDef describes one curriculum module and its gating prerequisites.
type ModuleDef struct {
	ID            int          `yaml:"id" json:"id"`
	Title         string       `yaml:"title" json:"title"`
	Sections      []SectionDef `yaml:"sections" json:"sections"`
	Prerequisites []int        `yaml:"prerequisites" json:"prerequisites"`
}

// AchievementDef describes an unlockable badge. Criteria is a descriptor for
// the UI layer; deciding when an achievement is earned is the caller's job.
type AchievementDef struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Criteria string `yaml:"criteria" json:"criteria"`
}

// Catalog is the read-only curriculum and achievement metadata table.
type Catalog struct {
	Modules      []ModuleDef      `yaml:"modules" json:"modules"`
	Achievements []AchievementDef `yaml:"achievements" json:"achievements"`
}

// Module returns the module definition for an id, or nil.
func (c *Catalog) Module(id int) *ModuleDef {
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			return &c.Modules[i]
		}
	}
	return nil
}

// Section returns the section definition for an id, or nil.
func (m *ModuleDef) Section(id string) *SectionDef {
	for i := range m.Sections {
		if m.Sections[i].ID == id {
			return &m.Sections[i]
		}
	}
	return nil
}

// Achievement returns the achievement definition for an id, or nil.
func (c *Catalog) Achievement(id string) *AchievementDef {
	for i := range c.Achievements {
		if c.Achievements[i].ID == id {
			return &c.Achievements[i]
		}
	}
	return nil
}

// ModuleIDs returns the module ids in ascending order.
func (c *Catalog) ModuleIDs() []int {
	ids := make([]int, len(c.Modules))
	for i, m := range c.Modules {
		ids[i] = m.ID
	}
	sort.Ints(ids)
	return ids
}

func (c *Catalog) validate() error {
	if len(c.Modules) == 0 {
		return fmt.Errorf("catalog has no modules")
	}
	seen := make(map[int]bool, len(c.Modules))
	for _, m := range c.Modules {
		if seen[m.ID] {
			return fmt.Errorf("duplicate module id %d", m.ID)
		}
		seen[m.ID] = true
		if len(m.Sections) == 0 {
			return fmt.Errorf("module %d has no sections", m.ID)
		}
		sectionSeen := make(map[string]bool, len(m.Sections))
		for _, s := range m.Sections {
			if s.ID == "" {
				return fmt.Errorf("module %d has a section without an id", m.ID)
			}
			if sectionSeen[s.ID] {
				return fmt.Errorf("module %d has duplicate section id %q", m.ID, s.ID)
			}
			sectionSeen[s.ID] = true
		}
		for _, p := range m.Prerequisites {
			if p == m.ID {
				return fmt.Errorf("module %d lists itself as a prerequisite", m.ID)
			}
		}
	}
	for _, m := range c.Modules {
		for _, p := range m.Prerequisites {
			if !seen[p] {
				return fmt.Errorf("module %d requires unknown module %d", m.ID, p)
			}
		}
	}
	achievementSeen := make(map[string]bool, len(c.Achievements))
	for _, a := range c.Achievements {
		if achievementSeen[a.ID] {
			return fmt.Errorf("duplicate achievement id %q", a.ID)
		}
		achievementSeen[a.ID] = true
	}
	return nil
}

// LoadFile reads a catalog override from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if err := catalog.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	return &catalog, nil
}

// Store holds the active catalog and allows hot replacement on reload.
type Store struct {
	mu      sync.RWMutex
	catalog *Catalog
}

func NewStore(catalog *Catalog) *Store {
	return &Store{catalog: catalog}
}

func (s *Store) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

func (s *Store) Replace(catalog *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
}
