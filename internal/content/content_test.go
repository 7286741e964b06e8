package content

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogShape(t *testing.T) {
	catalog := Default()

	wantSections := map[int]int{1: 5, 2: 9, 3: 11}
	wantPrereqs := map[int][]int{1: {}, 2: {1}, 3: {2}}

	ids := catalog.ModuleIDs()
	if len(ids) != 3 {
		t.Fatalf("modules = %d, want 3", len(ids))
	}

	for _, id := range ids {
		module := catalog.Module(id)
		if module == nil {
			t.Fatalf("module %d missing", id)
		}
		if got := len(module.Sections); got != wantSections[id] {
			t.Errorf("module %d has %d sections, want %d", id, got, wantSections[id])
		}
		if got, want := module.Prerequisites, wantPrereqs[id]; len(got) != len(want) {
			t.Errorf("module %d prerequisites = %v, want %v", id, got, want)
		} else {
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("module %d prerequisites = %v, want %v", id, got, want)
				}
			}
		}
	}

	if len(catalog.Achievements) == 0 {
		t.Error("default catalog should ship achievements")
	}
	if catalog.Achievement("first-steps") == nil {
		t.Error("first-steps achievement missing")
	}

	if err := catalog.validate(); err != nil {
		t.Errorf("default catalog should validate: %v", err)
	}
}

func TestCatalogLookups(t *testing.T) {
	catalog := Default()

	if catalog.Module(42) != nil {
		t.Error("unknown module id should return nil")
	}
	if catalog.Achievement("no-such-badge") != nil {
		t.Error("unknown achievement id should return nil")
	}

	module := catalog.Module(1)
	if module == nil || module.Title == "" {
		t.Error("module 1 should exist with a title")
	}
	if module.Section("bits-and-bytes") == nil {
		t.Error("module 1 should contain bits-and-bytes")
	}
	if module.Section("no-such-section") != nil {
		t.Error("unknown section id should return nil")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	source := `
modules:
  - id: 1
    title: Basics
    sections:
      - id: intro
        title: Introduction
        estimated_minutes: 10
      - id: wrap-up
        title: Wrap Up
        estimated_minutes: 5
    prerequisites: []
  - id: 2
    title: Advanced
    sections:
      - id: deep-dive
        title: Deep Dive
        estimated_minutes: 30
    prerequisites: [1]
achievements:
  - id: starter
    title: Starter
    criteria: Complete the first section
`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if len(catalog.Modules) != 2 {
		t.Fatalf("modules = %d, want 2", len(catalog.Modules))
	}
	module := catalog.Module(2)
	if module == nil || len(module.Prerequisites) != 1 || module.Prerequisites[0] != 1 {
		t.Error("module 2 should require module 1")
	}
	section := catalog.Module(1).Sections[0]
	if section.ID != "intro" || section.EstimatedMinutes != 10 {
		t.Errorf("unexpected first section %+v", section)
	}
	if catalog.Achievement("starter") == nil {
		t.Error("starter achievement missing")
	}
}

func TestLoadFile_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "empty catalog",
			source: "modules: []\n",
		},
		{
			name: "duplicate module id",
			source: `
modules:
  - id: 1
    title: A
    sections: [{id: a, title: A}]
  - id: 1
    title: B
    sections: [{id: b, title: B}]
`,
		},
		{
			name: "module without sections",
			source: `
modules:
  - id: 1
    title: A
    sections: []
`,
		},
		{
			name: "unknown prerequisite",
			source: `
modules:
  - id: 1
    title: A
    sections: [{id: a, title: A}]
    prerequisites: [9]
`,
		},
		{
			name: "self prerequisite",
			source: `
modules:
  - id: 1
    title: A
    sections: [{id: a, title: A}]
    prerequisites: [1]
`,
		},
		{
			name: "duplicate section id",
			source: `
modules:
  - id: 1
    title: A
    sections: [{id: a, title: A}, {id: a, title: B}]
`,
		},
		{
			name:   "not yaml",
			source: "{{{",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			if err := os.WriteFile(path, []byte(tc.source), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStoreReplace(t *testing.T) {
	store := NewStore(Default())

	replacement := &Catalog{
		Modules: []ModuleDef{{
			ID:       1,
			Title:    "Only Module",
			Sections: []SectionDef{{ID: "only", Title: "Only"}},
		}},
	}
	store.Replace(replacement)

	if got := store.Catalog(); got != replacement {
		t.Error("Catalog() should return the replacement")
	}
}
