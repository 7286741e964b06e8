package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func validRawDocument(t *testing.T) map[string]interface{} {
	t.Helper()

	text := `{
		"schemaVersion": 1,
		"learnerVariant": "A",
		"lastUpdated": "2026-01-10T12:00:00Z",
		"currentModuleId": 1,
		"currentSectionId": null,
		"modules": {
			"1": {"id": 1, "title": "Module One", "status": "IN_PROGRESS", "sections": [], "completionPercentage": 0},
			"2": {"id": 2, "title": "Module Two", "status": "LOCKED", "sections": [], "completionPercentage": 0},
			"3": {"id": 3, "title": "Module Three", "status": "LOCKED", "sections": [], "completionPercentage": 0}
		},
		"achievements": [],
		"sessionHistory": [],
		"preferences": {"animationSpeed": "normal", "autoplayAnimations": true}
	}`

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		t.Fatalf("failed to build valid document: %v", err)
	}
	return raw
}

func TestValidate_ValidDocument(t *testing.T) {
	v := NewValidator([]int{1, 2, 3})

	result := v.Validate(validRawDocument(t))
	if !result.Valid {
		t.Fatalf("expected valid document, got violations: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

func TestValidate_NullDocument(t *testing.T) {
	v := NewValidator([]int{1, 2, 3})

	result := v.Validate(nil)
	if result.Valid {
		t.Fatal("expected null document to be invalid")
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(raw map[string]interface{})
		want    string
	}{
		{
			name:    "schemaVersion not an integer",
			corrupt: func(raw map[string]interface{}) { raw["schemaVersion"] = "one" },
			want:    "schemaVersion",
		},
		{
			name:    "schemaVersion fractional",
			corrupt: func(raw map[string]interface{}) { raw["schemaVersion"] = 1.5 },
			want:    "schemaVersion",
		},
		{
			name:    "unknown learnerVariant",
			corrupt: func(raw map[string]interface{}) { raw["learnerVariant"] = "C" },
			want:    "learnerVariant",
		},
		{
			name:    "currentModuleId out of range",
			corrupt: func(raw map[string]interface{}) { raw["currentModuleId"] = float64(9) },
			want:    "currentModuleId",
		},
		{
			name:    "currentSectionId wrong type",
			corrupt: func(raw map[string]interface{}) { raw["currentSectionId"] = float64(4) },
			want:    "currentSectionId",
		},
		{
			name:    "modules not an object",
			corrupt: func(raw map[string]interface{}) { raw["modules"] = []interface{}{} },
			want:    "modules must be an object",
		},
		{
			name: "missing module",
			corrupt: func(raw map[string]interface{}) {
				delete(raw["modules"].(map[string]interface{}), "2")
			},
			want: "missing module 2",
		},
		{
			name: "module id not matching key",
			corrupt: func(raw map[string]interface{}) {
				raw["modules"].(map[string]interface{})["1"].(map[string]interface{})["id"] = float64(7)
			},
			want: "not matching its key",
		},
		{
			name: "module status outside enum",
			corrupt: func(raw map[string]interface{}) {
				raw["modules"].(map[string]interface{})["3"].(map[string]interface{})["status"] = "DONE"
			},
			want: "status",
		},
		{
			name: "module sections not a list",
			corrupt: func(raw map[string]interface{}) {
				raw["modules"].(map[string]interface{})["1"].(map[string]interface{})["sections"] = "none"
			},
			want: "sections",
		},
		{
			name: "completionPercentage not numeric",
			corrupt: func(raw map[string]interface{}) {
				raw["modules"].(map[string]interface{})["2"].(map[string]interface{})["completionPercentage"] = "50"
			},
			want: "completionPercentage",
		},
		{
			name:    "achievements not a list",
			corrupt: func(raw map[string]interface{}) { raw["achievements"] = map[string]interface{}{} },
			want:    "achievements",
		},
		{
			name:    "sessionHistory not a list",
			corrupt: func(raw map[string]interface{}) { raw["sessionHistory"] = nil },
			want:    "sessionHistory",
		},
		{
			name: "animationSpeed outside enum",
			corrupt: func(raw map[string]interface{}) {
				raw["preferences"].(map[string]interface{})["animationSpeed"] = "turbo"
			},
			want: "animationSpeed",
		},
		{
			name: "autoplayAnimations not boolean",
			corrupt: func(raw map[string]interface{}) {
				raw["preferences"].(map[string]interface{})["autoplayAnimations"] = "yes"
			},
			want: "autoplayAnimations",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := NewValidator([]int{1, 2, 3})
			raw := validRawDocument(t)
			tc.corrupt(raw)

			result := v.Validate(raw)
			if result.Valid {
				t.Fatal("expected document to be invalid")
			}

			found := false
			for _, e := range result.Errors {
				if strings.Contains(e, tc.want) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected a violation mentioning %q, got %v", tc.want, result.Errors)
			}
		})
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	v := NewValidator([]int{1, 2, 3})
	raw := validRawDocument(t)
	raw["learnerVariant"] = "X"
	raw["currentModuleId"] = "first"
	raw["achievements"] = "none"

	result := v.Validate(raw)
	if result.Valid {
		t.Fatal("expected document to be invalid")
	}
	if len(result.Errors) < 3 {
		t.Errorf("expected at least 3 collected violations, got %d: %v", len(result.Errors), result.Errors)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	v := NewValidator([]int{1, 2, 3})
	raw := validRawDocument(t)

	before, err := json.Marshal(raw)
	if err != nil {
		t.Fatal(err)
	}

	v.Validate(raw)

	after, err := json.Marshal(raw)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Validate mutated its input")
	}
}
