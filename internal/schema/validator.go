package schema

import (
	"fmt"
	"math"
	"sort"
)

// ValidationResult carries every violation found in a candidate document.
// Checks never short-circuit, so a single log line can show the full
// diagnostic for a rejected document.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validator checks decoded JSON against the progress document schema. It
// works on untyped maps on purpose: typed unmarshalling would collapse
// "structurally invalid but parseable" into a decode error and lose the
// per-field diagnostics.
type Validator struct {
	moduleIDs []int
}

func NewValidator(moduleIDs []int) *Validator {
	ids := make([]int, len(moduleIDs))
	copy(ids, moduleIDs)
	sort.Ints(ids)
	return &Validator{moduleIDs: ids}
}

var animationSpeeds = map[string]bool{"slow": true, "normal": true, "fast": true}
var learnerVariants = map[string]bool{"A": true, "B": true}
var moduleStatuses = map[string]bool{"LOCKED": true, "IN_PROGRESS": true, "COMPLETED": true}

// Validate runs every schema check against the candidate and collects all
// violations. The candidate is never mutated.
func (v *Validator) Validate(candidate map[string]interface{}) ValidationResult {
	var errs []string

	if candidate == nil {
		return ValidationResult{Valid: false, Errors: []string{"document is null"}}
	}

	if _, ok := asInt(candidate["schemaVersion"]); !ok {
		errs = append(errs, "schemaVersion must be an integer")
	}

	if variant, ok := candidate["learnerVariant"].(string); !ok || !learnerVariants[variant] {
		errs = append(errs, "learnerVariant must be \"A\" or \"B\"")
	}

	if id, ok := asInt(candidate["currentModuleId"]); !ok || !v.knownModule(id) {
		errs = append(errs, fmt.Sprintf("currentModuleId must be one of %v", v.moduleIDs))
	}

	if raw, present := candidate["currentSectionId"]; present && raw != nil {
		if _, ok := raw.(string); !ok {
			errs = append(errs, "currentSectionId must be a string or null")
		}
	}

	errs = append(errs, v.validateModules(candidate["modules"])...)

	if _, ok := candidate["achievements"].([]interface{}); !ok {
		errs = append(errs, "achievements must be a list")
	}

	if _, ok := candidate["sessionHistory"].([]interface{}); !ok {
		errs = append(errs, "sessionHistory must be a list")
	}

	errs = append(errs, validatePreferences(candidate["preferences"])...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (v *Validator) validateModules(raw interface{}) []string {
	modules, ok := raw.(map[string]interface{})
	if !ok {
		return []string{"modules must be an object"}
	}

	var errs []string

	for _, id := range v.moduleIDs {
		key := fmt.Sprintf("%d", id)
		rawModule, present := modules[key]
		if !present {
			errs = append(errs, fmt.Sprintf("modules is missing module %d", id))
			continue
		}
		module, ok := rawModule.(map[string]interface{})
		if !ok {
			errs = append(errs, fmt.Sprintf("module %d must be an object", id))
			continue
		}

		if moduleID, ok := asInt(module["id"]); !ok || moduleID != id {
			errs = append(errs, fmt.Sprintf("module %d has an id not matching its key", id))
		}
		if _, ok := module["title"].(string); !ok {
			errs = append(errs, fmt.Sprintf("module %d title must be a string", id))
		}
		if status, ok := module["status"].(string); !ok || !moduleStatuses[status] {
			errs = append(errs, fmt.Sprintf("module %d status must be LOCKED, IN_PROGRESS or COMPLETED", id))
		}
		if _, ok := module["sections"].([]interface{}); !ok {
			errs = append(errs, fmt.Sprintf("module %d sections must be a list", id))
		}
		if _, ok := module["completionPercentage"].(float64); !ok {
			errs = append(errs, fmt.Sprintf("module %d completionPercentage must be a number", id))
		}
	}

	for key := range modules {
		known := false
		for _, id := range v.moduleIDs {
			if key == fmt.Sprintf("%d", id) {
				known = true
				break
			}
		}
		if !known {
			errs = append(errs, fmt.Sprintf("modules contains unknown module key %q", key))
		}
	}

	return errs
}

func validatePreferences(raw interface{}) []string {
	preferences, ok := raw.(map[string]interface{})
	if !ok {
		return []string{"preferences must be an object"}
	}

	var errs []string
	if speed, ok := preferences["animationSpeed"].(string); !ok || !animationSpeeds[speed] {
		errs = append(errs, "preferences.animationSpeed must be slow, normal or fast")
	}
	if _, ok := preferences["autoplayAnimations"].(bool); !ok {
		errs = append(errs, "preferences.autoplayAnimations must be a boolean")
	}
	return errs
}

func (v *Validator) knownModule(id int) bool {
	for _, known := range v.moduleIDs {
		if known == id {
			return true
		}
	}
	return false
}

// asInt accepts the numeric shapes JSON decoding produces for whole numbers.
func asInt(raw interface{}) (int, bool) {
	switch n := raw.(type) {
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case int:
		return n, true
	}
	return 0, false
}
