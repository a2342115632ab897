package potential

import (
	"fmt"
	"strings"

	pottypes "github.com/turtacn/potvault/pkg/types/potential"
)

// ValidityViolations checks a parsed record against the rules that separate
// a well-identified potential from one that needs a quirk entry:
//
//   - the element must be a known chemical element symbol,
//   - the element symbol must appear in the title line,
//   - the version must be present and not predate the undated sentinel.
//
// The returned slice holds one human-readable description per violated rule;
// an empty slice means the record is fully valid.
func ValidityViolations(rec *Record) []string {
	var violations []string

	if rec.Element == "" {
		violations = append(violations, "element is missing")
	} else if !KnownElement(rec.Element) {
		violations = append(violations,
			fmt.Sprintf("element '%s' is not a known chemical element", rec.Element))
	}

	if rec.Element != "" && !strings.Contains(rec.Title, rec.Element) {
		violations = append(violations,
			fmt.Sprintf("element '%s' does not appear in the title '%s'", rec.Element, rec.Title))
	}

	if rec.Version == 0 {
		violations = append(violations, "version is missing")
	} else if rec.Version < pottypes.VersionUndated {
		violations = append(violations,
			fmt.Sprintf("version %d predates the undated sentinel %d",
				rec.Version, pottypes.VersionUndated))
	}

	return violations
}

// IsValid reports whether rec passes every validity rule.
func (r *Record) IsValid() bool {
	return len(ValidityViolations(r)) == 0
}
