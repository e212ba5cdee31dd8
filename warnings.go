package rulegrid

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal extraction issue
type WarningKind int

const (
	// WarningMalformedTable marks a table whose grid has empty slots
	WarningMalformedTable WarningKind = iota

	// WarningUnbalancedRestore marks a page with more Q than q operators
	WarningUnbalancedRestore
)

// String returns the kind name
func (k WarningKind) String() string {
	switch k {
	case WarningMalformedTable:
		return "malformed-table"
	case WarningUnbalancedRestore:
		return "unbalanced-restore"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found while extracting a page. Extraction
// succeeded but the result may be incomplete.
type Warning struct {
	Page    int
	Table   int // index on the page, -1 when the warning is about the page
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	if w.Table >= 0 {
		return fmt.Sprintf("page %d table %d: %s: %s", w.Page, w.Table, w.Kind, w.Message)
	}
	return fmt.Sprintf("page %d: %s: %s", w.Page, w.Kind, w.Message)
}

// FormatWarnings joins warnings into one line each
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
