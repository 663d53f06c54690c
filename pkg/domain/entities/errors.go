package entities

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from an input dataset
type SchemaError struct {
	Missing []string
}

// Error lists every missing column
func (e *SchemaError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("missing required column: %q", e.Missing[0])
	}
	quoted := make([]string, len(e.Missing))
	for i, col := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(quoted, ", "))
}
