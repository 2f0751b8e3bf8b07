package retrieval

import (
	"fmt"
	"strings"
)

// FormatContext serializes a pruned result into the grounding-context string
// consumed by the downstream text-to-SQL model, one clause per surviving
// table in pruned order. Identifiers are emitted as-is, without escaping.
func FormatContext(pruned PrunedResult) string {
	clauses := make([]string, 0, len(pruned.Tables))
	for _, entry := range pruned.Tables {
		clauses = append(clauses, fmt.Sprintf("(TABLE: %s COLUMNS: %s)", entry.Table, strings.Join(entry.Columns, ", ")))
	}
	return strings.Join(clauses, " ")
}
