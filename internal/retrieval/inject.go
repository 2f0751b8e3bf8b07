package retrieval

import (
	"github.com/brandonsmith301/text-to-sql/internal/schema"
)

// InjectKeyColumns restores referential integrity between surviving tables:
// foreign-key columns that link two surviving tables are prepended to both
// sides even when pruning judged them irrelevant, because a join is unusable
// without its linking keys.
//
// The transformation is pure: the input result is never mutated. The
// surviving-table set is fixed before any prepend happens, and the scan runs
// a single pass in the model's declaration order, so key propagation across
// chains of three or more tables is limited to one hop per call.
func InjectKeyColumns(pruned PrunedResult, model schema.Model) PrunedResult {
	surviving := make(map[string]bool, len(pruned.Tables))
	index := make(map[string]int, len(pruned.Tables))
	for i, entry := range pruned.Tables {
		surviving[entry.Table] = true
		index[entry.Table] = i
	}

	out := pruned.clone()
	for _, table := range model.Tables {
		i, ok := index[table.Name]
		if !ok {
			continue
		}
		for _, group := range keyColumnGroups(table.Constraints, surviving) {
			out.Tables[i].Columns = prepend(group.columns, out.Tables[i].Columns)
			if group.referencedTable != table.Name {
				j := index[group.referencedTable]
				out.Tables[j].Columns = prepend(group.columns, out.Tables[j].Columns)
			}
		}
	}
	return out
}

type keyColumnGroup struct {
	referencedTable string
	columns         []string
}

// keyColumnGroups collects foreign-key columns per referenced table, in
// constraint order, keeping only references whose target survived pruning.
func keyColumnGroups(constraints []string, surviving map[string]bool) []keyColumnGroup {
	var groups []keyColumnGroup
	index := map[string]int{}
	for _, ref := range schema.ForeignKeyRefs(constraints) {
		if !surviving[ref.ReferencedTable] {
			continue
		}
		if i, ok := index[ref.ReferencedTable]; ok {
			groups[i].columns = append(groups[i].columns, ref.Columns...)
			continue
		}
		index[ref.ReferencedTable] = len(groups)
		groups = append(groups, keyColumnGroup{
			referencedTable: ref.ReferencedTable,
			columns:         append([]string(nil), ref.Columns...),
		})
	}
	return groups
}

func prepend(head, tail []string) []string {
	out := make([]string, 0, len(head)+len(tail))
	out = append(out, head...)
	return append(out, tail...)
}
