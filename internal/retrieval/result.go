package retrieval

// TableColumns is one surviving table with its retained column names.
// Injected key columns are prepended and may duplicate entries already
// present; downstream formatting tolerates the duplication.
type TableColumns struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
}

// PrunedResult maps surviving tables to their retained columns, preserving
// the metadata model's declaration order. A table only appears if at least
// one of its columns survived pruning.
type PrunedResult struct {
	Tables []TableColumns `json:"tables"`
}

func (r PrunedResult) Empty() bool {
	return len(r.Tables) == 0
}

func (r PrunedResult) Columns(table string) ([]string, bool) {
	for _, entry := range r.Tables {
		if entry.Table == table {
			return entry.Columns, true
		}
	}
	return nil, false
}

func (r PrunedResult) clone() PrunedResult {
	out := PrunedResult{Tables: make([]TableColumns, len(r.Tables))}
	for i, entry := range r.Tables {
		out.Tables[i] = TableColumns{
			Table:   entry.Table,
			Columns: append([]string(nil), entry.Columns...),
		}
	}
	return out
}
