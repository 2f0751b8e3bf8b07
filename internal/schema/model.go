package schema

// Column is a single parsed column declaration. Comment is empty when the
// declaration had no preceding comment line.
type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

// Table is a parsed CREATE TABLE statement. Columns keep declaration order;
// Constraints hold the raw PRIMARY KEY / FOREIGN KEY lines, trimmed of
// trailing separators but otherwise unparsed.
type Table struct {
	Name        string   `json:"name"`
	Comment     string   `json:"comment"`
	Columns     []Column `json:"columns"`
	Constraints []string `json:"constraints,omitempty"`
}

// Model is the metadata model built from one schema-definition document.
// Tables keep declaration order. The model is immutable after parsing.
type Model struct {
	Tables []Table `json:"tables"`
}

func (m Model) Empty() bool {
	return len(m.Tables) == 0
}

func (m Model) Table(name string) (Table, bool) {
	for _, table := range m.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return Table{}, false
}

func (t Table) Column(name string) (Column, bool) {
	for _, column := range t.Columns {
		if column.Name == name {
			return column, true
		}
	}
	return Column{}, false
}
