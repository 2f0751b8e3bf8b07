package schema

import (
	"regexp"
	"strings"
)

var (
	commentedHeader = regexp.MustCompile(`^--[^\n]*\nCREATE TABLE`)
	tableHeader     = regexp.MustCompile(`(?s)--(.*?)\nCREATE TABLE (\w+)`)
	columnLine      = regexp.MustCompile(`^(\w+)\s+(\w+)(.*)`)
	foreignKey      = regexp.MustCompile(`FOREIGN KEY\s*\(([^)]+)\)\s+REFERENCES\s+(\w+)`)
)

// Parse converts raw schema-definition text into the metadata model. The
// parser is deliberately tolerant: segments without a commented CREATE TABLE
// header are skipped, as are lines that match neither a constraint nor a
// column declaration. Comments are the only relevance signal downstream, so
// an uncommented table is dropped rather than kept blank.
func Parse(text string) Model {
	var model Model
	tableIndex := map[string]int{}

	for _, segment := range splitSegments(text) {
		header := tableHeader.FindStringSubmatch(segment)
		if header == nil {
			continue
		}

		table := Table{
			Name:    header[2],
			Comment: strings.TrimSpace(header[1]),
		}

		columnIndex := map[string]int{}
		pendingComment := ""
		for _, raw := range strings.Split(segment, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, "CREATE TABLE") {
				continue
			}
			if strings.HasPrefix(line, "--") {
				pendingComment = strings.TrimSpace(strings.Trim(line, "-"))
				continue
			}
			// Key declarations are matched before column lines so that
			// "student_id INTEGER PRIMARY KEY" lands in constraints.
			if strings.Contains(line, "PRIMARY KEY") || strings.Contains(line, "FOREIGN KEY") {
				table.Constraints = append(table.Constraints, strings.Trim(line, ","))
				continue
			}
			match := columnLine.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			column := Column{Name: match[1], Type: match[2], Comment: pendingComment}
			if pos, ok := columnIndex[column.Name]; ok {
				table.Columns[pos] = column
			} else {
				columnIndex[column.Name] = len(table.Columns)
				table.Columns = append(table.Columns, column)
			}
			pendingComment = ""
		}

		if pos, ok := tableIndex[table.Name]; ok {
			model.Tables[pos] = table
		} else {
			tableIndex[table.Name] = len(model.Tables)
			model.Tables = append(model.Tables, table)
		}
	}

	return model
}

// splitSegments cuts the document at every statement terminator that is
// followed, after optional whitespace, by a comment line directly preceding
// a CREATE TABLE keyword. The terminator and whitespace are consumed.
func splitSegments(text string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != ';' {
			continue
		}
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if commentedHeader.MatchString(text[j:]) {
			segments = append(segments, text[start:i])
			start = j
			i = j - 1
		}
	}
	return append(segments, text[start:])
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// ForeignKeyRefs extracts (columns, referenced table) pairs from a table's
// raw constraint list. Multi-column declarations are split into individual
// column names.
func ForeignKeyRefs(constraints []string) []ForeignKeyRef {
	var refs []ForeignKeyRef
	for _, constraint := range constraints {
		match := foreignKey.FindStringSubmatch(constraint)
		if match == nil {
			continue
		}
		var columns []string
		for _, column := range strings.Split(match[1], ",") {
			column = strings.TrimSpace(column)
			if column != "" {
				columns = append(columns, column)
			}
		}
		if len(columns) == 0 {
			continue
		}
		refs = append(refs, ForeignKeyRef{Columns: columns, ReferencedTable: match[2]})
	}
	return refs
}

// ForeignKeyRef is one FOREIGN KEY (...) REFERENCES target declaration.
type ForeignKeyRef struct {
	Columns         []string
	ReferencedTable string
}
