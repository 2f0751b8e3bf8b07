// Package postgres renders a live Postgres database into the commented
// schema-definition text the parser consumes. Table and column comments come
// from pg_description; tables the DBA never commented render without a
// comment line and are therefore dropped during parsing, the same contract
// file-based schema documents follow.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const tablesQuery = `
SELECT c.relname, COALESCE(obj_description(c.oid, 'pg_class'), '')
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind = 'r' AND n.nspname = $1
ORDER BY c.relname`

const columnsQuery = `
SELECT c.relname, a.attname, format_type(a.atttypid, a.atttypmod),
       COALESCE(col_description(c.oid, a.attnum), '')
FROM pg_attribute a
JOIN pg_class c ON c.oid = a.attrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind = 'r' AND n.nspname = $1 AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY c.relname, a.attnum`

const constraintsQuery = `
SELECT c.relname, pg_get_constraintdef(ct.oid)
FROM pg_constraint ct
JOIN pg_class c ON c.oid = ct.conrelid
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND ct.contype IN ('p', 'f')
ORDER BY c.relname, ct.conname`

type Source struct {
	db     *sql.DB
	schema string
}

func NewSource(db *sql.DB, schemaName string) (*Source, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	schemaName = strings.TrimSpace(schemaName)
	if schemaName == "" {
		schemaName = "public"
	}
	return &Source{db: db, schema: schemaName}, nil
}

func (s *Source) Ready(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("schema source db is not reachable: %w", err)
	}
	return nil
}

// Load introspects the configured schema and renders it as commented CREATE
// TABLE statements.
func (s *Source) Load(ctx context.Context) (string, error) {
	names, comments, err := s.listTables(ctx)
	if err != nil {
		return "", err
	}
	columns, err := s.listColumns(ctx)
	if err != nil {
		return "", err
	}
	constraints, err := s.listConstraints(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		renderTable(&b, name, comments[name], columns[name], constraints[name])
	}
	return b.String(), nil
}

type columnDef struct {
	name     string
	dataType string
	comment  string
}

func (s *Source) listTables(ctx context.Context) ([]string, map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, tablesQuery, s.schema)
	if err != nil {
		return nil, nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	comments := map[string]string{}
	for rows.Next() {
		var name, comment string
		if err := rows.Scan(&name, &comment); err != nil {
			return nil, nil, fmt.Errorf("scan table row: %w", err)
		}
		names = append(names, name)
		comments[name] = comment
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate table rows: %w", err)
	}
	return names, comments, nil
}

func (s *Source) listColumns(ctx context.Context) (map[string][]columnDef, error) {
	rows, err := s.db.QueryContext(ctx, columnsQuery, s.schema)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := map[string][]columnDef{}
	for rows.Next() {
		var table string
		var def columnDef
		if err := rows.Scan(&table, &def.name, &def.dataType, &def.comment); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		columns[table] = append(columns[table], def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}
	return columns, nil
}

func (s *Source) listConstraints(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, constraintsQuery, s.schema)
	if err != nil {
		return nil, fmt.Errorf("list constraints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	constraints := map[string][]string{}
	for rows.Next() {
		var table, def string
		if err := rows.Scan(&table, &def); err != nil {
			return nil, fmt.Errorf("scan constraint row: %w", err)
		}
		constraints[table] = append(constraints[table], def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate constraint rows: %w", err)
	}
	return constraints, nil
}

func renderTable(b *strings.Builder, name, comment string, columns []columnDef, constraints []string) {
	if strings.TrimSpace(comment) != "" {
		b.WriteString("-- " + collapseNewlines(comment) + "\n")
	}
	b.WriteString("CREATE TABLE " + name + " (\n")

	var body []string
	for _, column := range columns {
		entry := ""
		if strings.TrimSpace(column.comment) != "" {
			entry = "    -- " + collapseNewlines(column.comment) + "\n"
		}
		entry += "    " + column.name + " " + column.dataType
		body = append(body, entry)
	}
	for _, constraint := range constraints {
		body = append(body, "    "+constraint)
	}
	b.WriteString(strings.Join(body, ",\n"))
	b.WriteString("\n);\n")
}

func collapseNewlines(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
