package seeder

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/parquet-go/parquet-go"
)

// SchemaText is the commented definition written next to the database so the
// retrieval service can describe what was seeded.
const SchemaText = `-- Personal details of each enrolled student
CREATE TABLE student_details (
-- Unique identifier assigned to the student on admission
student_id INTEGER PRIMARY KEY,
-- Given name of the student
given_name TEXT NOT NULL,
-- Family name of the student
last_name TEXT NOT NULL,
-- Age of the student in years
age INTEGER NOT NULL,
-- Gender recorded for the student
gender TEXT NOT NULL
);

-- Units each student is enrolled in for the current semester
CREATE TABLE unit_enrolment (
-- Identifier of the enrolled student
student_id INTEGER,
-- Title of the unit the student is taking
unit_title TEXT,
FOREIGN KEY (student_id) REFERENCES student_details (student_id)
);

-- Overall grade achieved by each student
CREATE TABLE grade (
-- Identifier of the graded student
student_id INTEGER,
-- Final mark between 0 and 100
grade REAL,
FOREIGN KEY (student_id) REFERENCES student_details (student_id)
);
`

type Service struct {
	cfg Config
	log *slog.Logger
}

func NewService(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{cfg: cfg, log: logger}
}

// Run materializes the fixture: a DuckDB database, the commented schema
// definition, and optionally one parquet file per table.
func (s *Service) Run(ctx context.Context) error {
	dataset := Generate(s.cfg.Seed, s.cfg.EnrolmentCount)

	db, err := sql.Open("duckdb", s.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open duckdb database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := Seed(ctx, db, dataset); err != nil {
		return err
	}
	s.log.Info("seeded database",
		slog.String("path", s.cfg.DatabasePath),
		slog.Int("students", len(dataset.Students)),
		slog.Int("enrolments", len(dataset.Enrolments)),
		slog.Int("grades", len(dataset.Grades)),
	)

	if err := os.WriteFile(s.cfg.SchemaPath, []byte(SchemaText), 0o644); err != nil {
		return fmt.Errorf("write schema definition: %w", err)
	}
	s.log.Info("wrote schema definition", slog.String("path", s.cfg.SchemaPath))

	if s.cfg.ParquetDir != "" {
		if err := ExportParquet(s.cfg.ParquetDir, dataset); err != nil {
			return err
		}
		s.log.Info("exported parquet files", slog.String("dir", s.cfg.ParquetDir))
	}
	return nil
}

// Seed drops and recreates the three fixture tables, then inserts the
// dataset. Existing tables are replaced so reruns stay deterministic.
func Seed(ctx context.Context, db *sql.DB, dataset Dataset) error {
	statements := []string{
		`DROP TABLE IF EXISTS student_details`,
		`CREATE TABLE student_details (student_id INTEGER PRIMARY KEY, given_name TEXT NOT NULL, last_name TEXT NOT NULL, age INTEGER NOT NULL, gender TEXT NOT NULL)`,
		`DROP TABLE IF EXISTS unit_enrolment`,
		`CREATE TABLE unit_enrolment (student_id INTEGER, unit_title TEXT, FOREIGN KEY (student_id) REFERENCES student_details (student_id))`,
		`DROP TABLE IF EXISTS grade`,
		`CREATE TABLE grade (student_id INTEGER, grade REAL, FOREIGN KEY (student_id) REFERENCES student_details (student_id))`,
	}
	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("prepare fixture tables: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fixture transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, student := range dataset.Students {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO student_details VALUES (?, ?, ?, ?, ?)`,
			student.StudentID, student.GivenName, student.LastName, student.Age, student.Gender,
		); err != nil {
			return fmt.Errorf("insert student %d: %w", student.StudentID, err)
		}
	}
	for _, enrolment := range dataset.Enrolments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO unit_enrolment VALUES (?, ?)`,
			enrolment.StudentID, enrolment.UnitTitle,
		); err != nil {
			return fmt.Errorf("insert enrolment for student %d: %w", enrolment.StudentID, err)
		}
	}
	for _, grade := range dataset.Grades {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO grade VALUES (?, ?)`,
			grade.StudentID, grade.Grade,
		); err != nil {
			return fmt.Errorf("insert grade for student %d: %w", grade.StudentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixture transaction: %w", err)
	}
	return nil
}

// ExportParquet writes one parquet file per fixture table into dir.
func ExportParquet(dir string, dataset Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parquet dir: %w", err)
	}
	if err := writeParquet(filepath.Join(dir, "student_details.parquet"), dataset.Students); err != nil {
		return err
	}
	if err := writeParquet(filepath.Join(dir, "unit_enrolment.parquet"), dataset.Enrolments); err != nil {
		return err
	}
	return writeParquet(filepath.Join(dir, "grade.parquet"), dataset.Grades)
}

func writeParquet[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows to %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize parquet file %s: %w", path, err)
	}
	return file.Close()
}
