package seeder

import "testing"

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv(lookupFrom(nil))
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}
	if cfg.DatabasePath != "example.duckdb" || cfg.SchemaPath != "context.sql" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Seed != 1 || cfg.EnrolmentCount != 50 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	cfg, err := LoadConfigFromEnv(lookupFrom(map[string]string{
		"TEXTTOSQL_SEED_DB_PATH":         "/tmp/demo.duckdb",
		"TEXTTOSQL_SEED_SCHEMA_PATH":     "/tmp/schema.sql",
		"TEXTTOSQL_SEED_PARQUET_DIR":     "/tmp/parquet",
		"TEXTTOSQL_SEED_SEED":            "42",
		"TEXTTOSQL_SEED_ENROLMENT_COUNT": "10",
	}))
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}
	if cfg.DatabasePath != "/tmp/demo.duckdb" || cfg.ParquetDir != "/tmp/parquet" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Seed != 42 || cfg.EnrolmentCount != 10 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfigFromEnvRejectsInvalid(t *testing.T) {
	cases := []map[string]string{
		{"TEXTTOSQL_SEED_SEED": "not-a-number"},
		{"TEXTTOSQL_SEED_ENROLMENT_COUNT": "0"},
		{"TEXTTOSQL_SEED_DB_PATH": "   "},
	}
	for _, env := range cases {
		if _, err := LoadConfigFromEnv(lookupFrom(env)); err == nil {
			t.Fatalf("LoadConfigFromEnv() accepted %v", env)
		}
	}
}
