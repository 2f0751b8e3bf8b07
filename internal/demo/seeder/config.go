package seeder

import (
	"fmt"
	"strconv"
	"strings"
)

type LookupFunc func(string) (string, bool)

type Config struct {
	DatabasePath   string
	SchemaPath     string
	ParquetDir     string
	Seed           int64
	EnrolmentCount int
}

func DefaultConfig() Config {
	return Config{
		DatabasePath:   "example.duckdb",
		SchemaPath:     "context.sql",
		ParquetDir:     "",
		Seed:           1,
		EnrolmentCount: 50,
	}
}

func LoadConfigFromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := DefaultConfig()
	if err := applyString(lookup, "TEXTTOSQL_SEED_DB_PATH", &cfg.DatabasePath); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TEXTTOSQL_SEED_SCHEMA_PATH", &cfg.SchemaPath); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TEXTTOSQL_SEED_PARQUET_DIR", &cfg.ParquetDir); err != nil {
		return Config{}, err
	}
	if err := applyInt64(lookup, "TEXTTOSQL_SEED_SEED", &cfg.Seed); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "TEXTTOSQL_SEED_ENROLMENT_COUNT", &cfg.EnrolmentCount); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.DatabasePath) == "" {
		return Config{}, fmt.Errorf("TEXTTOSQL_SEED_DB_PATH is required")
	}
	if strings.TrimSpace(cfg.SchemaPath) == "" {
		return Config{}, fmt.Errorf("TEXTTOSQL_SEED_SCHEMA_PATH is required")
	}
	if cfg.EnrolmentCount <= 0 {
		return Config{}, fmt.Errorf("TEXTTOSQL_SEED_ENROLMENT_COUNT must be > 0")
	}

	cfg.DatabasePath = strings.TrimSpace(cfg.DatabasePath)
	cfg.SchemaPath = strings.TrimSpace(cfg.SchemaPath)
	cfg.ParquetDir = strings.TrimSpace(cfg.ParquetDir)
	return cfg, nil
}

func applyString(lookup LookupFunc, key string, target *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*target = raw
	return nil
}

func applyInt(lookup LookupFunc, key string, target *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*target = parsed
	return nil
}

func applyInt64(lookup LookupFunc, key string, target *int64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*target = parsed
	return nil
}
