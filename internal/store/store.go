// Package store provides a DuckDB-backed persistent cache of merged
// per-patient variant collections, so repeated cohort analyses skip
// re-parsing and re-merging unchanged source files.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for caching merged variant collections.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS patient_variants (
			patient_id VARCHAR,
			merge_mode VARCHAR,
			chrom VARCHAR,
			pos BIGINT,
			ref VARCHAR,
			alt VARCHAR,
			build VARCHAR,
			PRIMARY KEY (patient_id, merge_mode, chrom, pos, ref, alt, build)
		)`,
		`CREATE TABLE IF NOT EXISTS variant_sources (
			patient_id VARCHAR,
			merge_mode VARCHAR,
			chrom VARCHAR,
			pos BIGINT,
			ref VARCHAR,
			alt VARCHAR,
			build VARCHAR,
			source VARCHAR,
			qual DOUBLE,
			filter VARCHAR,
			info VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS source_files (
			patient_id VARCHAR,
			merge_mode VARCHAR,
			path VARCHAR,
			size BIGINT,
			mod_time_ns BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all cached collections and fingerprints.
func (s *Store) Clear() error {
	for _, table := range []string{"patient_variants", "variant_sources", "source_files"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
