package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/hammerlab/gocohorts/internal/variant"
)

// SaveCollection persists a merged collection for (patient, merge mode),
// replacing any previous rows for that key, along with the fingerprints
// of the source files it was derived from.
func (s *Store) SaveCollection(patientID, mode string, c *variant.Collection, files []FileFingerprint) error {
	if err := s.deleteKey(patientID, mode); err != nil {
		return err
	}

	if err := s.appendVariants(patientID, mode, c); err != nil {
		return err
	}
	if err := s.appendSources(patientID, mode, c); err != nil {
		return err
	}

	for _, f := range files {
		if _, err := s.db.Exec(
			`INSERT INTO source_files (patient_id, merge_mode, path, size, mod_time_ns) VALUES (?, ?, ?, ?, ?)`,
			patientID, mode, f.Path, f.Size, f.ModTime.UnixNano(),
		); err != nil {
			return fmt.Errorf("insert source fingerprint: %w", err)
		}
	}
	return nil
}

func (s *Store) deleteKey(patientID, mode string) error {
	for _, table := range []string{"patient_variants", "variant_sources", "source_files"} {
		if _, err := s.db.Exec(
			"DELETE FROM "+table+" WHERE patient_id = ? AND merge_mode = ?",
			patientID, mode,
		); err != nil {
			return fmt.Errorf("delete stale %s rows: %w", table, err)
		}
	}
	return nil
}

// appendVariants batch-inserts collection membership using the Appender API.
func (s *Store) appendVariants(patientID, mode string, c *variant.Collection) error {
	return s.withAppender("patient_variants", func(appender *goduckdb.Appender) error {
		for _, v := range c.Variants() {
			if err := appender.AppendRow(patientID, mode, v.Chrom, v.Pos, v.Ref, v.Alt, v.Build); err != nil {
				return fmt.Errorf("append variant row: %w", err)
			}
		}
		return nil
	})
}

// appendSources batch-inserts the per-source metadata rows.
func (s *Store) appendSources(patientID, mode string, c *variant.Collection) error {
	return s.withAppender("variant_sources", func(appender *goduckdb.Appender) error {
		for _, v := range c.Variants() {
			for _, rec := range c.MetadataFor(v) {
				info, err := json.Marshal(rec.Info)
				if err != nil {
					return fmt.Errorf("marshal info for %s: %w", v.ID(), err)
				}
				if err := appender.AppendRow(
					patientID, mode, v.Chrom, v.Pos, v.Ref, v.Alt, v.Build,
					rec.Source, rec.Qual, rec.Filter, string(info),
				); err != nil {
					return fmt.Errorf("append source row: %w", err)
				}
			}
		}
		return nil
	})
}

func (s *Store) withAppender(table string, fn func(*goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}

// LoadCollection retrieves a cached collection for (patient, merge mode).
// The second return is false when nothing is cached under that key.
func (s *Store) LoadCollection(patientID, mode string) (*variant.Collection, bool, error) {
	rows, err := s.db.Query(
		`SELECT chrom, pos, ref, alt, build, source, qual, filter, info
		 FROM variant_sources
		 WHERE patient_id = ? AND merge_mode = ?
		 ORDER BY chrom, pos, ref, alt, source`,
		patientID, mode,
	)
	if err != nil {
		return nil, false, fmt.Errorf("query variant sources: %w", err)
	}
	defer rows.Close()

	c := variant.NewCollection()
	found := false
	for rows.Next() {
		var (
			chrom, ref, alt, build, source, filter, infoJSON string
			pos                                              int64
			qual                                             float64
		)
		if err := rows.Scan(&chrom, &pos, &ref, &alt, &build, &source, &qual, &filter, &infoJSON); err != nil {
			return nil, false, fmt.Errorf("scan variant source: %w", err)
		}
		v, err := variant.New(chrom, pos, ref, alt, build)
		if err != nil {
			return nil, false, fmt.Errorf("cached variant is invalid: %w", err)
		}
		var info map[string]string
		if infoJSON != "" {
			if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
				return nil, false, fmt.Errorf("unmarshal info for %s: %w", v.ID(), err)
			}
		}
		c.Add(v, variant.SourceRecord{Source: source, Qual: qual, Filter: filter, Info: info})
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if !found {
		// Distinguish "no cache entry" from "cached empty collection".
		var n int
		err := s.db.QueryRow(
			`SELECT count(*) FROM source_files WHERE patient_id = ? AND merge_mode = ?`,
			patientID, mode,
		).Scan(&n)
		if err != nil {
			return nil, false, fmt.Errorf("query source fingerprints: %w", err)
		}
		if n == 0 {
			return nil, false, nil
		}
	}
	return c, true, nil
}

// Fresh reports whether the cached entry for (patient, merge mode) was
// derived from exactly the given source files in their current state.
func (s *Store) Fresh(patientID, mode string, files []FileFingerprint) (bool, error) {
	rows, err := s.db.Query(
		`SELECT path, size, mod_time_ns FROM source_files
		 WHERE patient_id = ? AND merge_mode = ?`,
		patientID, mode,
	)
	if err != nil {
		return false, fmt.Errorf("query source fingerprints: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]FileFingerprint)
	for rows.Next() {
		var (
			f  FileFingerprint
			ns int64
		)
		if err := rows.Scan(&f.Path, &f.Size, &ns); err != nil {
			return false, fmt.Errorf("scan source fingerprint: %w", err)
		}
		f.ModTime = unixNano(ns)
		stored[f.Path] = f
	}
	if err := rows.Err(); err != nil {
		return false, err
	}

	if len(stored) != len(files) {
		return false, nil
	}
	for _, f := range files {
		prev, ok := stored[f.Path]
		if !ok || prev.Size != f.Size || prev.ModTime.UnixNano() != f.ModTime.UnixNano() {
			return false, nil
		}
	}
	return len(files) > 0, nil
}
