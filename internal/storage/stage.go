// Package storage stages an inventory run into an in-memory sqlite database
// so it can be inspected with ad-hoc SQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync/atomic"

	"ghginventory/internal/core"

	_ "modernc.org/sqlite"
)

var stageSeq atomic.Uint64

// Stage is a read-only, in-memory sqlite copy of one inventory run.
type Stage struct {
	db     *sql.DB
	schema uint
}

// Result is the materialized output of a query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Open creates a fresh staging database, migrates it and loads emissions.
// The connection is switched to query_only once loading finishes.
func Open(ctx context.Context, emissions []core.Emission) (*Stage, error) {
	dsn := fmt.Sprintf("file:ghg-stage-%d?mode=memory&cache=shared", stageSeq.Add(1))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open staging database: %w", err)
	}
	// A shared in-memory database lives as long as one connection holds it open
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping staging database: %w", err)
	}

	version, err := migrateSchema(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Stage{db: db, schema: version}
	if err := s.insert(ctx, emissions); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("lock staging database: %w", err)
	}

	return s, nil
}

func (s *Stage) insert(ctx context.Context, emissions []core.Emission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO activity
		(year, sector, gas, activity, emission_factor, unit, emissions_kg)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range emissions {
		_, err := stmt.ExecContext(ctx,
			e.Year, e.Sector, e.Gas,
			nullable(e.Activity), nullable(e.EmissionFactor),
			e.Unit, nullable(e.EmissionsKg))
		if err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// NaN and infinities are stored as NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// Query runs a read-only statement and collects every row.
func (s *Stage) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Relations lists the user tables and views of the staging schema.
func (s *Stage) Relations(ctx context.Context) ([]string, error) {
	res, err := s.Query(ctx, `SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view')
		  AND name NOT LIKE 'sqlite_%'
		  AND name != 'schema_migrations'
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		names = append(names, fmt.Sprint(row[0]))
	}
	return names, nil
}

// Close releases the staging database.
func (s *Stage) Close() error {
	return s.db.Close()
}
