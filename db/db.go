// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/quickly-spin/cliparse"
)

// Open connects to the configured database and verifies the connection.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	var driver string
	switch databaseType {
	case cliparse.DatabasePostgres:
		driver = "postgres"
	case cliparse.DatabaseSQLite:
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database type %q", databaseType)
	}

	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", databaseType, err)
	}

	// An in-memory database lives only as long as its connection.
	if databaseType == cliparse.DatabaseSQLite {
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxIdleTime(0)
		conn.SetConnMaxLifetime(0)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", databaseType, err)
	}

	return conn, nil
}

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY
// constraint in either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
		return false
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}

// PurgeIdleRaffles deletes raffles (and everything hanging off them) that
// have not been touched since cutoff. It returns the number of raffles
// removed.
func PurgeIdleRaffles(ctx context.Context, conn *sql.DB, cutoff time.Time) (int64, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin purge: %w", err)
	}
	defer tx.Rollback()

	stale := `SELECT id FROM raffle WHERE updated_at < $1`
	children := []string{
		`DELETE FROM draw_winner WHERE draw_id IN (SELECT id FROM draw WHERE raffle_id IN (` + stale + `))`,
		`DELETE FROM draw WHERE raffle_id IN (` + stale + `)`,
		`DELETE FROM prize WHERE raffle_id IN (` + stale + `)`,
		`DELETE FROM participant WHERE raffle_id IN (` + stale + `)`,
	}
	for _, stmt := range children {
		if _, err := tx.ExecContext(ctx, stmt, cutoff); err != nil {
			return 0, fmt.Errorf("failed to purge raffle data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM raffle WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge raffles: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged raffles: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}
	return n, nil
}

// DeleteRaffle removes a raffle and its participants, prizes and draws.
// It reports false if the raffle did not exist.
func DeleteRaffle(ctx context.Context, conn *sql.DB, raffleID string) (bool, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM draw_winner WHERE draw_id IN (SELECT id FROM draw WHERE raffle_id = $1)`,
		`DELETE FROM draw WHERE raffle_id = $1`,
		`DELETE FROM prize WHERE raffle_id = $1`,
		`DELETE FROM participant WHERE raffle_id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, raffleID); err != nil {
			return false, fmt.Errorf("failed to delete raffle data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM raffle WHERE id = $1`, raffleID)
	if err != nil {
		return false, fmt.Errorf("failed to delete raffle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted raffles: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return n > 0, nil
}
