// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Statements are kept to the subset of SQL shared by Postgres and SQLite and
// executed one at a time.
var schema = []string{
	// Raffles
	`CREATE TABLE IF NOT EXISTS raffle (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    share_slug TEXT NOT NULL UNIQUE,
    rotation DOUBLE PRECISION NOT NULL DEFAULT 0,
    creator_ip_hash TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_raffle_updated_at ON raffle(updated_at)`,

	// Participants
	`CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    raffle_id TEXT NOT NULL REFERENCES raffle(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    position INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (raffle_id, name_key)
)`,
	`CREATE INDEX IF NOT EXISTS idx_participant_raffle_id ON participant(raffle_id, position)`,

	// Prizes
	`CREATE TABLE IF NOT EXISTS prize (
    id TEXT PRIMARY KEY,
    raffle_id TEXT NOT NULL REFERENCES raffle(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    value TEXT,
    position INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_prize_raffle_id ON prize(raffle_id, position)`,

	// Draws
	`CREATE TABLE IF NOT EXISTS draw (
    id TEXT PRIMARY KEY,
    raffle_id TEXT NOT NULL REFERENCES raffle(id) ON DELETE CASCADE,
    requested INTEGER NOT NULL,
    slices_total INTEGER NOT NULL,
    start_rotation DOUBLE PRECISION NOT NULL,
    end_rotation DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_draw_raffle_id ON draw(raffle_id, created_at)`,

	// Draw winners, in reveal order. Names are copied so history survives
	// participant removal.
	`CREATE TABLE IF NOT EXISTS draw_winner (
    draw_id TEXT NOT NULL REFERENCES draw(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    participant_id TEXT NOT NULL,
    participant_index INTEGER NOT NULL,
    name TEXT NOT NULL,
    target_rotation DOUBLE PRECISION NOT NULL,
    prize_id TEXT,
    prize_name TEXT,
    prize_value TEXT,
    PRIMARY KEY (draw_id, position)
)`,
}
