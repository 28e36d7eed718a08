// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-spin/models"
)

var errRaffleNotFound = errors.New("raffle not found")

// queryer is satisfied by both *sql.DB and *sql.Tx. With the single SQLite
// connection, code running inside a transaction must only use the *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// touchRaffle bumps updated_at and reports errRaffleNotFound for an unknown
// raffle. Inside a transaction it also takes the raffle's write lock, which
// serializes draws on the same raffle.
func touchRaffle(ctx context.Context, q queryer, raffleID string, now time.Time) error {
	res, err := q.ExecContext(ctx, `UPDATE raffle SET updated_at = $1 WHERE id = $2`, now, raffleID)
	if err != nil {
		return fmt.Errorf("failed to touch raffle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to touch raffle: %w", err)
	}
	if n == 0 {
		return errRaffleNotFound
	}
	return nil
}

func loadRaffle(ctx context.Context, q queryer, where string, arg string) (models.Raffle, error) {
	var raffle models.Raffle
	err := q.QueryRowContext(ctx, `
		SELECT id, title, share_slug, rotation, created_at, updated_at
		FROM raffle
		WHERE `+where+` = $1
	`, arg).Scan(&raffle.ID, &raffle.Title, &raffle.ShareSlug, &raffle.Rotation, &raffle.CreatedAt, &raffle.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return raffle, errRaffleNotFound
	}
	if err != nil {
		return raffle, fmt.Errorf("failed to query raffle: %w", err)
	}
	return raffle, nil
}

func loadRaffleByID(ctx context.Context, q queryer, raffleID string) (models.Raffle, error) {
	return loadRaffle(ctx, q, "id", raffleID)
}

func loadRaffleBySlug(ctx context.Context, q queryer, slug string) (models.Raffle, error) {
	return loadRaffle(ctx, q, "share_slug", slug)
}

// loadParticipants returns the raffle's participants in wheel order.
func loadParticipants(ctx context.Context, q queryer, raffleID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, raffle_id, name, position
		FROM participant
		WHERE raffle_id = $1
		ORDER BY position
	`, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.RaffleID, &p.Name, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// insertParticipants appends names after the current last position. Names
// must already be trimmed and deduplicated.
func insertParticipants(ctx context.Context, q queryer, raffleID string, firstPosition int, names []string, now time.Time) ([]models.Participant, error) {
	added := make([]models.Participant, 0, len(names))
	for i, name := range names {
		p := models.Participant{
			ID:       uuid.NewString(),
			RaffleID: raffleID,
			Name:     name,
			Position: firstPosition + i,
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO participant (id, raffle_id, name, name_key, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, p.RaffleID, p.Name, nameKey(p.Name), p.Position, now)
		if err != nil {
			return nil, fmt.Errorf("failed to insert participant: %w", err)
		}
		added = append(added, p)
	}
	return added, nil
}

// loadPrizes returns the raffle's prizes in award order.
func loadPrizes(ctx context.Context, q queryer, raffleID string) ([]models.Prize, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, raffle_id, name, value, position
		FROM prize
		WHERE raffle_id = $1
		ORDER BY position
	`, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prizes: %w", err)
	}
	defer rows.Close()

	prizes := []models.Prize{}
	for rows.Next() {
		var p models.Prize
		if err := rows.Scan(&p.ID, &p.RaffleID, &p.Name, &p.Value, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan prize: %w", err)
		}
		prizes = append(prizes, p)
	}
	return prizes, rows.Err()
}

// loadDraws returns the raffle's draws newest first, with winners in reveal
// order. limit <= 0 returns all of them.
func loadDraws(ctx context.Context, q queryer, raffleID string, limit int) ([]models.Draw, error) {
	query := `
		SELECT id, raffle_id, requested, slices_total, start_rotation, end_rotation, created_at
		FROM draw
		WHERE raffle_id = $1
		ORDER BY created_at DESC`
	args := []any{raffleID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}

	draws := []models.Draw{}
	for rows.Next() {
		var d models.Draw
		if err := rows.Scan(&d.ID, &d.RaffleID, &d.Requested, &d.SlicesTotal, &d.StartRotation, &d.EndRotation, &d.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read draws: %w", err)
	}
	// Release the connection before the per-draw winner queries.
	rows.Close()

	for i := range draws {
		winners, err := loadDrawWinners(ctx, q, draws[i].ID)
		if err != nil {
			return nil, err
		}
		draws[i].Winners = winners
	}
	return draws, nil
}

func loadDrawWinners(ctx context.Context, q queryer, drawID string) ([]models.DrawWinner, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT position, participant_id, participant_index, name, target_rotation,
		       prize_id, prize_name, prize_value
		FROM draw_winner
		WHERE draw_id = $1
		ORDER BY position
	`, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to query draw winners: %w", err)
	}
	defer rows.Close()

	winners := []models.DrawWinner{}
	for rows.Next() {
		var (
			w         models.DrawWinner
			prizeID   sql.NullString
			prizeName sql.NullString
			prize     models.Prize
		)
		err := rows.Scan(&w.Position, &w.ParticipantID, &w.ParticipantIndex, &w.Name, &w.TargetRotation,
			&prizeID, &prizeName, &prize.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw winner: %w", err)
		}
		w.Place = placeLabel(w.Position)
		if prizeID.Valid {
			prize.ID = prizeID.String
			prize.Name = prizeName.String
			w.Prize = &prize
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

// nameKey is the case-insensitive identity of a participant name.
func nameKey(name string) string {
	return strings.ToLower(name)
}

// splitNames breaks each entry on commas and newlines and trims the pieces,
// dropping empty ones.
func splitNames(entries []string) []string {
	var names []string
	for _, entry := range entries {
		for _, piece := range strings.FieldsFunc(entry, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' }) {
			if name := strings.TrimSpace(piece); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// dedupeNames keeps the first occurrence of each name not already in
// existing (compared case-insensitively) and reports the rest as skipped.
func dedupeNames(names []string, existing []models.Participant) (keep, skipped []string) {
	seen := make(map[string]bool, len(existing)+len(names))
	for _, p := range existing {
		seen[nameKey(p.Name)] = true
	}

	keep = []string{}
	skipped = []string{}
	for _, name := range names {
		key := nameKey(name)
		if seen[key] {
			skipped = append(skipped, name)
			continue
		}
		seen[key] = true
		keep = append(keep, name)
	}
	return keep, skipped
}

// nextPosition returns the position after the last participant.
func nextPosition(participants []models.Participant) int {
	if len(participants) == 0 {
		return 0
	}
	return participants[len(participants)-1].Position + 1
}
