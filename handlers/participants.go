// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-spin/cliparse"
	"github.com/danielhkuo/quickly-spin/middleware"
	"github.com/danielhkuo/quickly-spin/models"
)

type ParticipantHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewParticipantHandler(db *sql.DB, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{db: db, cfg: cfg}
}

// AddParticipants handles POST /raffles/{id}/participants
// Entries may hold several names separated by commas or newlines.
func (h *ParticipantHandler) AddParticipants(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.AddParticipantsRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	names := splitNames(req.Names)
	if len(names) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "names must contain at least one non-empty name")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		storageError(w, err, "Failed to add participants")
		return
	}
	defer tx.Rollback()

	if err := touchRaffle(ctx, tx, raffleID, now); err != nil {
		storageError(w, err, "Failed to add participants")
		return
	}

	existing, err := loadParticipants(ctx, tx, raffleID)
	if err != nil {
		storageError(w, err, "Failed to add participants")
		return
	}

	keep, skipped := dedupeNames(names, existing)
	added, err := insertParticipants(ctx, tx, raffleID, nextPosition(existing), keep, now)
	if err != nil {
		storageError(w, err, "Failed to add participants")
		return
	}

	if err := tx.Commit(); err != nil {
		storageError(w, err, "Failed to add participants")
		return
	}

	slog.Info("participants added", "raffle_id", raffleID, "added", len(added), "skipped", len(skipped))

	middleware.JSONResponse(w, http.StatusCreated, models.AddParticipantsResponse{
		Added:   added,
		Skipped: skipped,
	})
}

// RemoveParticipant handles DELETE /raffles/{id}/participants/{pid}
func (h *ParticipantHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	participantID := r.PathValue("pid")
	if participantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		storageError(w, err, "Failed to remove participant")
		return
	}
	defer tx.Rollback()

	if err := touchRaffle(ctx, tx, raffleID, time.Now().UTC()); err != nil {
		storageError(w, err, "Failed to remove participant")
		return
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM participant WHERE id = $1 AND raffle_id = $2
	`, participantID, raffleID)
	if err != nil {
		storageError(w, err, "Failed to remove participant")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		return
	}

	if err := tx.Commit(); err != nil {
		storageError(w, err, "Failed to remove participant")
		return
	}

	slog.Info("participant removed", "raffle_id", raffleID, "participant_id", participantID)

	w.WriteHeader(http.StatusNoContent)
}

// ClearParticipants handles DELETE /raffles/{id}/participants
func (h *ParticipantHandler) ClearParticipants(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		storageError(w, err, "Failed to clear participants")
		return
	}
	defer tx.Rollback()

	if err := touchRaffle(ctx, tx, raffleID, time.Now().UTC()); err != nil {
		storageError(w, err, "Failed to clear participants")
		return
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM participant WHERE raffle_id = $1`, raffleID)
	if err != nil {
		storageError(w, err, "Failed to clear participants")
		return
	}
	removed, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		storageError(w, err, "Failed to clear participants")
		return
	}

	slog.Info("participants cleared", "raffle_id", raffleID, "removed", removed)

	w.WriteHeader(http.StatusNoContent)
}
