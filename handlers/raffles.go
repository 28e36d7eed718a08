// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-spin/auth"
	"github.com/danielhkuo/quickly-spin/cliparse"
	"github.com/danielhkuo/quickly-spin/db"
	"github.com/danielhkuo/quickly-spin/live"
	"github.com/danielhkuo/quickly-spin/middleware"
	"github.com/danielhkuo/quickly-spin/models"
	"github.com/danielhkuo/quickly-spin/wheel"
)

type RaffleHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	director *live.Director
}

func NewRaffleHandler(db *sql.DB, cfg cliparse.Config, director *live.Director) *RaffleHandler {
	return &RaffleHandler{db: db, cfg: cfg, director: director}
}

// authorize reads the raffle ID from the path and checks the admin key.
// It writes the error response itself and returns ok=false on failure.
func authorize(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (string, bool) {
	raffleID := r.PathValue("id")
	if raffleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "raffle_id is required")
		return "", false
	}

	err := auth.AuthorizeRequest(r, raffleID, cfg.AdminKeySalt)
	if errors.Is(err, auth.ErrMissingAdminKey) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin key required")
		return "", false
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}

	return raffleID, true
}

// storageError maps a storage failure to a response.
func storageError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, errRaffleNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Raffle not found")
	case db.IsUniqueViolation(err):
		middleware.ErrorResponse(w, http.StatusConflict, msg+": already exists")
	default:
		slog.Error(strings.ToLower(msg), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, msg)
	}
}

// CreateRaffle handles POST /raffles
func (h *RaffleHandler) CreateRaffle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRaffleRequest
	if r.ContentLength != 0 {
		if err := middleware.DecodeAndValidate(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = models.DefaultRaffleTitle
	}

	raffleID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate raffle ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create raffle")
		return
	}
	adminKey := auth.GenerateAdminKey(raffleID, h.cfg.AdminKeySalt)
	shareSlug := auth.GenerateShareSlug(raffleID, h.cfg.ShareSlugSalt)
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)

	names, skipped := dedupeNames(splitNames(req.Participants), nil)

	ctx := r.Context()
	now := time.Now().UTC()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		storageError(w, err, "Failed to create raffle")
		return
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO raffle (id, title, share_slug, rotation, creator_ip_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, raffleID, title, shareSlug, 0.0, ipHash, now, now)
	if err != nil {
		storageError(w, err, "Failed to create raffle")
		return
	}

	added, err := insertParticipants(ctx, tx, raffleID, 0, names, now)
	if err != nil {
		storageError(w, err, "Failed to create raffle")
		return
	}

	if err := tx.Commit(); err != nil {
		storageError(w, err, "Failed to create raffle")
		return
	}

	slog.Info("raffle created", "raffle_id", raffleID, "participants", len(added))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRaffleResponse{
		RaffleID:  raffleID,
		AdminKey:  adminKey,
		ShareSlug: shareSlug,
		ShareURL:  h.cfg.BaseURL + "/r/" + shareSlug,
		Added:     added,
		Skipped:   skipped,
	})
}

// GetRaffleAdmin handles GET /raffles/{id}/admin
func (h *RaffleHandler) GetRaffleAdmin(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	ctx := r.Context()
	raffle, err := loadRaffleByID(ctx, h.db, raffleID)
	if err != nil {
		storageError(w, err, "Failed to load raffle")
		return
	}

	participants, err := loadParticipants(ctx, h.db, raffleID)
	if err != nil {
		storageError(w, err, "Failed to load raffle")
		return
	}

	prizes, err := loadPrizes(ctx, h.db, raffleID)
	if err != nil {
		storageError(w, err, "Failed to load raffle")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RaffleDetails{
		Raffle:       raffle,
		Participants: participants,
		Prizes:       prizes,
		Segments:     wheel.Layout(len(participants)),
	})
}

// RenameRaffle handles PUT /raffles/{id}/title
func (h *RaffleHandler) RenameRaffle(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.RenameRaffleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	ctx := r.Context()
	res, err := h.db.ExecContext(ctx, `
		UPDATE raffle SET title = $1, updated_at = $2 WHERE id = $3
	`, title, time.Now().UTC(), raffleID)
	if err != nil {
		storageError(w, err, "Failed to rename raffle")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		storageError(w, errRaffleNotFound, "Failed to rename raffle")
		return
	}

	raffle, err := loadRaffleByID(ctx, h.db, raffleID)
	if err != nil {
		storageError(w, err, "Failed to rename raffle")
		return
	}

	slog.Info("raffle renamed", "raffle_id", raffleID)

	middleware.JSONResponse(w, http.StatusOK, raffle)
}

// DeleteRaffle handles DELETE /raffles/{id}
func (h *RaffleHandler) DeleteRaffle(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	ctx := r.Context()
	raffle, err := loadRaffleByID(ctx, h.db, raffleID)
	if err != nil {
		storageError(w, err, "Failed to delete raffle")
		return
	}

	deleted, err := db.DeleteRaffle(ctx, h.db, raffleID)
	if err != nil {
		storageError(w, err, "Failed to delete raffle")
		return
	}
	if !deleted {
		storageError(w, errRaffleNotFound, "Failed to delete raffle")
		return
	}

	h.director.Forget(raffleID)

	slog.Info("raffle deleted", "raffle_id", raffleID, "age", humanize.Time(raffle.CreatedAt))

	w.WriteHeader(http.StatusNoContent)
}

// ResetRaffle handles POST /raffles/{id}/reset
// Puts the wheel back at rotation 0 and stops any reveal in flight.
func (h *RaffleHandler) ResetRaffle(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(), `
		UPDATE raffle SET rotation = $1, updated_at = $2 WHERE id = $3
	`, 0.0, time.Now().UTC(), raffleID)
	if err != nil {
		storageError(w, err, "Failed to reset raffle")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		storageError(w, errRaffleNotFound, "Failed to reset raffle")
		return
	}

	generation := h.director.Cancel(raffleID, 0)

	slog.Info("raffle reset", "raffle_id", raffleID, "generation", generation)

	middleware.JSONResponse(w, http.StatusOK, models.ResetResponse{Rotation: 0})
}
