// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-spin/cliparse"
	"github.com/danielhkuo/quickly-spin/middleware"
	"github.com/danielhkuo/quickly-spin/models"
)

type PrizeHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPrizeHandler(db *sql.DB, cfg cliparse.Config) *PrizeHandler {
	return &PrizeHandler{db: db, cfg: cfg}
}

// AddPrize handles POST /raffles/{id}/prizes
// Prizes are awarded in the order they were added: the first to the first
// winner revealed.
func (h *PrizeHandler) AddPrize(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.AddPrizeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Value.Valid && req.Value.Decimal.IsNegative() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "value must not be negative")
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		storageError(w, err, "Failed to add prize")
		return
	}
	defer tx.Rollback()

	if err := touchRaffle(ctx, tx, raffleID, time.Now().UTC()); err != nil {
		storageError(w, err, "Failed to add prize")
		return
	}

	var position int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), -1) + 1 FROM prize WHERE raffle_id = $1
	`, raffleID).Scan(&position)
	if err != nil {
		storageError(w, err, "Failed to add prize")
		return
	}

	prize := models.Prize{
		ID:       uuid.NewString(),
		RaffleID: raffleID,
		Name:     name,
		Value:    req.Value,
		Position: position,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO prize (id, raffle_id, name, value, position)
		VALUES ($1, $2, $3, $4, $5)
	`, prize.ID, prize.RaffleID, prize.Name, prize.Value, prize.Position)
	if err != nil {
		storageError(w, err, "Failed to add prize")
		return
	}

	if err := tx.Commit(); err != nil {
		storageError(w, err, "Failed to add prize")
		return
	}

	slog.Info("prize added", "raffle_id", raffleID, "prize_id", prize.ID, "position", prize.Position)

	middleware.JSONResponse(w, http.StatusCreated, models.AddPrizeResponse{Prize: prize})
}

// RemovePrize handles DELETE /raffles/{id}/prizes/{prizeID}
func (h *PrizeHandler) RemovePrize(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	prizeID := r.PathValue("prizeID")
	if prizeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prize_id is required")
		return
	}

	ctx := r.Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		storageError(w, err, "Failed to remove prize")
		return
	}
	defer tx.Rollback()

	if err := touchRaffle(ctx, tx, raffleID, time.Now().UTC()); err != nil {
		storageError(w, err, "Failed to remove prize")
		return
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM prize WHERE id = $1 AND raffle_id = $2`, prizeID, raffleID)
	if err != nil {
		storageError(w, err, "Failed to remove prize")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Prize not found")
		return
	}

	if err := tx.Commit(); err != nil {
		storageError(w, err, "Failed to remove prize")
		return
	}

	slog.Info("prize removed", "raffle_id", raffleID, "prize_id", prizeID)

	w.WriteHeader(http.StatusNoContent)
}
