// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-spin/cliparse"
	"github.com/danielhkuo/quickly-spin/live"
	"github.com/danielhkuo/quickly-spin/middleware"
	"github.com/danielhkuo/quickly-spin/models"
	"github.com/danielhkuo/quickly-spin/wheel"
)

type DrawHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	engine   *wheel.Engine
	director *live.Director
}

func NewDrawHandler(db *sql.DB, cfg cliparse.Config, engine *wheel.Engine, director *live.Director) *DrawHandler {
	return &DrawHandler{db: db, cfg: cfg, engine: engine, director: director}
}

// placeLabel turns a 1-indexed reveal position into "1st", "2nd", ...
func placeLabel(position int) string {
	return humanize.Ordinal(position)
}

// CreateDraw handles POST /raffles/{id}/draws
// Picks the winners, stores the draw and the new wheel rotation, then starts
// the live reveal for spectators.
func (h *DrawHandler) CreateDraw(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.DrawRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		storageError(w, err, "Failed to draw")
		return
	}
	defer tx.Rollback()

	// Writing first locks the raffle row until commit, so two draws on the
	// same raffle never start from the same rotation.
	if err := touchRaffle(ctx, tx, raffleID, now); err != nil {
		storageError(w, err, "Failed to draw")
		return
	}

	var rotation float64
	if err := tx.QueryRowContext(ctx, `SELECT rotation FROM raffle WHERE id = $1`, raffleID).Scan(&rotation); err != nil {
		storageError(w, err, "Failed to draw")
		return
	}

	participants, err := loadParticipants(ctx, tx, raffleID)
	if err != nil {
		storageError(w, err, "Failed to draw")
		return
	}

	prizes, err := loadPrizes(ctx, tx, raffleID)
	if err != nil {
		storageError(w, err, "Failed to draw")
		return
	}

	pool := make([]wheel.Participant, len(participants))
	for i, p := range participants {
		pool[i] = wheel.Participant{ID: p.ID, Name: p.Name}
	}

	result, err := h.engine.Draw(pool, req.Count, rotation)
	if errors.Is(err, wheel.ErrInvalidRequest) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		storageError(w, err, "Failed to draw")
		return
	}

	draw := models.Draw{
		ID:            uuid.NewString(),
		RaffleID:      raffleID,
		Requested:     req.Count,
		SlicesTotal:   result.SlicesTotal,
		StartRotation: result.StartRotation,
		EndRotation:   result.FinalRotation(),
		Winners:       make([]models.DrawWinner, 0, len(result.Spins)),
		CreatedAt:     now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO draw (id, raffle_id, requested, slices_total, start_rotation, end_rotation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, draw.ID, draw.RaffleID, draw.Requested, draw.SlicesTotal, draw.StartRotation, draw.EndRotation, draw.CreatedAt)
	if err != nil {
		storageError(w, err, "Failed to save draw")
		return
	}

	for i, spin := range result.Spins {
		winner := models.DrawWinner{
			Position:         i + 1,
			Place:            placeLabel(i + 1),
			ParticipantID:    spin.ParticipantID,
			ParticipantIndex: spin.Index,
			Name:             spin.Name,
			TargetRotation:   spin.TargetRotation,
		}

		var prizeID, prizeName, prizeValue any
		if i < len(prizes) {
			prize := prizes[i]
			winner.Prize = &prize
			prizeID, prizeName, prizeValue = prize.ID, prize.Name, prize.Value
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO draw_winner (draw_id, position, participant_id, participant_index, name,
			                         target_rotation, prize_id, prize_name, prize_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, draw.ID, winner.Position, winner.ParticipantID, winner.ParticipantIndex, winner.Name,
			winner.TargetRotation, prizeID, prizeName, prizeValue)
		if err != nil {
			storageError(w, err, "Failed to save draw")
			return
		}

		draw.Winners = append(draw.Winners, winner)
	}

	_, err = tx.ExecContext(ctx, `UPDATE raffle SET rotation = $1 WHERE id = $2`, draw.EndRotation, raffleID)
	if err != nil {
		storageError(w, err, "Failed to save draw")
		return
	}

	if req.RemoveWinners {
		for _, winner := range draw.Winners {
			_, err = tx.ExecContext(ctx, `DELETE FROM participant WHERE id = $1`, winner.ParticipantID)
			if err != nil {
				storageError(w, err, "Failed to remove winners")
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		storageError(w, err, "Failed to save draw")
		return
	}

	generation := h.director.Start(raffleID, draw.ID, draw.Winners)

	slog.Info("draw completed",
		"raffle_id", raffleID,
		"draw_id", draw.ID,
		"winners", len(draw.Winners),
		"slices", draw.SlicesTotal,
		"end_rotation", draw.EndRotation,
		"generation", generation,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.DrawResponse{
		Draw: draw,
		Reveal: models.RevealTiming{
			SpinDurationMS: h.cfg.SpinDuration.Milliseconds(),
			PauseMS:        h.cfg.RevealPause.Milliseconds(),
			Generation:     generation,
		},
	})
}

// ListDraws handles GET /raffles/{id}/draws
func (h *DrawHandler) ListDraws(w http.ResponseWriter, r *http.Request) {
	raffleID, ok := authorize(w, r, h.cfg)
	if !ok {
		return
	}

	ctx := r.Context()
	if _, err := loadRaffleByID(ctx, h.db, raffleID); err != nil {
		storageError(w, err, "Failed to load draws")
		return
	}

	draws, err := loadDraws(ctx, h.db, raffleID, 0)
	if err != nil {
		storageError(w, err, "Failed to load draws")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DrawHistoryResponse{Draws: draws})
}
