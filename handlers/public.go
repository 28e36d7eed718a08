// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-spin/cliparse"
	"github.com/danielhkuo/quickly-spin/live"
	"github.com/danielhkuo/quickly-spin/middleware"
	"github.com/danielhkuo/quickly-spin/models"
	"github.com/danielhkuo/quickly-spin/wheel"
)

// PublicHandler serves spectators who only know the share slug.
type PublicHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *live.Hub
}

func NewPublicHandler(db *sql.DB, cfg cliparse.Config, hub *live.Hub) *PublicHandler {
	return &PublicHandler{db: db, cfg: cfg, hub: hub}
}

// GetRaffle handles GET /r/{slug}
func (h *PublicHandler) GetRaffle(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	ctx := r.Context()
	raffle, err := loadRaffleBySlug(ctx, h.db, slug)
	if err != nil {
		storageError(w, err, "Failed to load raffle")
		return
	}

	participants, err := loadParticipants(ctx, h.db, raffle.ID)
	if err != nil {
		storageError(w, err, "Failed to load raffle")
		return
	}

	prizes, err := loadPrizes(ctx, h.db, raffle.ID)
	if err != nil {
		storageError(w, err, "Failed to load raffle")
		return
	}

	draws, err := loadDraws(ctx, h.db, raffle.ID, 1)
	if err != nil {
		storageError(w, err, "Failed to load raffle")
		return
	}

	response := models.PublicRaffle{
		Title:        raffle.Title,
		ShareSlug:    raffle.ShareSlug,
		Rotation:     raffle.Rotation,
		Participants: participants,
		Prizes:       prizes,
		Segments:     wheel.Layout(len(participants)),
	}
	if len(draws) > 0 {
		response.LastDraw = &draws[0]
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// Live handles GET /r/{slug}/live
// Upgrades to a websocket that receives reveal events for the raffle.
func (h *PublicHandler) Live(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	raffle, err := loadRaffleBySlug(r.Context(), h.db, slug)
	if err != nil {
		storageError(w, err, "Failed to load raffle")
		return
	}

	if err := h.hub.Serve(w, r, raffle.ID); err != nil {
		slog.Warn("live connection failed", "raffle_id", raffle.ID, "error", err)
	}
}
