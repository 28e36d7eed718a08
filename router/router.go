// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danielhkuo/quickly-spin/cliparse"
	"github.com/danielhkuo/quickly-spin/handlers"
	"github.com/danielhkuo/quickly-spin/live"
	"github.com/danielhkuo/quickly-spin/middleware"
	"github.com/danielhkuo/quickly-spin/wheel"
)

// Services are the long-lived pieces shared by the handlers.
type Services struct {
	Engine   *wheel.Engine
	Hub      *live.Hub
	Director *live.Director
}

func NewRouter(db *sql.DB, cfg cliparse.Config, svc Services) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	raffleHandler := handlers.NewRaffleHandler(db, cfg, svc.Director)
	participantHandler := handlers.NewParticipantHandler(db, cfg)
	prizeHandler := handlers.NewPrizeHandler(db, cfg)
	drawHandler := handlers.NewDrawHandler(db, cfg, svc.Engine, svc.Director)
	publicHandler := handlers.NewPublicHandler(db, cfg, svc.Hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Raffle management (admin operations)
	mux.HandleFunc("POST /raffles", middleware.WithLogging(raffleHandler.CreateRaffle))
	mux.HandleFunc("GET /raffles/{id}/admin", middleware.WithLogging(raffleHandler.GetRaffleAdmin))
	mux.HandleFunc("PUT /raffles/{id}/title", middleware.WithLogging(raffleHandler.RenameRaffle))
	mux.HandleFunc("POST /raffles/{id}/reset", middleware.WithLogging(raffleHandler.ResetRaffle))
	mux.HandleFunc("DELETE /raffles/{id}", middleware.WithLogging(raffleHandler.DeleteRaffle))

	// Wheel contents
	mux.HandleFunc("POST /raffles/{id}/participants", middleware.WithLogging(participantHandler.AddParticipants))
	mux.HandleFunc("DELETE /raffles/{id}/participants", middleware.WithLogging(participantHandler.ClearParticipants))
	mux.HandleFunc("DELETE /raffles/{id}/participants/{pid}", middleware.WithLogging(participantHandler.RemoveParticipant))
	mux.HandleFunc("POST /raffles/{id}/prizes", middleware.WithLogging(prizeHandler.AddPrize))
	mux.HandleFunc("DELETE /raffles/{id}/prizes/{prizeID}", middleware.WithLogging(prizeHandler.RemovePrize))

	// Draws
	mux.HandleFunc("POST /raffles/{id}/draws", middleware.WithLogging(drawHandler.CreateDraw))
	mux.HandleFunc("GET /raffles/{id}/draws", middleware.WithLogging(drawHandler.ListDraws))

	// Spectators (public, by share slug)
	mux.HandleFunc("GET /r/{slug}", middleware.WithLogging(publicHandler.GetRaffle))
	mux.HandleFunc("GET /r/{slug}/live", middleware.WithLogging(publicHandler.Live))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-spin API v1"))
	})

	return mux
}

// Wrap adds the server-wide middleware: request IDs, panic recovery and CORS.
func Wrap(h http.Handler) http.Handler {
	return chimw.RequestID(chimw.Recoverer(middleware.CORS(h)))
}
