// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Spin API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints. Wrap adds
request IDs, panic recovery and CORS around it:

	mux := router.NewRouter(db, cfg, router.Services{
		Engine:   wheel.NewEngine(wheel.NewRNG()),
		Hub:      hub,
		Director: director,
	})
	server := http.Server{Handler: router.Wrap(mux)}

# Endpoints

Health:

	GET /health

Raffle management (admin, requires X-Admin-Key):

	POST   /raffles                         - Create raffle
	GET    /raffles/{id}/admin              - Raffle, participants, prizes, segments
	PUT    /raffles/{id}/title              - Rename
	POST   /raffles/{id}/reset              - Rotation back to 0
	DELETE /raffles/{id}                    - Delete

	POST   /raffles/{id}/participants       - Add names
	DELETE /raffles/{id}/participants       - Remove everyone
	DELETE /raffles/{id}/participants/{pid} - Remove one
	POST   /raffles/{id}/prizes             - Add prize
	DELETE /raffles/{id}/prizes/{prizeID}   - Remove prize

	POST   /raffles/{id}/draws              - Draw winners
	GET    /raffles/{id}/draws              - Draw history

Spectators (public, uses share slug):

	GET /r/{slug}      - Wheel, prizes and last draw
	GET /r/{slug}/live - Websocket reveal stream
*/
package router
