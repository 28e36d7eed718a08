// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Spin API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - RaffleHandler: raffle lifecycle (create, view, rename, reset, delete)
  - ParticipantHandler: names on the wheel
  - PrizeHandler: prizes in award order
  - DrawHandler: drawing winners and draw history
  - PublicHandler: read-only spectator view and live reveal stream

Handlers are created via constructor functions:

	raffleHandler := handlers.NewRaffleHandler(db, cfg, director)
	drawHandler := handlers.NewDrawHandler(db, cfg, engine, director)

# Admin Routes

Every route under /raffles/{id} requires the admin key returned at creation,
in the X-Admin-Key header or as a bearer token:

	POST   /raffles                          → CreateRaffle (returns admin_key, share_url)
	GET    /raffles/{id}/admin               → GetRaffleAdmin
	PUT    /raffles/{id}/title               → RenameRaffle
	POST   /raffles/{id}/participants        → AddParticipants
	DELETE /raffles/{id}/participants/{pid}  → RemoveParticipant
	DELETE /raffles/{id}/participants        → ClearParticipants
	POST   /raffles/{id}/prizes              → AddPrize
	DELETE /raffles/{id}/prizes/{prizeID}    → RemovePrize
	POST   /raffles/{id}/draws               → CreateDraw
	GET    /raffles/{id}/draws               → ListDraws
	POST   /raffles/{id}/reset               → ResetRaffle
	DELETE /raffles/{id}                     → DeleteRaffle

Participant names are trimmed and compared case-insensitively. Entries may
carry several names separated by commas or newlines; duplicates are skipped
and reported back.

# Draws

CreateDraw runs in one transaction: it locks the raffle, reads the current
rotation and participants, asks the wheel engine for the winners, stores the
draw and the new rotation, and optionally removes the winners from the
wheel. The i-th prize goes to the i-th winner revealed. After commit the
reveal is handed to live.Director, which paces it for spectators.

# Spectators

	GET /r/{slug}       → GetRaffle (wheel, prizes, last draw)
	GET /r/{slug}/live  → Live (websocket of reveal events)

# Errors

Failures are JSON {error, message}: 400 for validation and impossible draws,
401 for a missing or wrong admin key, 404 for unknown raffles, 409 for
uniqueness conflicts, 500 for storage errors.
*/
package handlers
