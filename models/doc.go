// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON (validated with go-playground/validator tags):

  - CreateRaffleRequest: title, participants
  - RenameRaffleRequest: title
  - AddParticipantsRequest: names
  - AddPrizeRequest: name, value (decimal, optional)
  - DrawRequest: count, remove_winners

# Response Types

Types for JSON responses:

  - CreateRaffleResponse: raffle_id, admin_key, share_slug, share_url
  - AddParticipantsResponse: added, skipped
  - AddPrizeResponse: prize
  - DrawResponse: draw, reveal timing
  - DrawHistoryResponse: draws
  - ResetResponse: rotation
  - ErrorResponse: error, message

# Domain Types

  - Raffle: title, share slug and the accumulated wheel rotation
  - Participant: a name on the wheel, ordered by position
  - Prize: awarded to winners in reveal order
  - Draw / DrawWinner: one persisted draw and its winners in reveal order
  - RaffleDetails: admin view including wheel segments
  - PublicRaffle: spectator view including the last draw

Prize values use shopspring/decimal so amounts round-trip exactly.
*/
package models
