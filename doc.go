// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Spin API server.

Quickly Spin runs raffle wheels: a host fills a wheel with names and prizes,
draws one or more winners, and spectators watch the wheel land on each winner
in turn through a share link.

# Starting the Server

Salts are required; everything else has a default:

	ADMIN_KEY_SALT=... SHARE_SLUG_SALT=... go run .

Or with flags:

	go run . -p 3318 -admin-salt ... -slug-salt ...

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - SHARE_SLUG_SALT (-slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): Connection string (default: in-memory SQLite)
  - BASE_URL (-base-url): Prefix for share URLs (default: http://localhost:<port>)
  - SPIN_DURATION (-spin-duration): Reveal spin length (default: 4s)
  - REVEAL_PAUSE (-reveal-pause): Pause between winners (default: 1.5s)
  - RAFFLE_TTL (-ttl): Idle raffles are purged after this (default: 24h)
  - LOG_LEVEL (-log-level): debug, info, warn or error (default: info)

# Architecture

  - wheel: Winner selection and wheel geometry
  - reveal: Pacing of a draw's reveal
  - live: Websocket hub and per-raffle reveal director
  - handlers: HTTP request handlers (raffles, participants, prizes, draws, public)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON decoding and validation
  - models: Request/response types
  - auth: Admin keys, share slugs and IDs
  - db: Connections, schema and housekeeping
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
