// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file can seed the environment first:

	if err := cliparse.LoadEnvFile(".env"); err != nil { ... }

Variables already present in the environment are never overridden, and a
missing file is ignored.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite (default) or postgres
  - DatabaseURL: connection string (default: private in-memory SQLite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - ShareSlugSalt: Secret for share slug generation (required)
  - BaseURL: prefix for share URLs (default: http://localhost:<port>)
  - SpinDuration: length of one spin in the live reveal (default: 4s)
  - RevealPause: pause between winners in the live reveal (default: 1.5s)
  - RaffleTTL: idle raffles older than this are purged (default: 24h)
  - LogLevel: debug, info, warn, error (default: info)

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-base-url       Public base URL
	-admin-salt     Admin key salt
	-slug-salt      Share slug salt
	-spin-duration  Spin duration
	-reveal-pause   Pause between winners
	-ttl            Raffle idle TTL
	-log-level      Log level

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	BASE_URL        → -base-url
	ADMIN_KEY_SALT  → -admin-salt
	SHARE_SLUG_SALT → -slug-salt
	SPIN_DURATION   → -spin-duration
	REVEAL_PAUSE    → -reveal-pause
	RAFFLE_TTL      → -ttl
	LOG_LEVEL       → -log-level

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - ADMIN_KEY_SALT or SHARE_SLUG_SALT is missing
  - DATABASE_TYPE is postgres and no DATABASE_URL is given
  - a duration does not parse or is negative
*/
package cliparse
