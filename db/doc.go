// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages the schema.

# Drivers

Two drivers are supported, selected by cliparse.Config.DatabaseType:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - sqlite (default): modernc.org/sqlite, pure Go. The default URL is a
    private in-memory database, so raffles vanish with the process.
  - postgres: github.com/lib/pq, for a shared store.

All queries use $N placeholders, which both drivers accept.

# Schema

CreateSchema creates all tables (idempotent):

	if err := db.CreateSchema(conn); err != nil { ... }

Tables:

  - raffle: title, share slug, accumulated wheel rotation
  - participant: names on the wheel, unique per raffle by lower-cased name
  - prize: prizes in award order
  - draw: one row per draw with its start and end rotation
  - draw_winner: winners in reveal order, with a copy of name and prize

# Housekeeping

Raffles live for one session. PurgeIdleRaffles removes raffles not updated
since a cutoff, and DeleteRaffle removes one raffle. Both delete child rows
explicitly since SQLite does not enforce ON DELETE CASCADE by default.

IsUniqueViolation recognises duplicate-key errors from either driver.
*/
package db
