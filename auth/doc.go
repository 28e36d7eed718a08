// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin keys, share slugs and ID generation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(raffleID, salt)
	err := auth.ValidateAdminKey(raffleID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same raffle ID and salt always produce the same key, so it never has to
be stored.

Handlers check incoming requests with AuthorizeRequest, which reads the
X-Admin-Key header or an "Authorization: Bearer" header:

	if err := auth.AuthorizeRequest(r, raffleID, cfg.AdminKeySalt); err != nil {
		// 401
	}

# Share Slugs

Share slugs give spectators a read-only handle on a raffle:

	slug := auth.GenerateShareSlug(raffleID, salt)

Slugs are base62 encoded (alphanumeric only). Like admin keys, they're
deterministic from the raffle ID and salt.

# ID Generation

Random hex IDs for raffle records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

The creator address of a raffle is stored hashed:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
