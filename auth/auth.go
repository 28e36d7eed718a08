// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AdminKeyHeader carries the admin key on raffle management requests.
const AdminKeyHeader = "X-Admin-Key"

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrMissingAdminKey = errors.New("missing admin key")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAdminKey creates an HMAC-based admin key for a raffle
// This is deterministic and verifiable
func GenerateAdminKey(raffleID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(raffleID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the raffle
func ValidateAdminKey(raffleID, adminKey, salt string) error {
	expected := GenerateAdminKey(raffleID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// AdminKeyFromRequest returns the admin key from the X-Admin-Key header,
// falling back to an "Authorization: Bearer <key>" header.
func AdminKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get(AdminKeyHeader); key != "" {
		return key
	}
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(bearer)
	}
	return ""
}

// AuthorizeRequest validates the admin key sent with r for the raffle
func AuthorizeRequest(r *http.Request, raffleID, salt string) error {
	key := AdminKeyFromRequest(r)
	if key == "" {
		return ErrMissingAdminKey
	}
	return ValidateAdminKey(raffleID, key, salt)
}

// GenerateShareSlug creates a short, deterministic URL slug for a raffle
// Uses HMAC for determinism and base62 encoding for URL-friendliness
func GenerateShareSlug(raffleID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(raffleID))
	sum := h.Sum(nil)

	// Take first 8 bytes for a shorter slug
	shortHash := sum[:8]

	// Convert to base62 (alphanumeric only, no special chars)
	return base62Encode(shortHash)
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
// This creates URL-friendly slugs without special characters
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Convert bytes to a big integer
	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	// Convert to base62
	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	// Reverse the string
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// HashIP creates a one-way hash of an IP address for privacy
// Stored on raffles instead of the raw creator address
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
