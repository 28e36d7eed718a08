// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
)

var (
	hexRe    = regexp.MustCompile(`^[0-9a-f]+$`)
	base62Re = regexp.MustCompile(`^[0-9a-zA-Z]+$`)
)

func TestGenerateID(t *testing.T) {
	// Raffle IDs are 16 bytes, hex encoded
	seen := make(map[string]bool)
	for range 500 {
		id, err := GenerateID(16)
		if err != nil {
			t.Fatalf("GenerateID() error = %v", err)
		}
		if len(id) != 32 || !hexRe.MatchString(id) {
			t.Fatalf("GenerateID() = %q, want 32 hex chars", id)
		}
		if seen[id] {
			t.Fatalf("GenerateID() repeated %q", id)
		}
		seen[id] = true
	}

	short, err := GenerateID(4)
	if err != nil {
		t.Fatalf("GenerateID() error = %v", err)
	}
	if len(short) != 8 {
		t.Errorf("GenerateID(4) length = %d, want 8", len(short))
	}
}

func TestAdminKey(t *testing.T) {
	const salt = "admin-salt"
	raffleID := "5f2c9a0e4b7d4c1e9a3f6b8d2e0c7a15"
	otherID := "0b1e7d3c9f2a4e68b5c0d7a1f3e9b246"
	key := GenerateAdminKey(raffleID, salt)

	if key != GenerateAdminKey(raffleID, salt) {
		t.Fatal("GenerateAdminKey() is not deterministic")
	}
	if strings.ContainsAny(key, "=+/") {
		t.Errorf("GenerateAdminKey() = %q, want unpadded URL-safe text", key)
	}
	if key == GenerateAdminKey(otherID, salt) {
		t.Error("Two raffles share an admin key")
	}

	tests := []struct {
		name     string
		raffleID string
		key      string
		salt     string
		wantErr  error
	}{
		{"own key", raffleID, key, salt, nil},
		{"key of another raffle", raffleID, GenerateAdminKey(otherID, salt), salt, ErrInvalidAdminKey},
		{"own key used on another raffle", otherID, key, salt, ErrInvalidAdminKey},
		{"salt rotated", raffleID, key, "new-salt", ErrInvalidAdminKey},
		{"truncated", raffleID, key[:len(key)-1], salt, ErrInvalidAdminKey},
		{"share slug is not a key", raffleID, GenerateShareSlug(raffleID, salt), salt, ErrInvalidAdminKey},
		{"empty", raffleID, "", salt, ErrInvalidAdminKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.raffleID, tt.key, tt.salt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAdminKeyFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"admin header", map[string]string{AdminKeyHeader: "k1"}, "k1"},
		{"bearer", map[string]string{"Authorization": "Bearer k2"}, "k2"},
		{"bearer with padding", map[string]string{"Authorization": "Bearer  k3 "}, "k3"},
		{"admin header first", map[string]string{AdminKeyHeader: "k1", "Authorization": "Bearer k2"}, "k1"},
		{"lowercase bearer", map[string]string{"Authorization": "bearer k2"}, ""},
		{"nothing", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/raffles/r1/draws", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := AdminKeyFromRequest(req); got != tt.want {
				t.Errorf("AdminKeyFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShareSlug(t *testing.T) {
	const salt = "slug-salt"

	// Spectator links for many raffles stay short, alphanumeric and distinct
	seen := make(map[string]string)
	for range 1000 {
		raffleID, err := GenerateID(16)
		if err != nil {
			t.Fatalf("GenerateID() error = %v", err)
		}
		slug := GenerateShareSlug(raffleID, salt)

		if !base62Re.MatchString(slug) || len(slug) > 11 {
			t.Fatalf("GenerateShareSlug() = %q, want at most 11 base62 chars", slug)
		}
		if prev, ok := seen[slug]; ok {
			t.Fatalf("Raffles %s and %s share slug %s", prev, raffleID, slug)
		}
		seen[slug] = raffleID

		if slug != GenerateShareSlug(raffleID, salt) {
			t.Fatal("GenerateShareSlug() is not deterministic")
		}
	}

	if GenerateShareSlug("raffle", "salt-a") == GenerateShareSlug("raffle", "salt-b") {
		t.Error("Slug does not depend on the salt")
	}
	if strings.Contains(GenerateShareSlug("raffle", salt), "raffle") {
		t.Error("Slug leaks the raffle ID")
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte{0, 0, 0, 0}, "0"},
		{[]byte{0, 0, 0, 1}, "1"},
		{[]byte{0, 0, 0, 10}, "a"},
		{[]byte{0, 0, 0, 36}, "A"},
		{[]byte{0, 0, 0, 61}, "Z"},
		{[]byte{0, 0, 0, 62}, "10"},
		{[]byte{0, 0, 0x0f, 0x04}, "100"},
	}

	for _, tt := range tests {
		if got := base62Encode(tt.input); got != tt.want {
			t.Errorf("base62Encode(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}

	// Only the first 8 bytes count
	long := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if base62Encode(long) != base62Encode(long[:8]) {
		t.Error("base62Encode() used bytes past the eighth")
	}
}

func TestHashIP(t *testing.T) {
	const salt = "ip-salt"

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "203.0.113.7"},
		{"IPv6", "2001:db8::7"},
		{"loopback", "127.0.0.1"},
	}

	hashes := make(map[string]string)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, salt)

			if len(hash) != 16 || !hexRe.MatchString(hash) {
				t.Errorf("HashIP() = %q, want 16 hex chars", hash)
			}
			if strings.Contains(hash, tt.ip) {
				t.Error("HashIP() leaks the address")
			}
			if hash != HashIP(tt.ip, salt) {
				t.Error("HashIP() is not deterministic")
			}
			if hash == HashIP(tt.ip, "other-salt") {
				t.Error("HashIP() ignores the salt")
			}
			hashes[tt.ip] = hash
		})
	}

	if len(hashes) == len(tests) && hashes["203.0.113.7"] == hashes["127.0.0.1"] {
		t.Error("Different creators share a hash")
	}
}

func TestAuthorizeRequest(t *testing.T) {
	raffleID := "raffle-42"
	salt := "admin-salt"
	key := GenerateAdminKey(raffleID, salt)

	tests := []struct {
		name    string
		headers map[string]string
		wantErr error
	}{
		{"header", map[string]string{AdminKeyHeader: key}, nil},
		{"bearer", map[string]string{"Authorization": "Bearer " + key}, nil},
		{"header wins over bearer", map[string]string{AdminKeyHeader: key, "Authorization": "Bearer nope"}, nil},
		{"bad header wins over good bearer", map[string]string{AdminKeyHeader: "nope", "Authorization": "Bearer " + key}, ErrInvalidAdminKey},
		{"bearer for another raffle", map[string]string{"Authorization": "Bearer " + GenerateAdminKey("raffle-43", salt)}, ErrInvalidAdminKey},
		{"missing", nil, ErrMissingAdminKey},
		{"basic auth ignored", map[string]string{"Authorization": "Basic " + key}, ErrMissingAdminKey},
		{"wrong key", map[string]string{AdminKeyHeader: "nope"}, ErrInvalidAdminKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/raffles/"+raffleID, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			err := AuthorizeRequest(req, raffleID, salt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AuthorizeRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func BenchmarkValidateAdminKey(b *testing.B) {
	raffleID := "raffle-42"
	key := GenerateAdminKey(raffleID, "admin-salt")
	for b.Loop() {
		ValidateAdminKey(raffleID, key, "admin-salt")
	}
}
