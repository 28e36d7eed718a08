// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-spin/auth"
	"github.com/danielhkuo/quickly-spin/cliparse"
	"github.com/danielhkuo/quickly-spin/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// Each call gets its own database, closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := db.Open(cliparse.DatabaseSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseType:  cliparse.DatabaseSQLite,
		DatabaseURL:   cliparse.DefaultSQLiteURL,
		AdminKeySalt:  "test-admin-salt",
		ShareSlugSalt: "test-slug-salt",
		BaseURL:       "http://spin.test",
		SpinDuration:  time.Millisecond,
		RevealPause:   time.Millisecond,
		RaffleTTL:     time.Hour,
	}
}

// CreateTestRaffle inserts a raffle and returns its ID, admin key and share slug
func CreateTestRaffle(t *testing.T, conn *sql.DB, cfg cliparse.Config, title string) (raffleID, adminKey, shareSlug string) {
	t.Helper()

	raffleID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(raffleID, cfg.AdminKeySalt)
	shareSlug = auth.GenerateShareSlug(raffleID, cfg.ShareSlugSalt)

	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO raffle (id, title, share_slug, rotation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, raffleID, title, shareSlug, 0.0, now, now)
	if err != nil {
		t.Fatalf("Failed to create test raffle: %v", err)
	}

	return raffleID, adminKey, shareSlug
}

// AddTestParticipants appends names to a raffle and returns their IDs in order
func AddTestParticipants(t *testing.T, conn *sql.DB, raffleID string, names ...string) []string {
	t.Helper()

	var next int
	if err := conn.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM participant WHERE raffle_id = $1`, raffleID).Scan(&next); err != nil {
		t.Fatalf("Failed to read participant position: %v", err)
	}

	ids := make([]string, 0, len(names))
	for i, name := range names {
		id := uuid.NewString()
		_, err := conn.Exec(`
			INSERT INTO participant (id, raffle_id, name, name_key, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, raffleID, name, strings.ToLower(name), next+i, time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to create test participant: %v", err)
		}
		ids = append(ids, id)
	}

	return ids
}

// AddTestPrize appends a prize to a raffle and returns its ID
func AddTestPrize(t *testing.T, conn *sql.DB, raffleID, name string, value *string) string {
	t.Helper()

	var next int
	if err := conn.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM prize WHERE raffle_id = $1`, raffleID).Scan(&next); err != nil {
		t.Fatalf("Failed to read prize position: %v", err)
	}

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO prize (id, raffle_id, name, value, position)
		VALUES ($1, $2, $3, $4, $5)
	`, id, raffleID, name, value, next)
	if err != nil {
		t.Fatalf("Failed to create test prize: %v", err)
	}

	return id
}

// AdminHeaders returns the header map for admin requests
func AdminHeaders(adminKey string) map[string]string {
	return map[string]string{auth.AdminKeyHeader: adminKey}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
