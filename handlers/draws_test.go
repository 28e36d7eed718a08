// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/danielhkuo/quickly-spin/auth"
	"github.com/danielhkuo/quickly-spin/models"
	"github.com/danielhkuo/quickly-spin/testutil"
	"github.com/danielhkuo/quickly-spin/wheel"
)

func postDraw(t *testing.T, handler *DrawHandler, raffleID, adminKey string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := adminRequest("POST", "/raffles/"+raffleID+"/draws", raffleID, adminKey, body)
	w := httptest.NewRecorder()
	handler.CreateDraw(w, req)
	return w
}

func TestCreateDraw_ScriptedPicks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	engine := wheel.NewEngine(&pickRNG{picks: []int{3, 0}})
	handler := NewDrawHandler(db, cfg, engine, newTestDirector(t, nil))

	raffleID, adminKey, _ := testutil.CreateTestRaffle(t, db, cfg, "Scripted")
	testutil.AddTestParticipants(t, db, raffleID, "A", "B", "C", "D")
	value := "50"
	prizeID := testutil.AddTestPrize(t, db, raffleID, "Grand prize", &value)

	w := postDraw(t, handler, raffleID, adminKey, models.DrawRequest{Count: 2})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.DrawResponse
	testutil.AssertJSON(t, w, &resp)
	draw := resp.Draw

	if draw.SlicesTotal != 4 || draw.Requested != 2 || draw.StartRotation != 0 {
		t.Errorf("Unexpected draw header %+v", draw)
	}
	if len(draw.Winners) != 2 {
		t.Fatalf("Expected 2 winners, got %d", len(draw.Winners))
	}

	// Three extra turns each at the bottom of the multi-winner range.
	want := []struct {
		name     string
		index    int
		place    string
		rotation float64
	}{
		{"D", 3, "1st", 1125},
		{"A", 0, "2nd", 2520},
	}
	for i, exp := range want {
		got := draw.Winners[i]
		if got.Name != exp.name || got.ParticipantIndex != exp.index || got.Place != exp.place || got.TargetRotation != exp.rotation {
			t.Errorf("Winner %d: expected %+v, got %+v", i, exp, got)
		}
	}

	if draw.Winners[0].Prize == nil || draw.Winners[0].Prize.ID != prizeID {
		t.Errorf("Expected first winner to get the prize, got %+v", draw.Winners[0].Prize)
	}
	if draw.Winners[1].Prize != nil {
		t.Errorf("Expected no prize for second winner, got %+v", draw.Winners[1].Prize)
	}
	if draw.EndRotation != 2520 {
		t.Errorf("Expected end rotation 2520, got %v", draw.EndRotation)
	}
	if resp.Reveal.Generation != 1 {
		t.Errorf("Expected reveal generation 1, got %d", resp.Reveal.Generation)
	}
	if resp.Reveal.SpinDurationMS != cfg.SpinDuration.Milliseconds() {
		t.Errorf("Unexpected spin duration %d", resp.Reveal.SpinDurationMS)
	}

	var rotation float64
	if err := db.QueryRow("SELECT rotation FROM raffle WHERE id = $1", raffleID).Scan(&rotation); err != nil {
		t.Fatalf("Failed to query rotation: %v", err)
	}
	if rotation != 2520 {
		t.Errorf("Expected stored rotation 2520, got %v", rotation)
	}

	var winnerRows int
	if err := db.QueryRow("SELECT COUNT(*) FROM draw_winner WHERE draw_id = $1", draw.ID).Scan(&winnerRows); err != nil {
		t.Fatalf("Failed to count winners: %v", err)
	}
	if winnerRows != 2 {
		t.Errorf("Expected 2 stored winners, got %d", winnerRows)
	}

	// Winners stay on the wheel unless removal was asked for.
	var remaining int
	if err := db.QueryRow("SELECT COUNT(*) FROM participant WHERE raffle_id = $1", raffleID).Scan(&remaining); err != nil {
		t.Fatalf("Failed to count participants: %v", err)
	}
	if remaining != 4 {
		t.Errorf("Expected 4 participants, got %d", remaining)
	}
}

func TestCreateDraw_ContinuesFromRotation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewDrawHandler(db, cfg, wheel.NewEngine(wheel.NewSeededRNG(7)), newTestDirector(t, nil))

	raffleID, adminKey, _ := testutil.CreateTestRaffle(t, db, cfg, "Twice")
	testutil.AddTestParticipants(t, db, raffleID, "A", "B", "C")

	var first, second models.DrawResponse
	w := postDraw(t, handler, raffleID, adminKey, models.DrawRequest{Count: 1})
	testutil.AssertStatus(t, w, http.StatusCreated)
	testutil.AssertJSON(t, w, &first)

	w = postDraw(t, handler, raffleID, adminKey, models.DrawRequest{Count: 1})
	testutil.AssertStatus(t, w, http.StatusCreated)
	testutil.AssertJSON(t, w, &second)

	if second.Draw.StartRotation != first.Draw.EndRotation {
		t.Errorf("Expected second draw to start at %v, got %v", first.Draw.EndRotation, second.Draw.StartRotation)
	}
	if second.Draw.EndRotation <= second.Draw.StartRotation {
		t.Errorf("Expected rotation to move forward, got %v -> %v", second.Draw.StartRotation, second.Draw.EndRotation)
	}
	if second.Reveal.Generation != first.Reveal.Generation+1 {
		t.Errorf("Expected generation to advance, got %d then %d", first.Reveal.Generation, second.Reveal.Generation)
	}

	// From rest at 0 the first winner lands under the pointer.
	winner := first.Draw.Winners[0]
	if got := wheel.SliceAt(winner.TargetRotation, 3); got != winner.ParticipantIndex {
		t.Errorf("Expected slice %d under pointer, got %d", winner.ParticipantIndex, got)
	}
}

func TestCreateDraw_RemoveWinners(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewDrawHandler(db, cfg, wheel.NewEngine(&pickRNG{picks: []int{1, 2}}), newTestDirector(t, nil))

	raffleID, adminKey, _ := testutil.CreateTestRaffle(t, db, cfg, "Remove")
	testutil.AddTestParticipants(t, db, raffleID, "A", "B", "C", "D")

	w := postDraw(t, handler, raffleID, adminKey, models.DrawRequest{Count: 2, RemoveWinners: true})
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Pool [A B C D] -> pick 1 (B), pool [A C D] -> pick 2 (D)
	participants, err := loadParticipants(t.Context(), db, raffleID)
	if err != nil {
		t.Fatalf("Failed to load participants: %v", err)
	}
	if len(participants) != 2 || participants[0].Name != "A" || participants[1].Name != "C" {
		t.Errorf("Expected [A C] left, got %+v", participants)
	}

	// History keeps the removed winners' names.
	draws, err := loadDraws(t.Context(), db, raffleID, 0)
	if err != nil {
		t.Fatalf("Failed to load draws: %v", err)
	}
	if len(draws) != 1 || draws[0].Winners[0].Name != "B" || draws[0].Winners[1].Name != "D" {
		t.Errorf("Unexpected history %+v", draws)
	}
}

func TestCreateDraw_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewDrawHandler(db, cfg, wheel.NewEngine(wheel.NewRNG()), newTestDirector(t, nil))

	raffleID, adminKey, _ := testutil.CreateTestRaffle(t, db, cfg, "Errors")
	testutil.AddTestParticipants(t, db, raffleID, "A", "B")

	emptyID, emptyKey, _ := testutil.CreateTestRaffle(t, db, cfg, "Empty")

	missing := "doesnotexist"
	missingKey := auth.GenerateAdminKey(missing, cfg.AdminKeySalt)

	tests := []struct {
		name           string
		raffleID       string
		adminKey       string
		body           interface{}
		expectedStatus int
	}{
		{"count above participants", raffleID, adminKey, models.DrawRequest{Count: 3}, http.StatusBadRequest},
		{"count zero", raffleID, adminKey, models.DrawRequest{Count: 0}, http.StatusBadRequest},
		{"negative count", raffleID, adminKey, map[string]int{"count": -2}, http.StatusBadRequest},
		{"invalid JSON", raffleID, adminKey, "two", http.StatusBadRequest},
		{"no participants", emptyID, emptyKey, models.DrawRequest{Count: 1}, http.StatusBadRequest},
		{"unknown raffle", missing, missingKey, models.DrawRequest{Count: 1}, http.StatusNotFound},
		{"bad admin key", raffleID, "nope", models.DrawRequest{Count: 1}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postDraw(t, handler, tt.raffleID, tt.adminKey, tt.body)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// Failed draws leave no trace.
	var draws int
	if err := db.QueryRow("SELECT COUNT(*) FROM draw").Scan(&draws); err != nil {
		t.Fatalf("Failed to count draws: %v", err)
	}
	if draws != 0 {
		t.Errorf("Expected no draws stored, got %d", draws)
	}
	var rotation float64
	if err := db.QueryRow("SELECT rotation FROM raffle WHERE id = $1", raffleID).Scan(&rotation); err != nil {
		t.Fatalf("Failed to query rotation: %v", err)
	}
	if rotation != 0 {
		t.Errorf("Expected rotation untouched, got %v", rotation)
	}
}

func TestListDraws(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewDrawHandler(db, cfg, wheel.NewEngine(wheel.NewSeededRNG(3)), newTestDirector(t, nil))

	raffleID, adminKey, _ := testutil.CreateTestRaffle(t, db, cfg, "History")
	testutil.AddTestParticipants(t, db, raffleID, "A", "B", "C", "D", "E")
	value := "9.99"
	testutil.AddTestPrize(t, db, raffleID, "Book", &value)

	var ids []string
	for _, count := range []int{1, 3} {
		w := postDraw(t, handler, raffleID, adminKey, models.DrawRequest{Count: count})
		testutil.AssertStatus(t, w, http.StatusCreated)
		var resp models.DrawResponse
		testutil.AssertJSON(t, w, &resp)
		ids = append(ids, resp.Draw.ID)
	}

	req := adminRequest("GET", "/raffles/"+raffleID+"/draws", raffleID, adminKey, nil)
	w := httptest.NewRecorder()
	handler.ListDraws(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var history models.DrawHistoryResponse
	testutil.AssertJSON(t, w, &history)

	if len(history.Draws) != 2 {
		t.Fatalf("Expected 2 draws, got %d", len(history.Draws))
	}
	if history.Draws[0].ID != ids[1] || history.Draws[1].ID != ids[0] {
		t.Error("Expected newest draw first")
	}
	if len(history.Draws[0].Winners) != 3 {
		t.Errorf("Expected 3 winners in latest draw, got %d", len(history.Draws[0].Winners))
	}

	first := history.Draws[0].Winners[0]
	if first.Place != "1st" || first.Prize == nil || first.Prize.Name != "Book" || first.Prize.Value.Decimal.String() != "9.99" {
		t.Errorf("Unexpected first winner %+v", first)
	}
	if history.Draws[0].Winners[2].Place != "3rd" {
		t.Errorf("Expected 3rd place label, got %q", history.Draws[0].Winners[2].Place)
	}
}

func TestConcurrentDraws(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewDrawHandler(db, cfg, wheel.NewEngine(wheel.NewSeededRNG(42)), newTestDirector(t, nil))

	raffleID, adminKey, _ := testutil.CreateTestRaffle(t, db, cfg, "Busy")
	testutil.AddTestParticipants(t, db, raffleID, "A", "B", "C", "D", "E", "F", "G", "H")

	const numDraws = 6
	var wg sync.WaitGroup
	codes := make([]int, numDraws)

	for i := 0; i < numDraws; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := adminRequest("POST", "/raffles/"+raffleID+"/draws", raffleID, adminKey, models.DrawRequest{Count: 2})
			w := httptest.NewRecorder()
			handler.CreateDraw(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusCreated {
			t.Errorf("Draw %d: expected 201, got %d", i, code)
		}
	}

	draws, err := loadDraws(t.Context(), db, raffleID, 0)
	if err != nil {
		t.Fatalf("Failed to load draws: %v", err)
	}
	if len(draws) != numDraws {
		t.Fatalf("Expected %d draws, got %d", numDraws, len(draws))
	}

	// Serialized draws chain: each starts where another ended.
	sort.Slice(draws, func(i, j int) bool { return draws[i].StartRotation < draws[j].StartRotation })
	if draws[0].StartRotation != 0 {
		t.Errorf("Expected first draw to start at 0, got %v", draws[0].StartRotation)
	}
	for i := 1; i < len(draws); i++ {
		if draws[i].StartRotation != draws[i-1].EndRotation {
			t.Errorf("Draw %d starts at %v, previous ended at %v", i, draws[i].StartRotation, draws[i-1].EndRotation)
		}
	}

	var rotation float64
	if err := db.QueryRow("SELECT rotation FROM raffle WHERE id = $1", raffleID).Scan(&rotation); err != nil {
		t.Fatalf("Failed to query rotation: %v", err)
	}
	if rotation != draws[len(draws)-1].EndRotation {
		t.Errorf("Expected stored rotation %v, got %v", draws[len(draws)-1].EndRotation, rotation)
	}
}
