// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-spin/live"
	"github.com/danielhkuo/quickly-spin/reveal"
	"github.com/danielhkuo/quickly-spin/testutil"
)

// pickRNG returns scripted picks and always the lowest spin count.
type pickRNG struct {
	picks []int
	next  int
}

func (r *pickRNG) IntN(n int) int {
	p := r.picks[r.next%len(r.picks)]
	r.next++
	return p % n
}

func (r *pickRNG) Float64() float64 { return 0 }

func newTestDirector(t *testing.T, hub *live.Hub) *live.Director {
	t.Helper()
	if hub == nil {
		hub = live.NewHub()
	}
	director := live.NewDirector(hub, reveal.Sequencer{SpinDuration: time.Millisecond, Pause: time.Millisecond}, time.Minute)
	t.Cleanup(director.Close)
	return director
}

// adminRequest builds a request for an admin route with the path values the
// router would set.
func adminRequest(method, path, raffleID, adminKey string, body interface{}) *http.Request {
	var headers map[string]string
	if adminKey != "" {
		headers = testutil.AdminHeaders(adminKey)
	}
	req := testutil.MakeRequest(method, path, body, headers)
	req.SetPathValue("id", raffleID)
	return req
}
