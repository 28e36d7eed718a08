// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package live streams reveals to spectators over websockets.

# Hub

A Hub keeps websocket subscribers grouped by channel (the raffle ID):

	hub := live.NewHub()
	mux.HandleFunc("GET /r/{slug}/live", func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, raffleID)
	})
	hub.Broadcast(raffleID, event)

Messages are JSON. Subscribers that cannot be written to are dropped.

# Director

A Director owns one reveal.Generation per raffle, kept in a go-cache. The
TTL applies only between reveals. Events are queued in order and written to
the hub outside the generation lock:

	director := live.NewDirector(hub, reveal.Sequencer{...}, cfg.RaffleTTL)
	token := director.Start(raffleID, drawID, winners)
	director.Cancel(raffleID, 0) // reset: stop and broadcast reveal_cancelled
	director.Close()             // shutdown
*/
package live
