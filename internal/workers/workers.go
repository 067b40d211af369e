// Package workers holds background maintenance routines.
package workers

import (
	"log"
	"time"

	"fitTrackAPI/internal/session"
)

// StartSessionJanitor periodically drops conversation states that have been
// idle longer than ttl. Runs until the process exits.
func StartSessionJanitor(store *session.Store, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		for range ticker.C {
			if removed := store.ExpireBefore(time.Now().Add(-ttl)); removed > 0 {
				log.Printf("Session janitor removed %d stale conversation state(s)", removed)
			}
		}
	}()
}
