package session

import (
	"context"
	"log"
	"time"
)

// SweepEvery runs Sweep on a fixed interval until the context ends.
func (st *Store) SweepEvery(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(); n > 0 {
				log.Printf("[session] evicted %d idle session(s)", n)
			}
		}
	}
}
