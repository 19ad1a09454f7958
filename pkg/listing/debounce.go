package listing

import (
	"context"
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls sharing a key: every call waits out the
// delay and only the most recent call for a key is allowed to proceed.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		latest: make(map[string]uint64),
	}
}

// Wait registers a call for key and blocks for the delay. It reports true when
// no newer call for the same key arrived in the meantime.
func (d *Debouncer) Wait(ctx context.Context, key string) (bool, error) {
	d.mu.Lock()
	d.seq++
	gen := d.seq
	d.latest[key] = gen
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		d.release(key, gen)
		return false, ctx.Err()
	case <-timer.C:
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.latest[key] != gen {
		return false, nil
	}
	delete(d.latest, key)
	return true, nil
}

func (d *Debouncer) release(key string, gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.latest[key] == gen {
		delete(d.latest, key)
	}
}

// Pending is the number of keys with a call still waiting.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.latest)
}
