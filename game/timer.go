package game

import (
	"sync"
	"time"
)

// RoundTimer schedules at most one pending countdown per room. Start
// replaces whatever was pending for the same room, so a replaced or
// cancelled timer can never deliver its callback: every fire is checked
// against the room's current generation before the callback runs.
type RoundTimer struct {
	mu      sync.Mutex
	pending map[string]*timerEntry
}

type timerEntry struct {
	gen   uint64
	timer *time.Timer
}

func NewRoundTimer() *RoundTimer {
	return &RoundTimer{pending: make(map[string]*timerEntry)}
}

// Start schedules onExpire to run once after d, cancelling any countdown
// already pending for the room.
func (rt *RoundTimer) Start(roomID string, d time.Duration, onExpire func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	entry, ok := rt.pending[roomID]
	if ok {
		entry.timer.Stop()
	} else {
		entry = &timerEntry{}
		rt.pending[roomID] = entry
	}
	entry.gen++

	gen := entry.gen
	entry.timer = time.AfterFunc(d, func() {
		if rt.claimFire(roomID, gen) {
			onExpire()
		}
	})
}

// claimFire decides whether a firing timer is still the room's current one.
// A fire that lost the race against Stop is dropped here.
func (rt *RoundTimer) claimFire(roomID string, gen uint64) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	entry, ok := rt.pending[roomID]
	if !ok || entry.gen != gen {
		return false
	}
	delete(rt.pending, roomID)
	return true
}

// Cancel drops any pending countdown for the room. Calling it with nothing
// outstanding is a no-op.
func (rt *RoundTimer) Cancel(roomID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if entry, ok := rt.pending[roomID]; ok {
		entry.timer.Stop()
		delete(rt.pending, roomID)
	}
}

// Active reports whether a countdown is pending for the room.
func (rt *RoundTimer) Active(roomID string) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	_, ok := rt.pending[roomID]
	return ok
}
