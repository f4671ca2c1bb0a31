package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTimer_StartReplacesPending(t *testing.T) {
	rt := NewRoundTimer()
	fired := make(chan string, 2)

	rt.Start("r1", 60*time.Millisecond, func() { fired <- "t1" })
	rt.Start("r1", 10*time.Millisecond, func() { fired <- "t2" })

	select {
	case got := <-fired:
		assert.Equal(t, "t2", got, "only the replacement timer may fire")
	case <-time.After(time.Second):
		t.Fatal("replacement timer never fired")
	}

	select {
	case got := <-fired:
		t.Fatalf("stale timer %q fired after being replaced", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRoundTimer_Cancel(t *testing.T) {
	rt := NewRoundTimer()
	fired := make(chan struct{}, 1)

	rt.Start("r1", 10*time.Millisecond, func() { fired <- struct{}{} })
	rt.Cancel("r1")

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(60 * time.Millisecond):
	}
	assert.False(t, rt.Active("r1"))
}

func TestRoundTimer_CancelIdleIsNoop(t *testing.T) {
	rt := NewRoundTimer()
	rt.Cancel("never-started")
	assert.False(t, rt.Active("never-started"))
}

func TestRoundTimer_RoomsAreIndependent(t *testing.T) {
	rt := NewRoundTimer()
	fired := make(chan string, 2)

	rt.Start("r1", 10*time.Millisecond, func() { fired <- "r1" })
	rt.Start("r2", 10*time.Millisecond, func() { fired <- "r2" })
	rt.Cancel("r1")

	select {
	case got := <-fired:
		assert.Equal(t, "r2", got, "cancelling one room must not touch another")
	case <-time.After(time.Second):
		t.Fatal("r2 timer never fired")
	}
}

func TestRoundTimer_ActiveLifecycle(t *testing.T) {
	rt := NewRoundTimer()
	fired := make(chan struct{}, 1)

	rt.Start("r1", 10*time.Millisecond, func() { fired <- struct{}{} })
	assert.True(t, rt.Active("r1"))

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	require.False(t, rt.Active("r1"), "a fired timer is no longer pending")
}
