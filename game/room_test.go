package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestNewRoom_ClampsMaxDrawers(t *testing.T) {
	assert.Equal(t, 1, NewRoom("r", 0).maxDrawers)
	assert.Equal(t, 1, NewRoom("r", -3).maxDrawers)
	assert.Equal(t, 4, NewRoom("r", 4).maxDrawers)
	assert.Equal(t, PHASE_WAITING, NewRoom("r", 1).Phase())
}

func TestRoom_AddPlayer_Idempotent(t *testing.T) {
	r := NewRoom("r", 2)
	r.AddPlayer("admin", "Admin", true)
	bob := r.AddPlayer("c1", "Bob", false)
	r.AddPlayer("c2", "Carol", false)
	bob.score = 150

	again := r.AddPlayer("c1", "Bobby", false)

	assert.Len(t, r.players, 3, "re-join must not grow the roster")
	assert.Equal(t, 0, again.score, "re-join resets the score")
	assert.Equal(t, "Bobby", again.name)
	assert.Same(t, again, r.players[1], "re-join keeps the roster position")
}

func TestRoom_AddPlayer_AdminFlagImmutable(t *testing.T) {
	r := NewRoom("r", 2)
	r.AddPlayer("admin", "Admin", true)

	rejoined := r.AddPlayer("admin", "Sneaky", false)

	assert.True(t, rejoined.isAdmin, "creator stays admin across re-join")
	assert.Empty(t, r.NonAdminPlayers())
}

func TestRoom_AssignDrawers(t *testing.T) {
	testCases := []struct {
		desc       string
		maxDrawers int
		eligible   int
		want       int
	}{
		{desc: "fewer slots than players", maxDrawers: 2, eligible: 5, want: 2},
		{desc: "more slots than players", maxDrawers: 10, eligible: 3, want: 3},
		{desc: "single drawer", maxDrawers: 1, eligible: 4, want: 1},
		{desc: "nobody eligible", maxDrawers: 3, eligible: 0, want: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := NewRoom("r", tC.maxDrawers)
			r.AddPlayer("admin", "Admin", true)
			for i := 0; i < tC.eligible; i++ {
				r.AddPlayer(string(rune('a'+i)), "p", false)
			}

			r.AssignDrawers(testRng())

			assert.Len(t, r.drawers, tC.want)
			assert.Equal(t, PHASE_CHOOSING_WORD, r.phase)
			assert.Equal(t, 0, r.drawerIndex)
			for _, d := range r.drawers {
				assert.False(t, d.isAdmin, "admins must never draw")
			}
		})
	}
}

func TestRoom_AssignDrawers_NoDuplicates(t *testing.T) {
	r := NewRoom("r", 4)
	for i := 0; i < 4; i++ {
		r.AddPlayer(string(rune('a'+i)), "p", false)
	}

	r.AssignDrawers(testRng())

	seen := map[string]bool{}
	for _, d := range r.drawers {
		assert.False(t, seen[d.id], "drawer %s selected twice", d.id)
		seen[d.id] = true
	}
}

func TestRoom_AdvanceDrawer_Exhaustion(t *testing.T) {
	r := NewRoom("r", 2)
	r.AddPlayer("c1", "Bob", false)
	r.AddPlayer("c2", "Carol", false)
	r.AssignDrawers(testRng())
	r.currentWord = "cat"

	require.NotNil(t, r.CurrentDrawer())

	assert.True(t, r.AdvanceDrawer(), "second drawer still pending")
	assert.Empty(t, r.currentWord, "advance clears the word")
	require.NotNil(t, r.CurrentDrawer())

	assert.False(t, r.AdvanceDrawer(), "rotation exhausted")
	assert.Nil(t, r.CurrentDrawer())
}

func TestRoom_GuessMatches(t *testing.T) {
	testCases := []struct {
		desc  string
		word  string
		guess string
		want  bool
	}{
		{desc: "exact", word: "apple", guess: "apple", want: true},
		{desc: "case insensitive", word: "apple", guess: "Apple", want: true},
		{desc: "all caps", word: "apple", guess: "APPLE", want: true},
		{desc: "surrounding spaces", word: "apple", guess: "  apple ", want: true},
		{desc: "prefix is not a match", word: "apple", guess: "appl", want: false},
		{desc: "superstring is not a match", word: "apple", guess: "apples", want: false},
		{desc: "empty guess", word: "apple", guess: "", want: false},
		{desc: "no active word", word: "", guess: "apple", want: false},
		{desc: "unicode case folding", word: "Straße", guess: "STRASSE", want: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := NewRoom("r", 1)
			r.currentWord = tC.word
			assert.Equal(t, tC.want, r.GuessMatches(tC.guess))
		})
	}
}

func TestRoom_RecordCorrectGuess(t *testing.T) {
	r := NewRoom("r", 2)
	bob := r.AddPlayer("c1", "Bob", false)
	carol := r.AddPlayer("c2", "Carol", false)
	r.drawers = []*Player{carol, bob}
	r.drawerIndex = 0

	guesser, drawer := r.RecordCorrectGuess("c1")

	assert.Same(t, bob, guesser)
	assert.Same(t, carol, drawer)
	assert.Equal(t, GUESSER_BONUS, bob.score)
	assert.Equal(t, DRAWER_BONUS, carol.score)
}

func TestRoom_RecordCorrectGuess_GuesserIsDrawer(t *testing.T) {
	r := NewRoom("r", 1)
	bob := r.AddPlayer("c1", "Bob", false)
	r.drawers = []*Player{bob}
	r.drawerIndex = 0

	guesser, drawer := r.RecordCorrectGuess("c1")

	assert.Same(t, guesser, drawer)
	assert.Equal(t, GUESSER_BONUS+DRAWER_BONUS, bob.score, "sole drawer guessing its own word collects both bonuses once")
}

func TestRoom_RecordCorrectGuess_UnknownGuesser(t *testing.T) {
	r := NewRoom("r", 1)
	carol := r.AddPlayer("c2", "Carol", false)
	r.drawers = []*Player{carol}
	r.drawerIndex = 0

	guesser, drawer := r.RecordCorrectGuess("ghost")

	assert.Nil(t, guesser)
	assert.Same(t, carol, drawer)
	assert.Equal(t, DRAWER_BONUS, carol.score)
}

func TestRoom_Rankings(t *testing.T) {
	r := NewRoom("r", 2)
	r.AddPlayer("admin", "Admin", true)
	a := r.AddPlayer("c1", "A", false)
	b := r.AddPlayer("c2", "B", false)
	c := r.AddPlayer("c3", "C", false)
	a.score = 100
	b.score = 100
	c.score = 50

	ranked := r.Rankings()

	require.Len(t, ranked, 3, "admin excluded from rankings")
	assert.Same(t, a, ranked[0], "tie broken by join order")
	assert.Same(t, b, ranked[1])
	assert.Same(t, c, ranked[2])
}

func TestRoom_Rankings_StableAcrossEqualScores(t *testing.T) {
	r := NewRoom("r", 2)
	var joined []*Player
	for i := 0; i < 6; i++ {
		joined = append(joined, r.AddPlayer(string(rune('a'+i)), "p", false))
	}

	ranked := r.Rankings()

	require.Len(t, ranked, 6)
	for i, p := range ranked {
		assert.Same(t, joined[i], p, "all-zero scores must keep join order at position %d", i)
	}
}

func TestRoom_RemovePlayer(t *testing.T) {
	r := NewRoom("r", 3)
	bob := r.AddPlayer("c1", "Bob", false)
	carol := r.AddPlayer("c2", "Carol", false)
	dave := r.AddPlayer("c3", "Dave", false)
	r.drawers = []*Player{bob, carol, dave}
	r.drawerIndex = 1

	assert.True(t, r.RemovePlayer("c1"))

	assert.Len(t, r.players, 2)
	assert.Len(t, r.drawers, 2)
	assert.Same(t, carol, r.CurrentDrawer(), "removing an earlier drawer keeps the rotation on the same player")

	assert.False(t, r.RemovePlayer("c1"), "second removal is a no-op")
}

func TestRoom_RemovePlayer_CurrentDrawer(t *testing.T) {
	r := NewRoom("r", 2)
	bob := r.AddPlayer("c1", "Bob", false)
	carol := r.AddPlayer("c2", "Carol", false)
	r.drawers = []*Player{bob, carol}
	r.drawerIndex = 0

	require.True(t, r.RemovePlayer("c1"))
	assert.Same(t, carol, r.CurrentDrawer(), "rotation slides onto the next drawer")

	require.True(t, r.RemovePlayer("c2"))
	assert.Nil(t, r.CurrentDrawer(), "no drawers left")
	assert.True(t, r.Empty())
}
