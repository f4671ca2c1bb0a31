package game

import (
	"math/rand/v2"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

type RoomPhase int

const (
	PHASE_WAITING RoomPhase = iota // Players are joining, no game yet.
	PHASE_CHOOSING_WORD            // The current drawer is picking a word.
	PHASE_DRAWING                  // Drawing in progress, guesses accepted.
	PHASE_ROUND_ENDING             // Round resolved, waiting for the reveal delay.
	PHASE_FINISHED                 // Drawer rotation exhausted, terminal.
)

func (p RoomPhase) String() string {
	switch p {
	case PHASE_WAITING:
		return "waiting"
	case PHASE_CHOOSING_WORD:
		return "choosing_word"
	case PHASE_DRAWING:
		return "drawing"
	case PHASE_ROUND_ENDING:
		return "round_ending"
	case PHASE_FINISHED:
		return "finished"
	}
	return "unknown"
}

// Score bonuses for a correct guess.
const (
	GUESSER_BONUS = 100
	DRAWER_BONUS  = 50
)

// Room is one isolated game session. All mutation goes through the
// coordinator's actor goroutine, so the struct carries no lock.
type Room struct {
	id          string
	maxDrawers  int
	phase       RoomPhase
	players     []*Player // insertion order
	drawers     []*Player // fixed for the game once assigned
	drawerIndex int
	currentWord string
	timerActive bool
}

func NewRoom(id string, maxDrawers int) *Room {
	if maxDrawers < 1 {
		maxDrawers = 1
	}
	return &Room{
		id:         id,
		maxDrawers: maxDrawers,
		phase:      PHASE_WAITING,
	}
}

func (r *Room) ID() string       { return r.id }
func (r *Room) Phase() RoomPhase { return r.phase }
func (r *Room) Empty() bool      { return len(r.players) == 0 }

// AddPlayer appends a new player, or replaces the entry for a connection id
// that is already present. A replaced player keeps its admin flag and
// roster position but starts over at score zero.
func (r *Room) AddPlayer(connID, name string, isAdmin bool) *Player {
	for i, p := range r.players {
		if p.id == connID {
			rejoined := &Player{id: connID, name: name, isAdmin: p.isAdmin, session: p.session}
			r.players[i] = rejoined
			for j, d := range r.drawers {
				if d.id == connID {
					r.drawers[j] = rejoined
				}
			}
			return rejoined
		}
	}
	p := &Player{id: connID, name: name, isAdmin: isAdmin}
	r.players = append(r.players, p)
	return p
}

func (r *Room) playerByID(connID string) *Player {
	for _, p := range r.players {
		if p.id == connID {
			return p
		}
	}
	return nil
}

// NonAdminPlayers returns the roster without admins, in join order.
func (r *Room) NonAdminPlayers() []*Player {
	out := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if !p.isAdmin {
			out = append(out, p)
		}
	}
	return out
}

// AssignDrawers draws up to maxDrawers players from the non-admin roster
// with a partial Fisher-Yates shuffle, then rewinds the rotation and moves
// the room into word selection.
func (r *Room) AssignDrawers(rng *rand.Rand) {
	eligible := r.NonAdminPlayers()
	n := min(r.maxDrawers, len(eligible))
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}
	r.drawers = eligible[:n:n]
	r.drawerIndex = 0
	r.phase = PHASE_CHOOSING_WORD
}

// CurrentDrawer returns the drawer whose turn it is, or nil once the
// rotation is exhausted or nobody was eligible to draw.
func (r *Room) CurrentDrawer() *Player {
	if r.drawerIndex < 0 || r.drawerIndex >= len(r.drawers) {
		return nil
	}
	return r.drawers[r.drawerIndex]
}

// AdvanceDrawer moves the rotation forward and clears the active word.
// It reports whether another drawer is still waiting for a turn.
func (r *Room) AdvanceDrawer() bool {
	r.drawerIndex++
	r.currentWord = ""
	return r.drawerIndex < len(r.drawers)
}

// RecordCorrectGuess awards the fixed bonuses. Each bonus is applied only
// when its recipient resolves; a guesser who is also the current drawer
// collects both.
func (r *Room) RecordCorrectGuess(guesserID string) (guesser, drawer *Player) {
	guesser = r.playerByID(guesserID)
	drawer = r.CurrentDrawer()
	if guesser != nil {
		guesser.score += GUESSER_BONUS
	}
	if drawer != nil {
		drawer.score += DRAWER_BONUS
	}
	return guesser, drawer
}

// GuessMatches compares a guess to the active word: exact match under
// Unicode case folding, surrounding whitespace ignored. A room with no
// active word matches nothing.
func (r *Room) GuessMatches(guess string) bool {
	if r.currentWord == "" {
		return false
	}
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(guess)) == fold.String(strings.TrimSpace(r.currentWord))
}

// Rankings returns the non-admin roster sorted by score descending. The
// sort is explicitly stable so equal scores keep their join order.
func (r *Room) Rankings() []*Player {
	ranked := r.NonAdminPlayers()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// RemovePlayer drops the connection from the roster and the drawer
// rotation. When a drawer before the current one leaves, the index shifts
// down so the rotation still points at the same player; when the current
// drawer leaves, the index lands on the next drawer (or past the end) and
// the caller re-validates with CurrentDrawer. Reports whether the player
// was present.
func (r *Room) RemovePlayer(connID string) bool {
	removed := false
	for i, p := range r.players {
		if p.id == connID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			removed = true
			break
		}
	}
	for i, p := range r.drawers {
		if p.id == connID {
			if i < r.drawerIndex {
				r.drawerIndex--
			}
			r.drawers = append(r.drawers[:i], r.drawers[i+1:]...)
			break
		}
	}
	return removed
}
