package game

// Player is one roster entry inside a room. Identity is the connection id,
// stable for the life of a single connection. The admin flag is set once by
// the room creator and never changes.
type Player struct {
	id      string
	name    string
	score   int
	isAdmin bool
	session NetworkSession
}

func (p *Player) ID() string   { return p.id }
func (p *Player) Name() string { return p.name }
func (p *Player) Score() int   { return p.score }
