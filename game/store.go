package game

// Store holds every active room keyed by id. It is owned by a single
// coordinator and only ever touched from its actor goroutine, so it needs
// no locking of its own.
type Store struct {
	rooms map[string]*Room
}

func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room)}
}

// Create registers a new room. Re-using a live room id is rejected rather
// than overwriting, so a running game can never be clobbered.
func (s *Store) Create(id string, maxDrawers int) (*Room, error) {
	if _, ok := s.rooms[id]; ok {
		return nil, ErrRoomExists
	}
	room := NewRoom(id, maxDrawers)
	s.rooms[id] = room
	return room, nil
}

func (s *Store) Get(id string) (*Room, bool) {
	room, ok := s.rooms[id]
	return room, ok
}

func (s *Store) Delete(id string) {
	delete(s.rooms, id)
}

func (s *Store) Len() int {
	return len(s.rooms)
}

// Rooms returns a snapshot slice, safe to range over while rooms are
// deleted mid-iteration.
func (s *Store) Rooms() []*Room {
	out := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room)
	}
	return out
}
