package game

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// Settings are the fixed gameplay parameters, resolved once at startup.
type Settings struct {
	RoundDuration time.Duration
	RevealDelay   time.Duration
	FirstWords    []string
	NextWords     []string
}

type envelope struct {
	packet ClientPacket
	from   NetworkSession
}

type expiryKind int

const (
	expiryRoundTimeUp expiryKind = iota
	expiryRevealDelay
)

// timerExpiry is how a fired countdown reaches the actor goroutine: as a
// message on the same serialization point as client packets, never as a
// callback mutating room state from the timer goroutine.
type timerExpiry struct {
	roomID string
	kind   expiryKind
}

// Coordinator owns the room store and serializes every room mutation on a
// single actor goroutine. Read pumps and timers only enqueue messages.
type Coordinator struct {
	store    *Store
	timers   *RoundTimer
	settings Settings
	rng      *rand.Rand
	log      zerolog.Logger

	inbox       chan envelope
	disconnects chan NetworkSession
	timerFired  chan timerExpiry
}

func NewCoordinator(store *Store, timers *RoundTimer, settings Settings, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:       store,
		timers:      timers,
		settings:    settings,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:         logger.With().Str("component", "coordinator").Logger(),
		inbox:       make(chan envelope, 1024),
		disconnects: make(chan NetworkSession, 64),
		timerFired:  make(chan timerExpiry, 64),
	}
}

// Run is the actor loop. It closes started once it is receiving, and
// returns when ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context, started chan struct{}) {
	close(started)
	for {
		select {
		case env := <-c.inbox:
			c.handlePacket(env.from, env.packet)
		case sess := <-c.disconnects:
			c.handleDisconnect(sess)
		case exp := <-c.timerFired:
			c.handleTimerExpiry(exp)
		case <-ctx.Done():
			return
		}
	}
}

// Dispatch hands an inbound packet to the actor goroutine.
func (c *Coordinator) Dispatch(from NetworkSession, packet ClientPacket) {
	c.inbox <- envelope{from: from, packet: packet}
}

// Disconnect reports that a connection has gone away.
func (c *Coordinator) Disconnect(sess NetworkSession) {
	c.disconnects <- sess
}

func (c *Coordinator) handlePacket(from NetworkSession, packet ClientPacket) {
	switch packet.Type {
	case PACKET_CREATE_ROOM:
		var data CreateRoomData
		if c.decode(from, packet.Data, &data) {
			c.handleCreateRoom(from, data)
		}
	case PACKET_JOIN_ROOM:
		var data JoinRoomData
		if c.decode(from, packet.Data, &data) {
			c.handleJoinRoom(from, data)
		}
	case PACKET_START_GAME:
		var data StartGameData
		if c.decode(from, packet.Data, &data) {
			c.handleStartGame(from, data)
		}
	case PACKET_SELECT_WORD:
		var data SelectWordData
		if c.decode(from, packet.Data, &data) {
			c.handleSelectWord(from, data)
		}
	case PACKET_DRAWING_DATA:
		var data DrawingData
		if c.decode(from, packet.Data, &data) {
			c.handleDrawingData(from, data)
		}
	case PACKET_MAKE_GUESS:
		var data MakeGuessData
		if c.decode(from, packet.Data, &data) {
			c.handleMakeGuess(from, data)
		}
	case PACKET_END_ROUND:
		var data EndRoundData
		if c.decode(from, packet.Data, &data) {
			c.handleEndRound(from, data)
		}
	default:
		c.log.Warn().Str("type", packet.Type).Msg("unknown packet type")
		c.sendError(from, "unknown packet type")
	}
}

func (c *Coordinator) decode(from NetworkSession, raw json.RawMessage, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		c.log.Warn().Err(err).Msg("malformed packet payload")
		c.sendError(from, "malformed payload")
		return false
	}
	return true
}

func (c *Coordinator) handleCreateRoom(from NetworkSession, data CreateRoomData) {
	if data.RoomID == "" {
		c.sendError(from, "missing room id")
		return
	}
	room, err := c.store.Create(data.RoomID, data.MaxDrawers)
	if err != nil {
		c.sendError(from, err.Error())
		return
	}
	admin := room.AddPlayer(from.ID(), "Admin", true)
	admin.session = from

	c.log.Info().Str("room", room.id).Int("maxDrawers", room.maxDrawers).Msg("room created")
	c.sendTo(from, EVENT_ROOM_CREATED, RoomCreatedData{RoomID: room.id})
	c.broadcastRoster(room)
}

func (c *Coordinator) handleJoinRoom(from NetworkSession, data JoinRoomData) {
	room, ok := c.lookupRoom(from, data.RoomID)
	if !ok {
		return
	}
	player := room.AddPlayer(from.ID(), data.Name, false)
	player.session = from

	c.log.Info().Str("room", room.id).Str("player", data.Name).Msg("player joined")
	c.broadcastRoster(room)
}

func (c *Coordinator) handleStartGame(from NetworkSession, data StartGameData) {
	room, ok := c.lookupRoom(from, data.RoomID)
	if !ok {
		return
	}
	if room.phase != PHASE_WAITING {
		c.sendError(from, "game already started")
		return
	}

	room.AssignDrawers(c.rng)
	c.broadcast(room, EVENT_DRAWERS_ASSIGNED, DrawersAssignedData{
		Drawers: infosOf(room.drawers),
		Players: infosOf(room.NonAdminPlayers()),
	})

	drawer := room.CurrentDrawer()
	if drawer == nil {
		room.phase = PHASE_FINISHED
		c.log.Info().Str("room", room.id).Err(ErrNoEligibleDrawer).Msg("start requested with no eligible drawer")
		c.broadcast(room, EVENT_GAME_OVER, GameOverData{Message: "No available drawer to start the game."})
		return
	}
	c.log.Info().Str("room", room.id).Int("drawers", len(room.drawers)).Msg("game started")
	c.promptDrawer(room, drawer, c.settings.FirstWords)
}

func (c *Coordinator) handleSelectWord(from NetworkSession, data SelectWordData) {
	room, ok := c.lookupRoom(from, data.RoomID)
	if !ok {
		return
	}
	if room.phase != PHASE_CHOOSING_WORD {
		c.sendError(from, "no word selection in progress")
		return
	}
	drawer := room.CurrentDrawer()
	if drawer == nil || drawer.id != from.ID() {
		c.sendError(from, "only the current drawer may select the word")
		return
	}
	if data.Word == "" {
		c.sendError(from, "missing word")
		return
	}

	room.currentWord = data.Word
	room.phase = PHASE_DRAWING
	room.timerActive = true
	c.startRoundTimer(room)

	c.log.Info().Str("room", room.id).Str("drawer", drawer.name).Msg("word selected, round started")
	c.sendTo(drawer.session, EVENT_WORD_SELECTED, WordSelectedData{Word: data.Word})
	c.broadcast(room, EVENT_START_ROUND, StartRoundData{Drawer: infoOf(drawer)})
	c.broadcast(room, EVENT_TIMER_START, TimerStartData{DurationMs: c.settings.RoundDuration.Milliseconds()})
}

func (c *Coordinator) handleDrawingData(from NetworkSession, data DrawingData) {
	room, ok := c.lookupRoom(from, data.RoomID)
	if !ok {
		return
	}
	payload := marshalPacket(EVENT_RECEIVE_DRAWING, data.Data)
	if payload == nil {
		return
	}
	for _, p := range room.players {
		if p.session != nil && p.session.ID() != from.ID() {
			p.session.Send(payload)
		}
	}
	c.log.Debug().Str("room", room.id).Msg("stroke relayed")
}

func (c *Coordinator) handleMakeGuess(from NetworkSession, data MakeGuessData) {
	room, ok := c.lookupRoom(from, data.RoomID)
	if !ok {
		return
	}
	if room.phase != PHASE_DRAWING || !room.GuessMatches(data.Guess) {
		c.broadcast(room, EVENT_RECEIVE_GUESS, ReceiveGuessData{Guess: data.Guess, PlayerID: data.PlayerID})
		return
	}

	// Kill the round timer before anything else so its expiry can no
	// longer race this advance.
	c.timers.Cancel(room.id)
	room.timerActive = false

	guesser, drawer := room.RecordCorrectGuess(data.PlayerID)
	correct := CorrectGuessData{
		PlayerID: data.PlayerID,
		Guess:    data.Guess,
		Word:     room.currentWord,
		Points:   GUESSER_BONUS,
	}
	if guesser != nil {
		correct.GuesserName = guesser.name
	}
	if drawer != nil {
		correct.DrawerName = drawer.name
	}

	c.log.Info().Str("room", room.id).Str("guesser", correct.GuesserName).Str("word", room.currentWord).Msg("correct guess")
	c.broadcast(room, EVENT_CORRECT_GUESS, correct)
	c.broadcast(room, EVENT_SCORE_UPDATE, ScoreUpdateData{Rankings: infosOf(room.Rankings())})

	// Hold the reveal on screen briefly before rotating drawers.
	room.phase = PHASE_ROUND_ENDING
	roomID := room.id
	c.timers.Start(roomID, c.settings.RevealDelay, func() {
		c.timerFired <- timerExpiry{roomID: roomID, kind: expiryRevealDelay}
	})
}

func (c *Coordinator) handleEndRound(from NetworkSession, data EndRoundData) {
	room, ok := c.lookupRoom(from, data.RoomID)
	if !ok {
		return
	}
	if room.phase != PHASE_DRAWING && room.phase != PHASE_ROUND_ENDING {
		c.sendError(from, "no round in progress")
		return
	}
	c.log.Info().Str("room", room.id).Msg("round ended explicitly")
	c.advanceRound(room)
}

func (c *Coordinator) handleDisconnect(sess NetworkSession) {
	connID := sess.ID()
	c.log.Info().Str("conn", connID).Msg("disconnected")
	for _, room := range c.store.Rooms() {
		c.removeFromRoom(room, connID)
	}
}

func (c *Coordinator) handleTimerExpiry(exp timerExpiry) {
	room, ok := c.store.Get(exp.roomID)
	if !ok {
		return
	}
	switch exp.kind {
	case expiryRoundTimeUp:
		// A fire already queued behind a correct guess arrives after the
		// phase moved on; it is stale and must do nothing.
		if room.phase != PHASE_DRAWING {
			c.log.Debug().Str("room", room.id).Msg("stale round timer fire ignored")
			return
		}
		c.log.Info().Str("room", room.id).Msg("round time up")
		c.broadcast(room, EVENT_ROUND_TIME_UP, nil)
		c.advanceRound(room)
	case expiryRevealDelay:
		if room.phase != PHASE_ROUND_ENDING {
			return
		}
		c.advanceRound(room)
	}
}

// advanceRound is the only path out of the drawing phase, shared by timer
// expiry, correct guesses and explicit end_round requests.
func (c *Coordinator) advanceRound(room *Room) {
	c.timers.Cancel(room.id)
	room.timerActive = false

	if room.AdvanceDrawer() {
		if drawer := room.CurrentDrawer(); drawer != nil {
			c.promptDrawer(room, drawer, c.settings.NextWords)
			return
		}
	}
	c.finishGame(room)
}

// promptDrawer asks the given drawer for a word and tells the room who is
// up next.
func (c *Coordinator) promptDrawer(room *Room, drawer *Player, options []string) {
	room.phase = PHASE_CHOOSING_WORD
	c.sendTo(drawer.session, EVENT_CHOOSE_WORD, ChooseWordData{Options: options})
	c.broadcast(room, EVENT_WAITING_FOR_WORD, WaitingForWordData{Drawer: infoOf(drawer)})
}

func (c *Coordinator) finishGame(room *Room) {
	room.phase = PHASE_FINISHED
	c.log.Info().Str("room", room.id).Msg("game finished")
	c.broadcast(room, EVENT_GAME_OVER, GameOverData{
		Message:       "Game finished!",
		FinalRankings: infosOf(room.Rankings()),
	})
}

// removeFromRoom takes a departed connection out of one room and keeps the
// round from hanging: a round whose drawer left is resolved immediately,
// and an emptied room is deleted outright.
func (c *Coordinator) removeFromRoom(room *Room, connID string) {
	drawer := room.CurrentDrawer()
	wasActiveDrawer := drawer != nil && drawer.id == connID

	if !room.RemovePlayer(connID) {
		return
	}

	if room.Empty() {
		c.timers.Cancel(room.id)
		room.timerActive = false
		c.store.Delete(room.id)
		c.log.Info().Str("room", room.id).Msg("last player left, room deleted")
		return
	}

	inRound := room.phase == PHASE_CHOOSING_WORD || room.phase == PHASE_DRAWING || room.phase == PHASE_ROUND_ENDING
	if wasActiveDrawer && inRound {
		// RemovePlayer already slid the rotation onto the next drawer, so
		// advance must not skip another one.
		c.timers.Cancel(room.id)
		room.timerActive = false
		room.currentWord = ""
		if next := room.CurrentDrawer(); next != nil {
			c.promptDrawer(room, next, c.settings.NextWords)
		} else {
			c.finishGame(room)
		}
	}
	c.broadcastRoster(room)
}

func (c *Coordinator) startRoundTimer(room *Room) {
	roomID := room.id
	c.timers.Start(roomID, c.settings.RoundDuration, func() {
		c.timerFired <- timerExpiry{roomID: roomID, kind: expiryRoundTimeUp}
	})
}

func (c *Coordinator) lookupRoom(from NetworkSession, roomID string) (*Room, bool) {
	if roomID == "" {
		c.sendError(from, "missing room id")
		return nil, false
	}
	room, ok := c.store.Get(roomID)
	if !ok {
		c.sendError(from, ErrRoomNotFound.Error())
		return nil, false
	}
	return room, true
}

func (c *Coordinator) broadcastRoster(room *Room) {
	c.broadcast(room, EVENT_PLAYER_LIST, PlayerListData{Players: infosOf(room.NonAdminPlayers())})
	c.broadcast(room, EVENT_SCORE_UPDATE, ScoreUpdateData{Rankings: infosOf(room.Rankings())})
}

func (c *Coordinator) broadcast(room *Room, eventType string, data any) {
	payload := marshalPacket(eventType, data)
	if payload == nil {
		return
	}
	for _, p := range room.players {
		if p.session != nil {
			p.session.Send(payload)
		}
	}
}

func (c *Coordinator) sendTo(sess NetworkSession, eventType string, data any) {
	if sess == nil {
		return
	}
	if payload := marshalPacket(eventType, data); payload != nil {
		sess.Send(payload)
	}
}

func (c *Coordinator) sendError(sess NetworkSession, msg string) {
	c.sendTo(sess, EVENT_ERROR, ErrorData{Msg: msg})
}
