package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Inbound packet types.
const (
	PACKET_CREATE_ROOM  = "create_room"
	PACKET_JOIN_ROOM    = "join_room"
	PACKET_START_GAME   = "start_game"
	PACKET_SELECT_WORD  = "select_word"
	PACKET_DRAWING_DATA = "drawing_data"
	PACKET_MAKE_GUESS   = "make_guess"
	PACKET_END_ROUND    = "end_round"
)

// Outbound event types.
const (
	EVENT_ROOM_CREATED     = "room_created"
	EVENT_PLAYER_LIST      = "player_list"
	EVENT_SCORE_UPDATE     = "score_update"
	EVENT_DRAWERS_ASSIGNED = "drawers_assigned"
	EVENT_CHOOSE_WORD      = "choose_word"
	EVENT_WAITING_FOR_WORD = "waiting_for_word"
	EVENT_WORD_SELECTED    = "word_selected"
	EVENT_START_ROUND      = "start_round"
	EVENT_TIMER_START      = "timer_start"
	EVENT_RECEIVE_DRAWING  = "receive_drawing"
	EVENT_RECEIVE_GUESS    = "receive_guess"
	EVENT_CORRECT_GUESS    = "correct_guess"
	EVENT_ROUND_TIME_UP    = "round_time_up"
	EVENT_GAME_OVER        = "game_over"
	EVENT_ERROR            = "error"
)

// ClientPacket is the envelope for every inbound frame. The payload stays
// raw until the packet type picks a concrete struct for it.
type ClientPacket struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type CreateRoomData struct {
	RoomID     string `json:"roomId"`
	MaxDrawers int    `json:"maxDrawers"`
}

type JoinRoomData struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type StartGameData struct {
	RoomID string `json:"roomId"`
}

type SelectWordData struct {
	RoomID string `json:"roomId"`
	Word   string `json:"word"`
}

// DrawingData carries an opaque stroke payload. The coordinator relays it
// untouched and never inspects the contents.
type DrawingData struct {
	RoomID string          `json:"roomId"`
	Data   json.RawMessage `json:"data"`
}

type MakeGuessData struct {
	RoomID   string `json:"roomId"`
	Guess    string `json:"guess"`
	PlayerID string `json:"playerId"`
}

type EndRoundData struct {
	RoomID string `json:"roomId"`
}

// ServerPacket is the envelope for every outbound frame.
type ServerPacket struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// PlayerInfo is the roster/leaderboard view of a player.
type PlayerInfo struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

func infoOf(p *Player) PlayerInfo {
	return PlayerInfo{PlayerID: p.id, Name: p.name, Score: p.score}
}

func infosOf(players []*Player) []PlayerInfo {
	out := make([]PlayerInfo, 0, len(players))
	for _, p := range players {
		out = append(out, infoOf(p))
	}
	return out
}

type RoomCreatedData struct {
	RoomID string `json:"roomId"`
}

type PlayerListData struct {
	Players []PlayerInfo `json:"players"`
}

type ScoreUpdateData struct {
	Rankings []PlayerInfo `json:"rankings"`
}

type DrawersAssignedData struct {
	Drawers []PlayerInfo `json:"drawers"`
	Players []PlayerInfo `json:"players"`
}

type ChooseWordData struct {
	Options []string `json:"options"`
}

type WaitingForWordData struct {
	Drawer PlayerInfo `json:"drawer"`
}

type WordSelectedData struct {
	Word string `json:"word"`
}

type StartRoundData struct {
	Drawer PlayerInfo `json:"drawer"`
}

type TimerStartData struct {
	DurationMs int64 `json:"duration"`
}

type ReceiveGuessData struct {
	Guess    string `json:"guess"`
	PlayerID string `json:"playerId"`
}

type CorrectGuessData struct {
	PlayerID    string `json:"playerId"`
	Guess       string `json:"guess"`
	Word        string `json:"word"`
	GuesserName string `json:"guesserName,omitempty"`
	DrawerName  string `json:"drawerName,omitempty"`
	Points      int    `json:"points"`
}

type GameOverData struct {
	Message       string       `json:"message"`
	FinalRankings []PlayerInfo `json:"finalRankings,omitempty"`
}

type ErrorData struct {
	Msg string `json:"msg"`
}

func marshalPacket(packetType string, data any) []byte {
	bytes, err := json.Marshal(ServerPacket{Type: packetType, Data: data})
	if err != nil {
		log.Error().Err(err).Str("type", packetType).Msg("failed to marshal packet")
		return nil
	}
	return bytes
}
