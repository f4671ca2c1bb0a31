package game

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// NetworkSession is the coordinator's view of one connected client. The
// coordinator only ever identifies a session and enqueues frames to it.
type NetworkSession interface {
	ID() string
	Send(data []byte)
	Close()
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 45 * time.Second
	maxPacketSize  = 64 * 1024
	sessionOutboxN = 256
)

type wsSession struct {
	id          string
	conn        *websocket.Conn
	coordinator *Coordinator
	outbox      chan []byte
	closing     chan struct{}
	closeOnce   sync.Once

	// Guess/chat traffic and stroke traffic flood at very different
	// rates, so each gets its own limiter.
	guessLimiter *rate.Limiter
	drawLimiter  *rate.Limiter

	log zerolog.Logger
}

func newWSSession(id string, conn *websocket.Conn, coordinator *Coordinator, logger zerolog.Logger) *wsSession {
	return &wsSession{
		id:           id,
		conn:         conn,
		coordinator:  coordinator,
		outbox:       make(chan []byte, sessionOutboxN),
		closing:      make(chan struct{}),
		guessLimiter: rate.NewLimiter(5, 10),
		drawLimiter:  rate.NewLimiter(60, 120),
		log:          logger.With().Str("conn", id).Logger(),
	}
}

func (s *wsSession) ID() string { return s.id }

// Send enqueues without blocking. A full outbox drops the frame so a slow
// reader cannot stall the coordinator goroutine.
func (s *wsSession) Send(data []byte) {
	select {
	case s.outbox <- data:
	default:
		s.log.Warn().Msg("outbox full, dropping frame")
	}
}

func (s *wsSession) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// ReadPump decodes inbound frames and forwards them to the coordinator.
// It owns the disconnect notification: whatever kills the read loop, the
// coordinator hears about it exactly once.
func (s *wsSession) ReadPump() {
	defer func() {
		s.coordinator.Disconnect(s)
		s.Close()
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxPacketSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("read failed")
			}
			return
		}

		var packet ClientPacket
		if err := json.Unmarshal(raw, &packet); err != nil {
			s.log.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}
		if !s.allow(packet.Type) {
			s.log.Debug().Str("type", packet.Type).Msg("rate limited, dropping packet")
			continue
		}
		s.coordinator.Dispatch(s, packet)
	}
}

func (s *wsSession) allow(packetType string) bool {
	switch packetType {
	case PACKET_DRAWING_DATA:
		return s.drawLimiter.Allow()
	case PACKET_MAKE_GUESS:
		return s.guessLimiter.Allow()
	}
	return true
}

// WritePump drains the outbox and keeps the connection alive with pings.
func (s *wsSession) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data := <-s.outbox:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.closing:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
