package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	coordinator *Coordinator
	log         zerolog.Logger
}

func NewHandler(coordinator *Coordinator, logger zerolog.Logger) *Handler {
	return &Handler{coordinator: coordinator, log: logger}
}

func (h *Handler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/ws", h.connectHandler)
}

func (h *Handler) connectHandler(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "websocket-upgrade-failed"})
		return
	}

	sess := newWSSession(uuid.NewString(), conn, h.coordinator, h.log)
	h.log.Info().Str("conn", sess.id).Str("remote", ctx.Request.RemoteAddr).Msg("client connected")

	go sess.ReadPump()
	go sess.WritePump()
}
