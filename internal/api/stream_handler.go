package api

import (
	"net/http"
	"time"

	"GameSquares/internal/hub"
	"GameSquares/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// StreamHandler 升级为websocket并推送看板更新
type StreamHandler struct {
	hub      *hub.Hub
	board    *service.BoardService
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

func NewStreamHandler(h *hub.Hub, board *service.BoardService, logger *logrus.Logger) *StreamHandler {
	return &StreamHandler{
		hub:   h,
		board: board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Stream GET /ws/squares，先推当前看板，之后推送每次更新
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.NewString(), conn, h.hub, h.logger)
	client.TrySend(hub.Message{
		Type:      service.EventBoard,
		Payload:   buildBoardResponse(h.board.Snapshot()),
		Timestamp: time.Now().UTC(),
	})
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump()
}

// BoardPublisher 按GET /api/squares的格式包装看板快照后交给hub
type BoardPublisher struct {
	Hub *hub.Hub
}

func (p BoardPublisher) Publish(msgType string, payload interface{}) {
	if snap, ok := payload.(service.BoardSnapshot); ok {
		payload = buildBoardResponse(snap)
	}
	p.Hub.Publish(msgType, payload)
}
