package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // 必须小于pongWait
	maxMessageSize = 512
	sendBufferSize = 32
)

// Client 单个websocket订阅者，Send由hub在注销时关闭
type Client struct {
	ID     string
	conn   *websocket.Conn
	Send   chan Message
	hub    *Hub
	logger *logrus.Logger
}

func NewClient(id string, conn *websocket.Conn, hub *Hub, logger *logrus.Logger) *Client {
	return &Client{
		ID:     id,
		conn:   conn,
		Send:   make(chan Message, sendBufferSize),
		hub:    hub,
		logger: logger,
	}
}

// TrySend 非阻塞投递，返回false表示客户端消费太慢
func (c *Client) TrySend(msg Message) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// ReadPump 读取入站帧以处理pong和close帧
// 客户端只接收推送，发来的内容全部忽略
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithError(err).WithField("client_id", c.ID).Warn("websocket closed unexpectedly")
			}
			return
		}
	}
}

// WritePump 写出队列消息，并定时ping保活
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.WithError(err).WithField("client_id", c.ID).Debug("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
