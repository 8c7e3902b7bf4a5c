package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/HonungsGrabb/rpg-together/internal/game"
	"github.com/HonungsGrabb/rpg-together/pkg/api"
	"github.com/HonungsGrabb/rpg-together/pkg/logger"
	"github.com/HonungsGrabb/rpg-together/pkg/utils"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	tickPeriod     = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между вебсокетом и игровой сессией
type Client struct {
	srv     *Server
	Conn    *websocket.Conn
	Send    chan api.ServerResponse
	UserID  string
	session *game.Session
}

func NewClient(srv *Server, conn *websocket.Conn) *Client {
	return &Client{
		srv:  srv,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
	}
}

// push кладет ответ в очередь отправки. Полная очередь роняет
// сообщение: медленный клиент не должен останавливать игру.
func (c *Client) push(resp api.ServerResponse) {
	select {
	case c.Send <- resp:
	default:
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.srv.Hub.Unregister(c.UserID)
		if c.session != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			c.session.Close(ctx)
			cancel()
		}
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket connection failed")
		}
		logger.Log.WithField("user_id", c.UserID).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (LOGIN)
	var loginCmd api.ClientCommand
	if err := c.Conn.ReadJSON(&loginCmd); err != nil {
		logger.Log.Warn("Handshake failed")
		return
	}

	c.UserID = loginCmd.Token
	if c.UserID == "" {
		c.UserID = utils.GenerateID()
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": c.UserID,
	}).Info("Client logged in")

	// 2. СЕССИЯ И ПОДПИСКА НА КАНАЛ ЗОНЫ
	c.session = game.NewSession(
		c.UserID, c.srv.Store, c.srv.Presence,
		c.srv.Hub.PublisherFor(c.UserID), c.srv.Cfg.Game, c.push,
	)
	envelopes := c.srv.Hub.Register(c.UserID)

	// Чужие сообщения и периодическая уборка живут в одной горутине
	go func() {
		ticker := time.NewTicker(tickPeriod)
		defer ticker.Stop()
		for {
			select {
			case env, ok := <-envelopes:
				if !ok {
					close(c.Send)
					return
				}
				c.session.HandleEnvelope(env)
			case now := <-ticker.C:
				c.session.Tick(now)
			}
		}
	}()

	// Вход в игру: клиент сразу шлет load/create первым сообщением
	if loginCmd.Action != "" {
		c.session.ProcessCommand(loginCmd)
	}

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		c.session.ProcessCommand(cmd)
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket connection failed in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
