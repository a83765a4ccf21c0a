package handler

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/service"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsWriteWait  = 10 * time.Second
)

// Authenticator validates dashboard credentials.
type Authenticator interface {
	ValidateToken(token string) (*model.DashboardClaims, error)
	CheckAdminKey(key string) bool
}

type WSHandler struct {
	hub  *service.WSHub
	bot  BotController
	auth Authenticator
	log  zerolog.Logger
}

// NewWSHandler serves the dashboard socket. With a nil auth the socket is
// open to anyone.
func NewWSHandler(hub *service.WSHub, bot BotController, auth Authenticator, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:  hub,
		bot:  bot,
		auth: auth,
		log:  logger.With().Str("component", "ws").Logger(),
	}
}

func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if h.auth != nil && !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token required"})
	}
	return websocket.New(h.handleConnection)(c)
}

func (h *WSHandler) authorized(c *fiber.Ctx) bool {
	if h.auth.CheckAdminKey(c.Get("X-Admin-Key")) {
		return true
	}
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		return false
	}
	_, err := h.auth.ValidateToken(token)
	return err == nil
}

func (h *WSHandler) handleConnection(c *websocket.Conn) {
	client := service.NewWSClient(c)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	done := make(chan struct{})
	defer close(done)
	go h.writeLoop(client, done)

	h.hub.SendTo(client, model.EventBotStatus, h.bot.Status())

	_ = c.SetReadDeadline(time.Now().Add(wsPongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			// peer went away; normal churn
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("read ended")
			return
		}
		_ = c.SetReadDeadline(time.Now().Add(wsPongWait))
		h.handleControl(client, msg)
	}
}

// writeLoop owns all data writes to the connection.
func (h *WSHandler) writeLoop(client *service.WSClient, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	defer client.Conn.Close()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				_ = client.Conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteWait))
				return
			}
			_ = client.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *WSHandler) handleControl(client *service.WSClient, raw []byte) {
	var event model.WSEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return
	}

	switch event.Type {
	case model.ControlPing:
		h.hub.SendTo(client, model.ControlPong, nil)
	case model.ControlGetStatus:
		h.hub.SendTo(client, model.EventBotStatus, h.bot.Status())
	case model.ControlRestartBot:
		h.log.Info().Str("client_id", client.ID).Msg("restart requested from dashboard")
		if err := h.bot.Restart(context.Background()); err != nil {
			h.hub.SendTo(client, model.EventBotError, model.BotError{Error: err.Error(), Timestamp: time.Now().UnixMilli()})
		}
	default:
		h.log.Debug().Str("type", event.Type).Msg("ignoring unknown control message")
	}
}
