package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

// BotController is the slice of the Discord bot the HTTP layer drives.
type BotController interface {
	Status() model.BotStatus
	Restart(ctx context.Context) error
}

// ModerationState reports whether automatic moderation is running.
type ModerationState interface {
	Enabled() bool
	MonitoredCount() int
}

// ObserverCounter reports connected dashboard clients.
type ObserverCounter interface {
	OnlineCount() int
}

type StatusHandler struct {
	bot        BotController
	moderation ModerationState
	observers  ObserverCounter
}

func NewStatusHandler(bot BotController, moderation ModerationState, observers ObserverCounter) *StatusHandler {
	return &StatusHandler{bot: bot, moderation: moderation, observers: observers}
}

func (h *StatusHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"bot":               h.bot.Status(),
		"moderationEnabled": h.moderation.Enabled(),
		"monitoredChannels": h.moderation.MonitoredCount(),
		"observers":         h.observers.OnlineCount(),
		"timestamp":         time.Now().UnixMilli(),
	})
}

func (h *StatusHandler) Restart(c *fiber.Ctx) error {
	if err := h.bot.Restart(c.UserContext()); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "restarting"})
}
