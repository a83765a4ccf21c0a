package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/service"
)

const (
	restartDelay   = 2 * time.Second
	messageTimeout = 15 * time.Second
	activityName   = "La Mafia del Hardware"
)

// NewSession builds a gateway session with the intents the bot needs.
// It does not connect.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent
	return s, nil
}

// Bot manages the Discord session lifecycle and routes gateway events to
// the moderation pipeline and the command handler.
type Bot struct {
	session    *discordgo.Session
	clientID   string
	moderation *service.ModerationService
	commands   *CommandHandler
	events     service.Broadcaster
	log        zerolog.Logger

	ready      atomic.Bool
	restarting atomic.Bool

	reconnectDelay time.Duration
	reopen         func() error

	// lifecycle serialises Stop with a firing reconnect.
	lifecycle sync.Mutex

	mu        sync.Mutex
	startedAt time.Time
	tag       string
	known     map[string]bool
	reconnect *time.Timer
	stopped   bool
}

// NewBot wires handlers onto session. A nil session yields a nil bot; all
// methods are safe on a nil receiver.
func NewBot(
	session *discordgo.Session,
	clientID string,
	moderation *service.ModerationService,
	settings *service.ChannelSettings,
	events service.Broadcaster,
	logger zerolog.Logger,
) *Bot {
	if session == nil {
		logger.Warn().Msg("no bot token configured, discord bot disabled")
		return nil
	}

	b := &Bot{
		session:    session,
		clientID:   clientID,
		moderation: moderation,
		events:     events,
		log:        logger.With().Str("component", "discord-bot").Logger(),
		startedAt:  time.Now(),
		known:      make(map[string]bool),

		reconnectDelay: restartDelay,
	}
	b.reopen = b.Start
	b.commands = NewCommandHandler(moderation, settings, events, b.Status, logger)

	session.AddHandler(guard(b, "ready", b.onReady))
	session.AddHandler(guard(b, "guild_create", b.onGuildCreate))
	session.AddHandler(guard(b, "guild_delete", b.onGuildDelete))
	session.AddHandler(guard(b, "message_create", b.onMessageCreate))
	session.AddHandler(guard(b, "interaction_create", b.onInteractionCreate))
	session.AddHandler(guard(b, "disconnect", b.onDisconnect))

	return b
}

// Start opens the Discord gateway connection and registers slash commands.
func (b *Bot) Start() error {
	if b == nil || b.session == nil {
		return nil
	}
	b.mu.Lock()
	b.stopped = false
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		b.events.Publish(model.EventBotError, model.BotError{Error: err.Error(), Timestamp: time.Now().UnixMilli()})
		return fmt.Errorf("open gateway: %w", err)
	}
	b.log.Info().Msg("bot connected to discord")

	if err := b.registerCommands(); err != nil {
		b.log.Error().Err(err).Msg("slash command registration failed")
	}
	return nil
}

// Stop closes the Discord gateway connection and cancels a reconnect
// scheduled by Restart.
func (b *Bot) Stop() {
	if b == nil || b.session == nil {
		return
	}
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()

	b.mu.Lock()
	b.stopped = true
	if b.reconnect != nil {
		b.reconnect.Stop()
		b.reconnect = nil
		b.restarting.Store(false)
	}
	b.mu.Unlock()

	b.ready.Store(false)
	_ = b.session.Close()
	b.log.Info().Msg("bot disconnected")
}

// Restart drops the gateway connection, forgets per-author history and
// reconnects after a short delay. It returns before the reconnect.
func (b *Bot) Restart(ctx context.Context) error {
	if b == nil || b.session == nil {
		return errors.New("discord bot is not configured")
	}
	b.mu.Lock()
	stopped := b.stopped
	b.mu.Unlock()
	if stopped {
		return errors.New("discord bot is stopped")
	}
	if !b.restarting.CompareAndSwap(false, true) {
		return errors.New("restart already in progress")
	}

	b.log.Info().Msg("restarting discord bot")
	b.events.Publish(model.EventBotStatus, model.BotStatus{Status: "restarting"})

	b.ready.Store(false)
	_ = b.session.Close()
	b.moderation.ResetState()

	b.mu.Lock()
	b.startedAt = time.Now()
	b.reconnect = time.AfterFunc(b.reconnectDelay, b.reconnectNow)
	b.mu.Unlock()
	return nil
}

func (b *Bot) reconnectNow() {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()
	defer b.restarting.Store(false)

	b.mu.Lock()
	stopped := b.stopped
	b.reconnect = nil
	b.mu.Unlock()
	if stopped {
		return
	}
	if err := b.reopen(); err != nil {
		b.log.Error().Err(err).Msg("restart failed")
	}
}

// Status reports readiness, uptime and guild totals.
func (b *Bot) Status() model.BotStatus {
	if b == nil || b.session == nil {
		return model.BotStatus{Status: "offline"}
	}

	b.mu.Lock()
	started, tag := b.startedAt, b.tag
	b.mu.Unlock()

	ready := b.ready.Load()
	status := model.BotStatus{
		Status: "offline",
		Ready:  ready,
		Tag:    tag,
		Uptime: formatUptime(time.Since(started)),
	}
	if ready {
		status.Status = "online"
	}

	if st := b.session.State; st != nil {
		st.RLock()
		status.Guilds = len(st.Guilds)
		for _, g := range st.Guilds {
			status.Users += g.MemberCount
		}
		st.RUnlock()
	}
	return status
}

func (b *Bot) registerCommands() error {
	if b.clientID == "" {
		b.log.Warn().Msg("DISCORD_CLIENT_ID not set, skipping slash command registration")
		return nil
	}
	_, err := b.session.ApplicationCommandBulkOverwrite(b.clientID, "", commandDefinitions())
	if err != nil {
		return err
	}
	b.log.Info().Int("count", len(commandDefinitions())).Msg("slash commands registered")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.mu.Lock()
	b.tag = r.User.String()
	for _, g := range r.Guilds {
		b.known[g.ID] = true
	}
	b.mu.Unlock()
	b.ready.Store(true)

	if err := s.UpdateWatchStatus(0, activityName); err != nil {
		b.log.Warn().Err(err).Msg("set activity failed")
	}

	b.log.Info().Str("tag", r.User.String()).Int("guilds", len(r.Guilds)).Msg("bot ready")
	b.events.Publish(model.EventBotStatus, model.BotStatus{Status: "online", Ready: true, Tag: r.User.String()})
}

// onGuildCreate fires for every guild after connecting; only guilds not
// listed in Ready are real joins.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	b.mu.Lock()
	seen := b.known[g.ID]
	b.known[g.ID] = true
	b.mu.Unlock()
	if seen {
		return
	}

	b.log.Info().Str("guild", g.Name).Int("members", g.MemberCount).Msg("joined guild")
	b.events.Publish(model.EventServerJoined, model.ServerEvent{
		ServerID:    g.ID,
		ServerName:  g.Name,
		MemberCount: g.MemberCount,
	})
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return
	}
	b.mu.Lock()
	delete(b.known, g.ID)
	b.mu.Unlock()

	name := g.Name
	if g.BeforeDelete != nil {
		name = g.BeforeDelete.Name
	}
	b.log.Info().Str("guild", name).Msg("left guild")
	b.events.Publish(model.EventServerLeft, model.ServerEvent{ServerID: g.ID, ServerName: name})
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.GuildID == "" {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	msg := toChatMessage(m.Message, channelName(s, m.ChannelID))
	b.moderation.HandleMessage(ctx, msg)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.commands.Handle(s, i)
}

func (b *Bot) onDisconnect(s *discordgo.Session, d *discordgo.Disconnect) {
	b.ready.Store(false)
	if b.restarting.Load() {
		return
	}
	b.log.Warn().Msg("gateway disconnected")
	b.events.Publish(model.EventBotError, model.BotError{Error: "gateway disconnected", Timestamp: time.Now().UnixMilli()})
}

// guard recovers panics in a gateway handler so one bad event cannot take
// the process down.
func guard[T any](b *Bot, name string, fn func(*discordgo.Session, T)) func(*discordgo.Session, T) {
	return func(s *discordgo.Session, ev T) {
		defer func() {
			if r := recover(); r != nil {
				b.log.Error().Interface("panic", r).Str("handler", name).Msg("handler panicked")
			}
		}()
		fn(s, ev)
	}
}

func toChatMessage(m *discordgo.Message, channelName string) *model.ChatMessage {
	msg := &model.ChatMessage{
		ID:          m.ID,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		ChannelName: channelName,
		Content:     m.Content,
		Timestamp:   m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
		msg.AuthorIsBot = m.Author.Bot
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return msg
}

func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
