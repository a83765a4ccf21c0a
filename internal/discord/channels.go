package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

// SessionAPI adapts a discordgo session to the moderation interfaces:
// message delete/send and guild channel lookup.
type SessionAPI struct {
	session *discordgo.Session
	log     zerolog.Logger
}

func NewSessionAPI(session *discordgo.Session, logger zerolog.Logger) *SessionAPI {
	return &SessionAPI{
		session: session,
		log:     logger.With().Str("component", "discord-api").Logger(),
	}
}

func (a *SessionAPI) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return a.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (a *SessionAPI) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	m, err := a.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// FindChannel returns the first guild channel whose name contains one of
// names. The state cache is tried before the REST API.
func (a *SessionAPI) FindChannel(ctx context.Context, guildID string, names []string) (model.ChannelRef, bool) {
	if guildID == "" || len(names) == 0 {
		return model.ChannelRef{}, false
	}

	var channels []*discordgo.Channel
	if a.session.State != nil {
		if g, err := a.session.State.Guild(guildID); err == nil {
			channels = g.Channels
		}
	}
	if len(channels) == 0 {
		fetched, err := a.session.GuildChannels(guildID, discordgo.WithContext(ctx))
		if err != nil {
			a.log.Warn().Err(err).Str("guild_id", guildID).Msg("guild channel lookup failed")
			return model.ChannelRef{}, false
		}
		channels = fetched
	}

	ch := matchChannel(channels, names)
	if ch == nil {
		return model.ChannelRef{}, false
	}
	return model.ChannelRef{ID: ch.ID, Name: ch.Name}, true
}

// matchChannel walks names in priority order so "ayuda" beats "help" when
// both exist.
func matchChannel(channels []*discordgo.Channel, names []string) *discordgo.Channel {
	for _, n := range names {
		want := sanitizeChannelName(n)
		if want == "" {
			continue
		}
		for _, ch := range channels {
			if ch == nil || ch.Type == discordgo.ChannelTypeGuildCategory || ch.Type == discordgo.ChannelTypeGuildVoice {
				continue
			}
			if strings.Contains(strings.ToLower(ch.Name), want) {
				return ch
			}
		}
	}
	return nil
}

// channelName resolves a channel's name from the state cache, falling
// back to the REST API.
func channelName(s *discordgo.Session, channelID string) string {
	if s.State != nil {
		if ch, err := s.State.Channel(channelID); err == nil {
			return ch.Name
		}
	}
	ch, err := s.Channel(channelID)
	if err != nil {
		return ""
	}
	return ch.Name
}

// sanitizeChannelName lowercases name the way Discord stores text channel
// names: letters, digits and dashes only.
func sanitizeChannelName(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "#"))
	result := make([]byte, 0, len(name))
	for _, c := range []byte(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else if c >= 'A' && c <= 'Z' {
			result = append(result, c+32) // toLower
		} else if c >= 0x80 {
			result = append(result, c)
		} else {
			result = append(result, '-')
		}
	}
	return string(result)
}
