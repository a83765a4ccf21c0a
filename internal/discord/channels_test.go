package discord

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchChannelPriority(t *testing.T) {
	channels := []*discordgo.Channel{
		{ID: "cat", Name: "ayuda", Type: discordgo.ChannelTypeGuildCategory},
		{ID: "voice", Name: "ayuda-voz", Type: discordgo.ChannelTypeGuildVoice},
		{ID: "c1", Name: "tech-help", Type: discordgo.ChannelTypeGuildText},
		{ID: "c2", Name: "🆘・ayuda-hardware", Type: discordgo.ChannelTypeGuildText},
	}

	ch := matchChannel(channels, []string{"ayuda", "help"})
	require.NotNil(t, ch)
	assert.Equal(t, "c2", ch.ID)

	ch = matchChannel(channels, []string{"soporte", "help"})
	require.NotNil(t, ch)
	assert.Equal(t, "c1", ch.ID)

	assert.Nil(t, matchChannel(channels, []string{"soporte"}))
	assert.Nil(t, matchChannel(nil, []string{"ayuda"}))
}

func TestSanitizeChannelName(t *testing.T) {
	assert.Equal(t, "chat-general", sanitizeChannelName("#Chat General"))
	assert.Equal(t, "ayuda", sanitizeChannelName("  AYUDA "))
	assert.Equal(t, "", sanitizeChannelName("#"))
}

func TestToChatMessage(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m := &discordgo.Message{
		ID:        "m1",
		GuildID:   "g1",
		ChannelID: "c1",
		Content:   "hola",
		Timestamp: ts,
		Author:    &discordgo.User{ID: "u1", Username: "tom", Bot: true},
	}

	msg := toChatMessage(m, "general")
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "general", msg.ChannelName)
	assert.Equal(t, "u1", msg.AuthorID)
	assert.Equal(t, "tom", msg.AuthorName)
	assert.True(t, msg.AuthorIsBot)
	assert.Equal(t, ts, msg.Timestamp)

	m.Timestamp = time.Time{}
	assert.False(t, toChatMessage(m, "").Timestamp.IsZero())
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "0h 0m", formatUptime(30*time.Second))
	assert.Equal(t, "2h 5m", formatUptime(2*time.Hour+5*time.Minute+10*time.Second))
	assert.Equal(t, "26h 0m", formatUptime(26*time.Hour))
}

func TestNilBotIsSafe(t *testing.T) {
	var b *Bot
	assert.NoError(t, b.Start())
	assert.NotPanics(t, b.Stop)
	assert.Equal(t, "offline", b.Status().Status)
	assert.Error(t, b.Restart(context.Background()))
}

func TestCommandDefinitionsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range commandDefinitions() {
		assert.False(t, seen[c.Name], c.Name)
		seen[c.Name] = true
	}
	assert.Len(t, seen, 8)
}
