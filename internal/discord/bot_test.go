package discord

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

// newOfflineBot builds a bot on a session that never dials the gateway.
// Reconnects are counted instead of opened.
func newOfflineBot(t *testing.T) (*Bot, *commandFixture, *atomic.Int32) {
	t.Helper()
	session, err := discordgo.New("Bot offline-token")
	require.NoError(t, err)

	f := newCommandFixture(t)
	b := NewBot(session, "", f.moderation, f.settings, f.events, zerolog.Nop())
	require.NotNil(t, b)

	var opens atomic.Int32
	b.reconnectDelay = 20 * time.Millisecond
	b.reopen = func() error {
		opens.Add(1)
		return nil
	}
	return b, f, &opens
}

func TestRestartReconnectsAfterDelay(t *testing.T) {
	b, f, opens := newOfflineBot(t)

	require.NoError(t, b.Restart(context.Background()))
	assert.ErrorContains(t, b.Restart(context.Background()), "already in progress")

	assert.Eventually(t, func() bool { return opens.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !b.restarting.Load() }, time.Second, 5*time.Millisecond)

	statuses := f.events.ofType(model.EventBotStatus)
	require.NotEmpty(t, statuses)
	assert.Equal(t, "restarting", statuses[0].Payload.(model.BotStatus).Status)
}

func TestStopCancelsPendingReconnect(t *testing.T) {
	b, _, opens := newOfflineBot(t)
	b.reconnectDelay = 50 * time.Millisecond

	require.NoError(t, b.Restart(context.Background()))
	b.Stop()

	b.mu.Lock()
	pending := b.reconnect
	b.mu.Unlock()
	assert.Nil(t, pending)
	assert.False(t, b.restarting.Load())

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, opens.Load())
	assert.False(t, b.ready.Load())

	assert.ErrorContains(t, b.Restart(context.Background()), "stopped")
}
