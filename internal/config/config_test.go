package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("CHANNEL_IDS", "")
	t.Setenv("GENERAL_CHANNEL_NAMES", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5000", cfg.Port)
	assert.Empty(t, cfg.ChannelIDs)
	assert.Equal(t, []string{"general", "chat-general", "principal"}, cfg.GeneralChannels)
	assert.Equal(t, 10000, cfg.TrackerCapacity)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadChannelList(t *testing.T) {
	t.Setenv("CHANNEL_IDS", " 111, 222 ,,333 ")
	t.Setenv("TRACKER_CAPACITY", "42")

	cfg := Load()
	assert.Equal(t, []string{"111", "222", "333"}, cfg.ChannelIDs)
	assert.Equal(t, 42, cfg.TrackerCapacity)
}

func TestLoadTokenFallback(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("TOKEN", "legacy-token")

	cfg := Load()
	assert.Equal(t, "legacy-token", cfg.BotToken)
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DISCORD_BOT_TOKEN", "abc")
	t.Setenv("TOKEN", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_KEY", "a-real-admin-key")

	require.PanicsWithValue(t, "JWT_SECRET must be set in production", func() { Load() })

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "a-real-admin-key", cfg.AdminKey)
}

func TestLoadProductionRejectsDefaultAdminKey(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DISCORD_BOT_TOKEN", "abc")
	t.Setenv("JWT_SECRET", "a-real-secret")

	t.Setenv("ADMIN_KEY", "")
	require.PanicsWithValue(t, "ADMIN_KEY must be set in production", func() { Load() })

	t.Setenv("ADMIN_KEY", defaultAdminKey)
	require.PanicsWithValue(t, "ADMIN_KEY must be set in production", func() { Load() })
}

func TestLoadDevelopmentKeepsDefaultAdminKey(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("ADMIN_KEY", "")

	cfg := Load()
	assert.Equal(t, defaultAdminKey, cfg.AdminKey)
}
