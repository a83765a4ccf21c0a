package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

func sampleAction() model.ModerationAction {
	return model.ModerationAction{
		Action:        "delete",
		UserID:        "user-1",
		Username:      "sonny",
		ViolationType: model.ViolationScam,
		Trigger:       "pattern",
		ChannelName:   "hardware",
		Content:       "free steam gift http://steamcommunity.ru",
		Applied:       false,
		FailureReason: "delete message: HTTP 403 Forbidden",
		Timestamp:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
	}
}

func TestBuildModLogPayload(t *testing.T) {
	p := buildModLogPayload(sampleAction())

	require.Len(t, p.Embeds, 1)
	embed := p.Embeds[0]
	assert.Contains(t, embed.Title, "scam")
	assert.Equal(t, categoryColors[model.ViolationScam], embed.Color)
	assert.Equal(t, "2025-06-01T12:00:00Z", embed.Timestamp)

	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "fallida", values["Estado"])
	assert.Equal(t, "#hardware", values["Canal"])
	assert.Contains(t, values["Error"], "403")
}

func TestModLogPost(t *testing.T) {
	var got discordgo.WebhookParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewModLogWebhook(srv.URL, zerolog.Nop())
	require.NoError(t, w.post(context.Background(), buildModLogPayload(sampleAction())))
	assert.Equal(t, "La Mafia del Hardware • Mod Log", got.Username)
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, categoryColors[model.ViolationScam], got.Embeds[0].Color)
	assert.Equal(t, "2025-06-01T12:00:00Z", got.Embeds[0].Timestamp)
	require.NotNil(t, got.Embeds[0].Footer)
	assert.Equal(t, "La Mafia del Hardware", got.Embeds[0].Footer.Text)
	assert.NotEmpty(t, got.Embeds[0].Fields)
}

func TestModLogPayloadWireFormat(t *testing.T) {
	body, err := json.Marshal(buildModLogPayload(sampleAction()))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	embeds, ok := raw["embeds"].([]any)
	require.True(t, ok)
	require.Len(t, embeds, 1)
	embed := embeds[0].(map[string]any)
	assert.Contains(t, embed, "title")
	assert.Contains(t, embed, "fields")
	assert.Equal(t, "La Mafia del Hardware", embed["footer"].(map[string]any)["text"])
}

func TestModLogPostReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	w := NewModLogWebhook(srv.URL, zerolog.Nop())
	err := w.post(context.Background(), buildModLogPayload(sampleAction()))
	assert.ErrorContains(t, err, "429")
}

func TestModLogNilIsNoop(t *testing.T) {
	var w *ModLogWebhook
	assert.NotPanics(t, func() { w.NotifyModeration(sampleAction()) })
}
