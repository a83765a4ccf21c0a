package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

// ModLogNotifier receives a copy of every automatic moderation action.
type ModLogNotifier interface {
	NotifyModeration(action model.ModerationAction)
}

// ModLogWebhook posts moderation actions as embeds to a Discord webhook.
type ModLogWebhook struct {
	webhookURL string
	client     *http.Client
	log        zerolog.Logger
}

func NewModLogWebhook(webhookURL string, logger zerolog.Logger) *ModLogWebhook {
	return &ModLogWebhook{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        logger.With().Str("component", "modlog-webhook").Logger(),
	}
}

var categoryColors = map[model.ViolationCategory]int{
	model.ViolationSpam:          0xE67E22, // Orange
	model.ViolationScam:          0xE74C3C, // Red
	model.ViolationAdvertisement: 0xF1C40F, // Gold
}

// NotifyModeration posts asynchronously; delivery errors are only logged.
func (w *ModLogWebhook) NotifyModeration(action model.ModerationAction) {
	if w == nil || w.webhookURL == "" {
		return
	}
	payload := buildModLogPayload(action)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.post(ctx, payload); err != nil {
			w.log.Warn().Err(err).Msg("modlog delivery failed")
		}
	}()
}

func (w *ModLogWebhook) post(ctx context.Context, payload *discordgo.WebhookParams) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func buildModLogPayload(action model.ModerationAction) *discordgo.WebhookParams {
	status := "aplicada"
	if !action.Applied {
		status = "fallida"
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: "Usuario", Value: fmt.Sprintf("%s (<@%s>)", action.Username, action.UserID), Inline: true},
		{Name: "Canal", Value: "#" + action.ChannelName, Inline: true},
		{Name: "Estado", Value: status, Inline: true},
	}
	if action.Trigger != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Motivo", Value: action.Trigger, Inline: true})
	}
	if action.FailureReason != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Error", Value: action.FailureReason})
	}
	content := action.Content
	if content == "" {
		content = "*(vacío)*"
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "Contenido", Value: content})

	return &discordgo.WebhookParams{
		Username: "La Mafia del Hardware • Mod Log",
		Embeds: []*discordgo.MessageEmbed{{
			Title:     fmt.Sprintf("🛡️ Moderación automática: %s", action.ViolationType),
			Color:     categoryColors[action.ViolationType],
			Fields:    fields,
			Timestamp: time.UnixMilli(action.Timestamp).UTC().Format(time.RFC3339),
			Footer:    &discordgo.MessageEmbedFooter{Text: "La Mafia del Hardware"},
		}},
	}
}
