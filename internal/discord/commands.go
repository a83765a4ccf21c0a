package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/metrics"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/service"
)

const (
	commandTimeout = 10 * time.Second

	replyGenericFailure = "❌ Hubo un error al ejecutar este comando"
	replyUnknown        = "❌ Comando no reconocido"
	replyNoPermission   = "❌ No tienes permisos para usar este comando"
	replyKickFailed     = "❌ No pude expulsar a este usuario. Verifica que tengo los permisos necesarios."
)

var errMissingOption = errors.New("missing required option")

// interactionAPI is the slice of *discordgo.Session the command handler uses.
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error
}

// CommandHandler answers slash command interactions.
type CommandHandler struct {
	moderation *service.ModerationService
	settings   *service.ChannelSettings
	events     service.Broadcaster
	stats      func() model.BotStatus
	log        zerolog.Logger
}

func NewCommandHandler(
	moderation *service.ModerationService,
	settings *service.ChannelSettings,
	events service.Broadcaster,
	stats func() model.BotStatus,
	logger zerolog.Logger,
) *CommandHandler {
	return &CommandHandler{
		moderation: moderation,
		settings:   settings,
		events:     events,
		stats:      stats,
		log:        logger.With().Str("component", "commands").Logger(),
	}
}

// invocation is a single command call. replied tracks whether the
// interaction already got its one response.
type invocation struct {
	api     interactionAPI
	i       *discordgo.InteractionCreate
	data    discordgo.ApplicationCommandInteractionData
	user    *discordgo.User
	replied bool
}

func (c *invocation) respond(resp *discordgo.InteractionResponseData) error {
	err := c.api.InteractionRespond(c.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: resp,
	})
	if err == nil {
		c.replied = true
	}
	return err
}

func (c *invocation) embed(e *discordgo.MessageEmbed) error {
	return c.respond(&discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{e}})
}

func (c *invocation) ephemeral(content string) error {
	return c.respond(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func (c *invocation) option(name string) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	return findOption(c.data.Options, name)
}

func (c *invocation) stringOption(name string) string {
	if opt, ok := c.option(name); ok && opt.Type == discordgo.ApplicationCommandOptionString {
		return opt.StringValue()
	}
	return ""
}

func (c *invocation) hasPermission(perms ...int64) bool {
	if c.i.Member == nil {
		return false
	}
	for _, p := range perms {
		if c.i.Member.Permissions&p != 0 {
			return true
		}
	}
	return false
}

// Handle dispatches one interaction. Errors and panics are logged and
// turned into a single generic reply when nothing was sent yet.
func (h *CommandHandler) Handle(api interactionAPI, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	call := &invocation{api: api, i: i, data: i.ApplicationCommandData(), user: interactionUser(i)}
	name := call.data.Name

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	err := h.dispatch(ctx, call)
	if err == nil {
		metrics.CommandsExecuted.WithLabelValues(name, "ok").Inc()
		h.publishExecuted(call)
		return
	}

	metrics.CommandsExecuted.WithLabelValues(name, "error").Inc()
	h.log.Error().Err(err).Str("command", name).Msg("command failed")
	if !call.replied {
		if rerr := call.ephemeral(replyGenericFailure); rerr != nil {
			h.log.Warn().Err(rerr).Str("command", name).Msg("failure reply not delivered")
		}
	}
}

func (h *CommandHandler) dispatch(ctx context.Context, call *invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()

	switch call.data.Name {
	case cmdInfo:
		return call.embed(infoEmbed(h.stats()))
	case cmdHardware:
		return h.hardware(call)
	case cmdSpecs:
		return call.embed(specsEmbed())
	case cmdPrecios:
		product := call.stringOption("producto")
		if product == "" {
			return fmt.Errorf("producto: %w", errMissingOption)
		}
		return call.embed(preciosEmbed(product))
	case cmdAyuda:
		return call.embed(ayudaEmbed())
	case cmdFamilia:
		return call.embed(familiaEmbed())
	case cmdConfig:
		return h.config(ctx, call)
	case cmdModeracion:
		return h.moderacion(ctx, call)
	default:
		return call.ephemeral(replyUnknown)
	}
}

func (h *CommandHandler) hardware(call *invocation) error {
	component := call.stringOption("componente")
	embed, ok := hardwareEmbed(component)
	if !ok {
		return call.ephemeral("❌ Componente no reconocido")
	}
	return call.embed(embed)
}

func (h *CommandHandler) config(ctx context.Context, call *invocation) error {
	if !call.hasPermission(discordgo.PermissionAdministrator) {
		return call.ephemeral(replyNoPermission)
	}

	guildID := call.i.GuildID
	switch call.stringOption("accion") {
	case "view":
		cfg := h.settings.ForGuild(ctx, guildID)
		return call.embed(configViewEmbed(cfg, h.moderation.Enabled(), h.moderation.MonitoredCount()))
	case "enable":
		h.moderation.SetEnabled(true)
		return call.ephemeral("✅ Sistema de moderación activado")
	case "disable":
		h.moderation.SetEnabled(false)
		return call.ephemeral("⏸️ Sistema de moderación desactivado")
	case "channels":
		general := service.SplitNames(call.stringOption("generales"))
		help := service.SplitNames(call.stringOption("ayuda"))
		if len(general) == 0 && len(help) == 0 {
			return call.embed(channelsEmbed(h.settings.ForGuild(ctx, guildID), false))
		}
		cfg, err := h.settings.Update(ctx, guildID, general, help)
		if err != nil {
			return fmt.Errorf("update channel config: %w", err)
		}
		h.log.Info().Str("guild_id", guildID).Strs("general", cfg.GeneralChannels).Strs("help", cfg.HelpChannels).Msg("channel config updated")
		return call.embed(channelsEmbed(*cfg, true))
	default:
		return fmt.Errorf("accion: %w", errMissingOption)
	}
}

func (h *CommandHandler) moderacion(ctx context.Context, call *invocation) error {
	if !call.hasPermission(discordgo.PermissionKickMembers, discordgo.PermissionAdministrator) {
		return call.ephemeral(replyNoPermission)
	}
	if len(call.data.Options) == 0 {
		return fmt.Errorf("subcommand: %w", errMissingOption)
	}

	sub := call.data.Options[0]
	target := resolveUser(call.data, sub.Options, "usuario")
	if target == nil {
		return fmt.Errorf("usuario: %w", errMissingOption)
	}
	reason := "Sin razón especificada"
	if opt, ok := findOption(sub.Options, "razon"); ok && opt.StringValue() != "" {
		reason = opt.StringValue()
	}
	moderator := ""
	if call.user != nil {
		moderator = call.user.Username
	}

	switch sub.Name {
	case "warn":
		if err := call.embed(warnEmbed(target.Mention(), reason, call.userMention())); err != nil {
			return err
		}
		h.publishManualAction("warn", target.Username, moderator, reason)
		return nil
	case "kick":
		err := call.api.GuildMemberDeleteWithReason(call.i.GuildID, target.ID, reason, discordgo.WithContext(ctx))
		if err != nil {
			h.log.Warn().Err(err).Str("target", target.ID).Msg("kick failed")
			return call.ephemeral(replyKickFailed)
		}
		if err := call.embed(kickEmbed(target.Username, reason, call.userMention())); err != nil {
			return err
		}
		h.publishManualAction("kick", target.Username, moderator, reason)
		return nil
	default:
		return call.ephemeral(replyUnknown)
	}
}

func (c *invocation) userMention() string {
	if c.user == nil {
		return ""
	}
	return c.user.Mention()
}

func (h *CommandHandler) publishManualAction(action, target, moderator, reason string) {
	h.events.Publish(model.EventModerationAction, model.ModerationAction{
		Action:     action,
		TargetUser: target,
		Moderator:  moderator,
		Reason:     reason,
		Applied:    true,
		Timestamp:  time.Now().UnixMilli(),
	})
}

func (h *CommandHandler) publishExecuted(call *invocation) {
	ev := model.CommandExecuted{
		Command:   call.data.Name,
		ServerID:  call.i.GuildID,
		Timestamp: time.Now().UnixMilli(),
	}
	if call.user != nil {
		ev.UserID = call.user.ID
		ev.Username = call.user.Username
	}
	h.events.Publish(model.EventCommandExecuted, ev)
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func findOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, o := range opts {
		if o != nil && o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// resolveUser reads a user option, preferring the resolved user payload
// Discord sends alongside the interaction.
func resolveUser(data discordgo.ApplicationCommandInteractionData, opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	opt, ok := findOption(opts, name)
	if !ok || opt.Type != discordgo.ApplicationCommandOptionUser {
		return nil
	}
	id, _ := opt.Value.(string)
	if id == "" {
		return nil
	}
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[id]; ok && u != nil {
			return u
		}
	}
	return &discordgo.User{ID: id}
}
