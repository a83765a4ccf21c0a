package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/metrics"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

const maxEventContent = 100

// PipelineAction is the terminal state reached for a message.
type PipelineAction string

const (
	ActionDropped    PipelineAction = "dropped"
	ActionEnforced   PipelineAction = "enforced"
	ActionRedirected PipelineAction = "redirected"
	ActionRecorded   PipelineAction = "recorded"
)

type Result struct {
	Action   PipelineAction
	Category model.ViolationCategory
	Repeat   bool
	Outcome  Outcome
}

// ModerationService runs every inbound message through
// classify → decide → enforce → broadcast.
type ModerationService struct {
	classifier *Classifier
	tracker    *RecentMessageTracker
	enforcer   *Enforcer
	channels   *ChannelSettings
	directory  ChannelDirectory
	events     Broadcaster
	modlog     ModLogNotifier

	// empty means every channel is monitored
	monitored map[string]struct{}
	enabled   atomic.Bool

	now func() time.Time
	log zerolog.Logger
}

func NewModerationService(
	classifier *Classifier,
	tracker *RecentMessageTracker,
	enforcer *Enforcer,
	channels *ChannelSettings,
	directory ChannelDirectory,
	events Broadcaster,
	monitoredChannelIDs []string,
	logger zerolog.Logger,
) *ModerationService {
	monitored := make(map[string]struct{}, len(monitoredChannelIDs))
	for _, id := range monitoredChannelIDs {
		monitored[id] = struct{}{}
	}
	s := &ModerationService{
		classifier: classifier,
		tracker:    tracker,
		enforcer:   enforcer,
		channels:   channels,
		directory:  directory,
		events:     events,
		monitored:  monitored,
		now:        time.Now,
		log:        logger.With().Str("component", "moderation").Logger(),
	}
	s.enabled.Store(true)
	return s
}

// SetModLog attaches an optional audit sink.
func (s *ModerationService) SetModLog(n ModLogNotifier) {
	s.modlog = n
}

func (s *ModerationService) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
	s.log.Info().Bool("enabled", enabled).Msg("moderation toggled")
}

func (s *ModerationService) Enabled() bool {
	return s.enabled.Load()
}

// IsMonitored reports whether messages in channelID are inspected.
func (s *ModerationService) IsMonitored(channelID string) bool {
	if len(s.monitored) == 0 {
		return true
	}
	_, ok := s.monitored[channelID]
	return ok
}

// MonitoredCount is the number of explicitly monitored channels.
func (s *ModerationService) MonitoredCount() int {
	return len(s.monitored)
}

// ResetState forgets per-author history, as after a bot restart.
func (s *ModerationService) ResetState() {
	s.tracker.Reset()
}

// HandleMessage processes one inbound message. It always completes; a
// panic while handling is logged and the message dropped.
func (s *ModerationService) HandleMessage(ctx context.Context, msg *model.ChatMessage) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("message_id", msg.ID).Msg("moderation panicked")
			res = Result{Action: ActionDropped}
		}
		metrics.MessagesProcessed.WithLabelValues(string(res.Action)).Inc()
	}()

	if msg.AuthorIsBot || !s.Enabled() || !s.IsMonitored(msg.ChannelID) {
		return Result{Action: ActionDropped, Category: model.ViolationNone}
	}

	category := s.classifier.Classify(msg.Content)
	if category.IsViolation() {
		out := s.enforcer.Enforce(ctx, msg, category)
		s.reportViolation(msg, category, "pattern", out)
		return Result{Action: ActionEnforced, Category: category, Outcome: out}
	}

	cfg := s.channels.ForGuild(ctx, msg.GuildID)
	if IsGeneral(cfg, msg.ChannelName) {
		if target, ok := s.directory.FindChannel(ctx, msg.GuildID, cfg.HelpChannels); ok && target.ID != msg.ChannelID {
			out := s.enforcer.Redirect(ctx, msg, target)
			s.reportRedirect(msg, target, out)
			return Result{Action: ActionRedirected, Category: model.ViolationNone, Outcome: out}
		}
	}

	// Attachment-only posts carry no text to compare.
	if strings.TrimSpace(msg.Content) != "" && s.tracker.Observe(msg.AuthorID, msg.Content, s.now()) {
		out := s.enforcer.EnforceRepeat(ctx, msg)
		s.reportViolation(msg, model.ViolationSpam, "repeated_message", out)
		return Result{Action: ActionEnforced, Category: model.ViolationSpam, Repeat: true, Outcome: out}
	}

	s.events.Publish(model.EventMessageActivity, model.MessageActivity{
		UserID:      msg.AuthorID,
		Username:    msg.AuthorName,
		ChannelName: msg.ChannelName,
		Timestamp:   s.now().UnixMilli(),
	})
	return Result{Action: ActionRecorded, Category: model.ViolationNone, Outcome: applied()}
}

func (s *ModerationService) reportViolation(msg *model.ChatMessage, category model.ViolationCategory, trigger string, out Outcome) {
	action := model.ModerationAction{
		Action:        "delete",
		UserID:        msg.AuthorID,
		Username:      msg.AuthorName,
		ViolationType: category,
		Trigger:       trigger,
		ChannelName:   msg.ChannelName,
		Content:       truncate(msg.Content, maxEventContent),
		Applied:       out.Applied,
		FailureReason: out.Reason,
		Timestamp:     s.now().UnixMilli(),
	}
	s.events.Publish(model.EventModerationAction, action)
	if s.modlog != nil {
		s.modlog.NotifyModeration(action)
	}

	s.log.Info().
		Str("user_id", msg.AuthorID).
		Str("username", msg.AuthorName).
		Str("channel", msg.ChannelName).
		Str("violation", string(category)).
		Str("trigger", trigger).
		Bool("applied", out.Applied).
		Msg("automatic moderation")
}

func (s *ModerationService) reportRedirect(msg *model.ChatMessage, target model.ChannelRef, out Outcome) {
	s.events.Publish(model.EventUserRedirected, model.UserRedirect{
		UserID:        msg.AuthorID,
		Username:      msg.AuthorName,
		FromChannel:   msg.ChannelName,
		ToChannel:     target.Name,
		Applied:       out.Applied,
		FailureReason: out.Reason,
		Timestamp:     s.now().UnixMilli(),
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
