package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/metrics"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

const (
	WarningTTL  = 10 * time.Second
	RedirectTTL = 15 * time.Second

	cleanupTimeout = 10 * time.Second
)

// ChatAPI is the subset of the chat platform the enforcer acts through.
type ChatAPI interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendMessage(ctx context.Context, channelID, content string) (string, error)
}

// Outcome reports whether a moderation action took effect.
type Outcome struct {
	Applied bool
	Reason  string
}

func applied() Outcome { return Outcome{Applied: true} }

func failed(reason string) Outcome { return Outcome{Reason: reason} }

// Enforcer performs the remote side of moderation: deleting messages and
// posting self-expiring replies. It never returns errors; failures are
// logged and reported through Outcome.
type Enforcer struct {
	api       ChatAPI
	log       zerolog.Logger
	afterFunc func(time.Duration, func())

	rngMu sync.Mutex
	rng   *rand.Rand
}

type EnforcerOption func(*Enforcer)

// WithRand makes reply selection deterministic.
func WithRand(r *rand.Rand) EnforcerOption {
	return func(e *Enforcer) { e.rng = r }
}

// WithScheduler replaces time.AfterFunc for reply cleanup.
func WithScheduler(f func(time.Duration, func())) EnforcerOption {
	return func(e *Enforcer) { e.afterFunc = f }
}

func NewEnforcer(api ChatAPI, logger zerolog.Logger, opts ...EnforcerOption) *Enforcer {
	e := &Enforcer{
		api: api,
		log: logger.With().Str("component", "enforcer").Logger(),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enforce deletes msg and, once the delete succeeded, posts a themed
// warning for category that removes itself after WarningTTL.
func (e *Enforcer) Enforce(ctx context.Context, msg *model.ChatMessage, category model.ViolationCategory) Outcome {
	templates, ok := warningTemplates[category]
	if !ok {
		return failed("no action for category " + string(category))
	}
	out := e.deleteAndWarn(ctx, msg, e.pick(templates))
	metrics.ModerationActions.WithLabelValues(string(category), outcomeLabel(out)).Inc()
	return out
}

// EnforceRepeat handles a repeated message as a spam violation with its
// own warning line.
func (e *Enforcer) EnforceRepeat(ctx context.Context, msg *model.ChatMessage) Outcome {
	out := e.deleteAndWarn(ctx, msg, repeatWarningTemplate)
	metrics.ModerationActions.WithLabelValues(string(model.ViolationSpam), outcomeLabel(out)).Inc()
	return out
}

// Redirect points the author at target with a reply that removes itself
// after RedirectTTL. The original message is left in place.
func (e *Enforcer) Redirect(ctx context.Context, msg *model.ChatMessage, target model.ChannelRef) Outcome {
	text := formatRedirect(e.pick(redirectTemplates), msg, target)
	replyID, err := e.send(ctx, msg.ChannelID, text)
	if err != nil {
		e.log.Error().Err(err).
			Str("channel_id", msg.ChannelID).
			Str("user_id", msg.AuthorID).
			Msg("redirect message failed")
		metrics.Redirects.WithLabelValues("failed").Inc()
		return failed("send redirect: " + err.Error())
	}
	e.scheduleRemoval(msg.ChannelID, replyID, RedirectTTL)
	metrics.Redirects.WithLabelValues("applied").Inc()
	return applied()
}

func (e *Enforcer) deleteAndWarn(ctx context.Context, msg *model.ChatMessage, template string) Outcome {
	start := time.Now()
	err := e.api.DeleteMessage(ctx, msg.ChannelID, msg.ID)
	metrics.RemoteCallDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	if err != nil {
		e.log.Error().Err(err).
			Str("channel_id", msg.ChannelID).
			Str("message_id", msg.ID).
			Str("user_id", msg.AuthorID).
			Msg("delete failed")
		return failed("delete message: " + err.Error())
	}

	warningID, err := e.send(ctx, msg.ChannelID, formatWarning(template, msg))
	if err != nil {
		e.log.Error().Err(err).
			Str("channel_id", msg.ChannelID).
			Str("user_id", msg.AuthorID).
			Msg("warning message failed")
		return Outcome{Applied: true, Reason: "send warning: " + err.Error()}
	}
	e.scheduleRemoval(msg.ChannelID, warningID, WarningTTL)
	return applied()
}

func (e *Enforcer) send(ctx context.Context, channelID, content string) (string, error) {
	start := time.Now()
	id, err := e.api.SendMessage(ctx, channelID, content)
	metrics.RemoteCallDuration.WithLabelValues("send").Observe(time.Since(start).Seconds())
	return id, err
}

// scheduleRemoval deletes a bot reply after ttl. Errors are ignored: the
// reply may already be gone.
func (e *Enforcer) scheduleRemoval(channelID, messageID string, ttl time.Duration) {
	if messageID == "" {
		return
	}
	e.afterFunc(ttl, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := e.api.DeleteMessage(ctx, channelID, messageID); err != nil {
			e.log.Debug().Err(err).Str("message_id", messageID).Msg("reply cleanup skipped")
		}
	})
}

func (e *Enforcer) pick(options []string) string {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return options[e.rng.Intn(len(options))]
}

func outcomeLabel(o Outcome) string {
	if o.Applied {
		return "applied"
	}
	return "failed"
}
