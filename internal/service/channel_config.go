package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

// ChannelConfigStore persists per-guild channel names.
type ChannelConfigStore interface {
	Get(ctx context.Context, guildID string) (*model.ChannelConfig, error)
	Save(ctx context.Context, cfg *model.ChannelConfig) error
}

// ChannelDirectory looks up guild channels whose name contains one of names.
type ChannelDirectory interface {
	FindChannel(ctx context.Context, guildID string, names []string) (model.ChannelRef, bool)
}

// ChannelSettings resolves the general/help channel names for a guild,
// falling back to the configured defaults.
type ChannelSettings struct {
	store    ChannelConfigStore
	defaults model.ChannelConfig
	log      zerolog.Logger
}

func NewChannelSettings(store ChannelConfigStore, general, help []string, logger zerolog.Logger) *ChannelSettings {
	return &ChannelSettings{
		store: store,
		defaults: model.ChannelConfig{
			GeneralChannels: normalizeNames(general),
			HelpChannels:    normalizeNames(help),
		},
		log: logger.With().Str("component", "channel-settings").Logger(),
	}
}

// ForGuild never fails: lookup errors are logged and the defaults used.
func (s *ChannelSettings) ForGuild(ctx context.Context, guildID string) model.ChannelConfig {
	cfg := s.defaults
	cfg.GuildID = guildID
	if s.store == nil || guildID == "" {
		return cfg
	}

	stored, err := s.store.Get(ctx, guildID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.log.Warn().Err(err).Str("guild_id", guildID).Msg("channel config lookup failed")
		}
		return cfg
	}
	if len(stored.GeneralChannels) > 0 {
		cfg.GeneralChannels = stored.GeneralChannels
	}
	if len(stored.HelpChannels) > 0 {
		cfg.HelpChannels = stored.HelpChannels
	}
	cfg.UpdatedAt = stored.UpdatedAt
	return cfg
}

// Update stores new names for a guild. Empty lists keep the current value.
func (s *ChannelSettings) Update(ctx context.Context, guildID string, general, help []string) (*model.ChannelConfig, error) {
	if s.store == nil {
		return nil, errors.New("channel config store not configured")
	}
	current := s.ForGuild(ctx, guildID)
	if g := normalizeNames(general); len(g) > 0 {
		current.GeneralChannels = g
	}
	if h := normalizeNames(help); len(h) > 0 {
		current.HelpChannels = h
	}
	current.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, &current); err != nil {
		return nil, err
	}
	return &current, nil
}

// IsGeneral reports whether channelName is one of cfg's general channels.
func IsGeneral(cfg model.ChannelConfig, channelName string) bool {
	name := strings.ToLower(strings.TrimSpace(channelName))
	if name == "" {
		return false
	}
	for _, g := range cfg.GeneralChannels {
		if name == g {
			return true
		}
	}
	return false
}

// SplitNames parses a comma-separated list of channel names.
func SplitNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return normalizeNames(strings.Split(raw, ","))
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(n), "#")))
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// MemoryChannelConfigStore keeps channel config in process memory; used
// when no database is configured.
type MemoryChannelConfigStore struct {
	mu      sync.RWMutex
	configs map[string]model.ChannelConfig
}

func NewMemoryChannelConfigStore() *MemoryChannelConfigStore {
	return &MemoryChannelConfigStore{configs: make(map[string]model.ChannelConfig)}
}

func (s *MemoryChannelConfigStore) Get(ctx context.Context, guildID string) (*model.ChannelConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[guildID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &cfg, nil
}

func (s *MemoryChannelConfigStore) Save(ctx context.Context, cfg *model.ChannelConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.GuildID] = *cfg
	return nil
}
