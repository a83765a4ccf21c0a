package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

// dbtx is satisfied by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ChannelConfigRepository stores per-guild general/help channel names.
type ChannelConfigRepository struct {
	db dbtx
}

func NewChannelConfigRepository(db dbtx) *ChannelConfigRepository {
	return &ChannelConfigRepository{db: db}
}

// Get returns model.ErrNotFound when the guild has no stored config.
func (r *ChannelConfigRepository) Get(ctx context.Context, guildID string) (*model.ChannelConfig, error) {
	cfg := model.ChannelConfig{GuildID: guildID}
	err := r.db.QueryRow(ctx,
		`SELECT general_channels, help_channels, updated_at
		 FROM guild_channel_config WHERE guild_id = $1`,
		guildID,
	).Scan(&cfg.GeneralChannels, &cfg.HelpChannels, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get channel config %s: %w", guildID, err)
	}
	return &cfg, nil
}

// Save upserts the config for cfg.GuildID.
func (r *ChannelConfigRepository) Save(ctx context.Context, cfg *model.ChannelConfig) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO guild_channel_config (guild_id, general_channels, help_channels, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (guild_id) DO UPDATE SET
		   general_channels = EXCLUDED.general_channels,
		   help_channels = EXCLUDED.help_channels,
		   updated_at = EXCLUDED.updated_at`,
		cfg.GuildID, cfg.GeneralChannels, cfg.HelpChannels, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save channel config %s: %w", cfg.GuildID, err)
	}
	return nil
}
