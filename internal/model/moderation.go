package model

import "time"

// ViolationCategory is the classifier verdict for a message.
type ViolationCategory string

const (
	ViolationNone          ViolationCategory = "none"
	ViolationSpam          ViolationCategory = "spam"
	ViolationScam          ViolationCategory = "scam"
	ViolationAdvertisement ViolationCategory = "advertisement"
)

func (c ViolationCategory) IsViolation() bool {
	return c != "" && c != ViolationNone
}

// ChatMessage is the platform-neutral view of an inbound message.
type ChatMessage struct {
	ID          string
	GuildID     string
	ChannelID   string
	ChannelName string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Content     string
	Timestamp   time.Time
}

// AuthorMention renders the Discord mention for the author.
func (m *ChatMessage) AuthorMention() string {
	return "<@" + m.AuthorID + ">"
}

type ChannelRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Mention renders the Discord channel link.
func (c ChannelRef) Mention() string {
	return "<#" + c.ID + ">"
}

// ChannelConfig holds the per-guild channel names used for redirects.
type ChannelConfig struct {
	GuildID         string    `json:"guild_id"`
	GeneralChannels []string  `json:"general_channels"`
	HelpChannels    []string  `json:"help_channels"`
	UpdatedAt       time.Time `json:"updated_at"`
}
