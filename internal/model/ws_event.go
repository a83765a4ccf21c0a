package model

import "encoding/json"

// Dashboard event types. Clients ignore types they do not know.
const (
	EventBotStatus        = "bot_status"
	EventServerJoined     = "server_joined"
	EventServerLeft       = "server_left"
	EventMessageActivity  = "message_activity"
	EventModerationAction = "moderation_action"
	EventUserRedirected   = "user_redirected"
	EventCommandExecuted  = "command_executed"
	EventBotError         = "bot_error"
)

// Dashboard control messages.
const (
	ControlRestartBot = "restart_bot"
	ControlGetStatus  = "get_status"
	ControlPing       = "ping"
	ControlPong       = "pong"
)

type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewWSEvent encodes payload as the event data.
func NewWSEvent(eventType string, payload any) (*WSEvent, error) {
	if payload == nil {
		return &WSEvent{Type: eventType}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &WSEvent{Type: eventType, Data: data}, nil
}

type ServerEvent struct {
	ServerID    string `json:"serverId"`
	ServerName  string `json:"serverName"`
	MemberCount int    `json:"memberCount,omitempty"`
}

type MessageActivity struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	ChannelName string `json:"channelName"`
	Timestamp   int64  `json:"timestamp"`
}

// ModerationAction covers both automatic enforcement (ViolationType set)
// and manual warn/kick commands (Action set).
type ModerationAction struct {
	Action        string            `json:"action,omitempty"`
	UserID        string            `json:"userId,omitempty"`
	Username      string            `json:"username,omitempty"`
	ViolationType ViolationCategory `json:"violationType,omitempty"`
	Trigger       string            `json:"trigger,omitempty"`
	ChannelName   string            `json:"channelName,omitempty"`
	Content       string            `json:"content,omitempty"`
	TargetUser    string            `json:"targetUser,omitempty"`
	Moderator     string            `json:"moderator,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	Applied       bool              `json:"applied"`
	FailureReason string            `json:"failureReason,omitempty"`
	Timestamp     int64             `json:"timestamp"`
}

type UserRedirect struct {
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	FromChannel   string `json:"fromChannel"`
	ToChannel     string `json:"toChannel"`
	Applied       bool   `json:"applied"`
	FailureReason string `json:"failureReason,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

type CommandExecuted struct {
	Command    string `json:"command"`
	ServerID   string `json:"serverId,omitempty"`
	ServerName string `json:"serverName,omitempty"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Timestamp  int64  `json:"timestamp"`
}

type BotError struct {
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}
