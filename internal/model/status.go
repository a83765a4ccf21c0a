package model

// BotStatus is reported on /api/status and in bot_status events.
type BotStatus struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
	Tag    string `json:"tag,omitempty"`
	Uptime string `json:"uptime,omitempty"`
	Guilds int    `json:"guilds"`
	Users  int    `json:"users"`
}
