package config

import "time"

type Config struct {
	App       App       `json:"app"`
	IRC       IRC       `json:"irc"`
	Proxy     *Proxy    `json:"proxy"`
	Commands  Commands  `json:"commands"`
	Scheduler Scheduler `json:"scheduler"`
	Directory Directory `json:"directory"`
}

type App struct {
	LogLevel  string  `json:"log_level"`
	LogFile   LogFile `json:"log_file"`
	GinMode   string  `json:"gin_mode"`
	HTTPAddr  string  `json:"http_addr"`
	AuthToken string  `json:"auth_token"`
}

// LogFile is the rotating JSON log. An empty path disables it.
type LogFile struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

type IRC struct {
	Server          string        `json:"server"`    // host:port, or ws(s):// URL for the websocket transport
	Transport       string        `json:"transport"` // tcp, websocket
	TLS             bool          `json:"tls"`
	Nickname        string        `json:"nickname"`
	Username        string        `json:"username"`
	Realname        string        `json:"realname"`
	Password        string        `json:"password"`
	Channels        []string      `json:"channels"`
	ChannelPrefixes string        `json:"channel_prefixes"` // replaced by CHANTYPES once the server advertises it
	RateLimit       RateLimit     `json:"rate_limit"`
	QueueSize       int           `json:"queue_size"`
	ReconnectDelay  time.Duration `json:"reconnect_delay"`
}

type RateLimit struct {
	Messages int           `json:"messages"`
	Per      time.Duration `json:"per"`
}

type Proxy struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type Commands struct {
	Prefix string `json:"prefix"`
}

type Scheduler struct {
	Tick  time.Duration `json:"tick"`
	Slots int           `json:"slots"`
}

type Directory struct {
	Capacity int `json:"capacity"`
}
