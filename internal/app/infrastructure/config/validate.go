package config

import (
	"chanmod/internal/app/domain/args"
	"errors"
	"fmt"
	"net/url"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error; got %s", cfg.App.LogLevel)
	}
	if cfg.App.LogFile.MaxSizeMB < 0 || cfg.App.LogFile.MaxBackups < 0 || cfg.App.LogFile.MaxAgeDays < 0 {
		return errors.New("app.log_file sizes and ages must not be negative")
	}
	if cfg.App.HTTPAddr == "" {
		cfg.App.HTTPAddr = ":8080"
	}

	// irc
	if cfg.IRC.Server == "" {
		return errors.New("irc.server is required")
	}
	if cfg.IRC.Nickname == "" {
		return errors.New("irc.nickname is required")
	}
	if cfg.IRC.Username == "" {
		cfg.IRC.Username = cfg.IRC.Nickname
	}
	if cfg.IRC.Realname == "" {
		cfg.IRC.Realname = cfg.IRC.Nickname
	}

	switch cfg.IRC.Transport {
	case "", TransportTCP:
		cfg.IRC.Transport = TransportTCP
	case TransportWebsocket:
		u, err := url.Parse(cfg.IRC.Server)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			return fmt.Errorf("irc.server must be a ws:// or wss:// URL for the websocket transport; got %s", cfg.IRC.Server)
		}
	default:
		return fmt.Errorf("irc.transport must be tcp or websocket; got %s", cfg.IRC.Transport)
	}

	if cfg.IRC.ChannelPrefixes == "" {
		cfg.IRC.ChannelPrefixes = args.DefaultChannelPrefixes
	}
	for _, ch := range cfg.IRC.Channels {
		if !args.IsChannelName(ch, cfg.IRC.ChannelPrefixes) {
			return fmt.Errorf("irc.channels contains an invalid channel name %q", ch)
		}
	}

	if (cfg.IRC.RateLimit.Messages != 0 && cfg.IRC.RateLimit.Per == 0) || (cfg.IRC.RateLimit.Messages == 0 && cfg.IRC.RateLimit.Per != 0) {
		return errors.New("irc.rate_limit.messages and irc.rate_limit.per must both be set or both be zero")
	}
	if cfg.IRC.RateLimit.Messages < 0 || cfg.IRC.RateLimit.Per < 0 {
		return errors.New("irc.rate_limit must not be negative")
	}
	if cfg.IRC.QueueSize <= 0 {
		cfg.IRC.QueueSize = 256
	}
	if cfg.IRC.ReconnectDelay <= 0 {
		cfg.IRC.ReconnectDelay = 5e9
	}

	// proxy
	if cfg.Proxy != nil && cfg.Proxy.Address != "" && (cfg.Proxy.Port <= 0 || cfg.Proxy.Port > 65535) {
		return errors.New("proxy.port must be [1,65535]")
	}

	// commands
	if cfg.Commands.Prefix == "" {
		cfg.Commands.Prefix = "!"
	}

	// scheduler
	if cfg.Scheduler.Tick < 0 {
		return errors.New("scheduler.tick must not be negative")
	}
	if cfg.Scheduler.Tick == 0 {
		cfg.Scheduler.Tick = 1e9
	}
	if cfg.Scheduler.Slots == 0 {
		cfg.Scheduler.Slots = 3600
	}
	if cfg.Scheduler.Slots < 2 {
		return errors.New("scheduler.slots must be at least 2")
	}

	// directory
	if cfg.Directory.Capacity <= 0 {
		cfg.Directory.Capacity = 100_000
	}

	return nil
}
