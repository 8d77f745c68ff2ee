package config

import "time"

const (
	TransportTCP       = "tcp"
	TransportWebsocket = "websocket"
)

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			LogFile: LogFile{
				Path:       "logs/main.log",
				MaxSizeMB:  64,
				MaxBackups: 32,
				MaxAgeDays: 30,
				Compress:   true,
			},
			GinMode:  "release",
			HTTPAddr: ":8080",
		},
		IRC: IRC{
			Server:          "irc.libera.chat:6697",
			Transport:       TransportTCP,
			TLS:             true,
			Nickname:        "chanmod",
			Username:        "chanmod",
			Realname:        "channel moderation bot",
			Channels:        []string{},
			ChannelPrefixes: "#&",
			RateLimit: RateLimit{
				Messages: 4,
				Per:      2 * time.Second,
			},
			QueueSize:      256,
			ReconnectDelay: 5 * time.Second,
		},
		Commands: Commands{
			Prefix: "!",
		},
		Scheduler: Scheduler{
			Tick:  time.Second,
			Slots: 3600,
		},
		Directory: Directory{
			Capacity: 100_000,
		},
	}
}
