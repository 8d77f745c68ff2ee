package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BotConnected - подключен ли бот к серверу.
	BotConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_connected",
		Help: "Whether the bot is connected (1) or disconnected (0)",
	})

	// JoinedChannels - количество каналов, в которых находится бот.
	JoinedChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_joined_channels",
		Help: "Number of channels the bot is currently in",
	})

	// OutboundMessages - исходящие сообщения по командам протокола.
	OutboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_outbound_messages_total",
			Help: "Total number of protocol messages written per command",
		},
		[]string{"command"},
	)

	// OutboundDropped - сообщения, не попавшие в очередь.
	OutboundDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_outbound_dropped_total",
			Help: "Total number of protocol messages rejected by the outbound queue",
		},
		[]string{"reason"},
	)

	// Commands - количество вызовов команд по каналам.
	Commands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of commands called per channel and per command",
		},
		[]string{"channel", "command"},
	)

	// ResolutionFailures - команды, аргументы которых не подошли ни под одну форму.
	ResolutionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_command_resolution_failures_total",
			Help: "Total number of commands whose arguments matched no shape",
		},
		[]string{"command"},
	)

	// CommandProcessingTime - время обработки команд.
	CommandProcessingTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_command_processing_seconds",
			Help:    "Time to resolve and handle a command",
			Buckets: prometheus.ExponentialBuckets(0.00005, 1.5, 25),
		},
	)

	// ModerationActions - количество киков, банов и смен топика по каналам.
	ModerationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_moderation_actions_total",
			Help: "Number of moderation actions per channel",
		},
		[]string{"channel", "action"},
	)

	// ModerationRefusals - отказы в выполнении действий.
	ModerationRefusals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_moderation_refusals_total",
			Help: "Number of refused moderation actions per command and reason",
		},
		[]string{"command", "reason"},
	)

	// SchedulerTasks - отложенные задачи по исходу.
	SchedulerTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_scheduler_tasks_total",
			Help: "Scheduled tasks by outcome (scheduled, fired, failed, cancelled)",
		},
		[]string{"result"},
	)

	// SchedulerPending - задачи, ожидающие выполнения.
	SchedulerPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_scheduler_pending_tasks",
		Help: "Number of tasks waiting in the timing wheel",
	})
)
