package moderation

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/ports"
	"log/slog"
	"strings"
)

func (m *Moderation) topic(inv *ports.Invocation, a args.Arguments) *ports.AnswerType {
	channel := inv.Channel
	if ch, ok := a.Channel("channel"); ok {
		channel = string(ch)
	}

	message := a.String("message")
	if err := m.queue.Topic(channel, message); err != nil {
		m.log.Error("Failed to change topic", err, slog.String("channel", channel))
		return actionFailed
	}

	m.log.Info("Topic changed", slog.String("channel", channel), slog.String("topic", message), slog.String("by", inv.Sender))
	metrics.ModerationActions.WithLabelValues(channel, "topic").Inc()
	return nil
}

func (m *Moderation) mode(inv *ports.Invocation, a args.Arguments) *ports.AnswerType {
	modes := a.String("modes")
	targets := strings.Fields(a.String("targets"))

	if err := m.queue.Mode(inv.Channel, modes, targets); err != nil {
		m.log.Error("Failed to change mode", err, slog.String("channel", inv.Channel), slog.String("modes", modes))
		return actionFailed
	}

	m.log.Info("Mode changed", slog.String("channel", inv.Channel), slog.String("modes", modes),
		slog.Any("targets", targets), slog.String("by", inv.Sender))
	metrics.ModerationActions.WithLabelValues(inv.Channel, "mode").Inc()
	return nil
}
