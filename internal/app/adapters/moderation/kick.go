package moderation

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/ports"
	"log/slog"
)

func (m *Moderation) kick(inv *ports.Invocation, a args.Arguments) *ports.AnswerType {
	nickname := a.String("nickname")
	if _, answer := m.guardTarget("kick", inv, nickname, selfHarmRefused); answer != nil {
		return answer
	}

	reason := reasonOr(a.String("reason"), nickname)
	if err := m.queue.Kick(inv.Channel, nickname, reason); err != nil {
		m.log.Error("Failed to kick user", err, slog.String("channel", inv.Channel), slog.String("nickname", nickname))
		return actionFailed
	}

	m.log.Info("User kicked", slog.String("channel", inv.Channel), slog.String("nickname", nickname),
		slog.String("reason", reason), slog.String("by", inv.Sender))
	metrics.ModerationActions.WithLabelValues(inv.Channel, "kick").Inc()
	return nil
}

func (m *Moderation) remove(inv *ports.Invocation, a args.Arguments) *ports.AnswerType {
	nickname := a.String("nickname")
	if _, answer := m.guardTarget("remove", inv, nickname, selfRemoveRefused); answer != nil {
		return answer
	}

	reason := reasonOr(a.String("reason"), nickname)
	if err := m.queue.Remove(inv.Channel, nickname, reason); err != nil {
		m.log.Error("Failed to remove user", err, slog.String("channel", inv.Channel), slog.String("nickname", nickname))
		return actionFailed
	}

	m.log.Info("User removed", slog.String("channel", inv.Channel), slog.String("nickname", nickname),
		slog.String("reason", reason), slog.String("by", inv.Sender))
	metrics.ModerationActions.WithLabelValues(inv.Channel, "remove").Inc()
	return nil
}
