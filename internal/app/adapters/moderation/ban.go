package moderation

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/ports"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	argChannel = "channel"
	argBanmask = "banmask"
)

// UserBanmask matches any nickname connecting from username@hostname.
func UserBanmask(username, hostname, redirect string) string {
	return withRedirect("*!"+username+"@"+hostname, redirect)
}

func HostBanmask(hostname, redirect string) string {
	return withRedirect(hostname, redirect)
}

func withRedirect(mask, redirect string) string {
	if redirect == "" {
		return mask
	}
	return mask + "$" + redirect
}

func redirectOf(a args.Arguments) string {
	ch, _ := a.Channel("redirect")
	return string(ch)
}

func (m *Moderation) kban(inv *ports.Invocation, a args.Arguments) *ports.AnswerType {
	nickname := a.String("nickname")
	member, answer := m.guardTarget("kban", inv, nickname, selfHarmRefused)
	if answer != nil {
		return answer
	}

	banmask := UserBanmask(member.Username, member.Hostname, redirectOf(a))
	answer = m.applyBanmask(inv, banmask, a.Int("minutes"))
	if answer == actionFailed {
		return answer
	}

	reason := reasonOr(a.String("reason"), nickname)
	if err := m.queue.Kick(inv.Channel, nickname, reason); err != nil {
		m.log.Error("Failed to kick banned user", err, slog.String("channel", inv.Channel), slog.String("nickname", nickname))
		return kickAfterBanFailed
	}
	metrics.ModerationActions.WithLabelValues(inv.Channel, "kick").Inc()

	return answer
}

func (m *Moderation) ban(inv *ports.Invocation, a args.Arguments) *ports.AnswerType {
	member, answer := m.guardTarget("ban", inv, a.String("nickname"), selfHarmRefused)
	if answer != nil {
		return answer
	}

	banmask := UserBanmask(member.Username, member.Hostname, redirectOf(a))
	return m.applyBanmask(inv, banmask, a.Int("minutes"))
}

func (m *Moderation) banhost(inv *ports.Invocation, a args.Arguments) *ports.AnswerType {
	banmask := HostBanmask(a.String("hostname"), redirectOf(a))
	return m.applyBanmask(inv, banmask, a.Int("minutes"))
}

// applyBanmask sets +b and, for a non-zero duration, schedules the -b of
// the very same mask.
func (m *Moderation) applyBanmask(inv *ports.Invocation, banmask string, minutes int) *ports.AnswerType {
	if err := m.queue.Mode(inv.Channel, "+b", []string{banmask}); err != nil {
		m.log.Error("Failed to apply ban", err, slog.String("channel", inv.Channel), slog.String("banmask", banmask))
		return actionFailed
	}

	m.log.Info("Ban applied", slog.String("channel", inv.Channel), slog.String("banmask", banmask),
		slog.Int("minutes", minutes), slog.String("by", inv.Sender))
	metrics.ModerationActions.WithLabelValues(inv.Channel, "ban").Inc()

	if minutes == 0 {
		return nil
	}

	id, err := m.scheduler.Schedule(time.Duration(minutes)*time.Minute, map[string]any{
		argChannel: inv.Channel,
		argBanmask: banmask,
	}, m.liftBan)
	if err != nil {
		m.log.Error("Failed to schedule ban removal", err, slog.String("channel", inv.Channel), slog.String("banmask", banmask))
		return reversalNotScheduled
	}

	m.log.Debug("Ban removal scheduled", slog.Uint64("id", uint64(id)), slog.String("banmask", banmask))
	return nil
}

func (m *Moderation) liftBan(payload map[string]any) error {
	channel, _ := payload[argChannel].(string)
	banmask, _ := payload[argBanmask].(string)
	if channel == "" || banmask == "" {
		return errors.New("ban removal without channel or banmask")
	}

	if err := m.queue.Mode(channel, "-b", []string{banmask}); err != nil {
		return fmt.Errorf("lift ban %q on %s: %w", banmask, channel, err)
	}

	m.log.Info("Ban lifted", slog.String("channel", channel), slog.String("banmask", banmask))
	metrics.ModerationActions.WithLabelValues(channel, "unban").Inc()
	return nil
}
