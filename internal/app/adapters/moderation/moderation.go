package moderation

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/domain/casemap"
	"chanmod/internal/app/ports"
	"chanmod/pkg/logger"
	"log/slog"
)

var (
	selfHarmRefused = &ports.AnswerType{
		Text: []string{"I refuse to hurt myself!"},
	}
	selfRemoveRefused = &ports.AnswerType{
		Text: []string{"What? I can't leave...!"},
	}
	targetNotPresent = &ports.AnswerType{
		Text:    []string{"This user is currently not in the channel."},
		IsReply: true,
	}
	actionFailed = &ports.AnswerType{
		Text:    []string{"unable to do that right now, try again later."},
		IsReply: true,
	}
	reversalNotScheduled = &ports.AnswerType{
		Text:    []string{"the ban was applied, but it will not be lifted automatically."},
		IsReply: true,
	}
	kickAfterBanFailed = &ports.AnswerType{
		Text:    []string{"the ban was applied, but the user could not be kicked."},
		IsReply: true,
	}
)

// Moderation holds the kick, remove, topic, ban and mode commands.
type Moderation struct {
	log       logger.Logger
	queue     ports.QueuePort
	directory ports.DirectoryPort
	identity  ports.IdentityPort
	scheduler ports.SchedulerPort
}

func New(log logger.Logger, queue ports.QueuePort, directory ports.DirectoryPort, identity ports.IdentityPort, scheduler ports.SchedulerPort) *Moderation {
	return &Moderation{
		log:       log,
		queue:     queue,
		directory: directory,
		identity:  identity,
		scheduler: scheduler,
	}
}

func (m *Moderation) Register(registry ports.RegistryPort) {
	for _, cmd := range m.commands() {
		registry.Register(cmd)
	}
}

func (m *Moderation) commands() []ports.Command {
	return []ports.Command{
		{Name: "kick", Shapes: kickShapes, Help: kickHelp, Handler: m.kick},
		{Name: "remove", Shapes: kickShapes, Help: removeHelp, Handler: m.remove},
		{Name: "topic", Shapes: topicShapes, Help: topicHelp, Handler: m.topic},
		{Name: "kban", Shapes: kbanShapes, Help: kbanHelp, Handler: m.kban},
		{Name: "ban", Shapes: banShapes, Help: banHelp, Handler: m.ban},
		{Name: "banhost", Shapes: banhostShapes, Help: banhostHelp, Handler: m.banhost},
		{Name: "mode", Shapes: modeShapes, Help: modeHelp, Handler: m.mode},
	}
}

// guardTarget refuses actions against the bot itself and against users
// not present in the channel. A non-nil answer means the action must stop.
func (m *Moderation) guardTarget(command string, inv *ports.Invocation, nickname string, selfRefusal *ports.AnswerType) (ports.Member, *ports.AnswerType) {
	if casemap.Equal(nickname, m.identity.CurrentNickname()) {
		m.log.Warn("Refused to act on self", slog.String("command", command), slog.String("sender", inv.Sender))
		metrics.ModerationRefusals.WithLabelValues(command, "self_target").Inc()
		return ports.Member{}, selfRefusal
	}

	member, ok := m.directory.FindByNickname(inv.Channel, nickname)
	if !ok {
		m.log.Debug("Target not present", slog.String("command", command), slog.String("nickname", nickname))
		metrics.ModerationRefusals.WithLabelValues(command, "not_present").Inc()
		return ports.Member{}, targetNotPresent
	}

	return member, nil
}

func reasonOr(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}
