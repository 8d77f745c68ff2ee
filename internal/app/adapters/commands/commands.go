package commands

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/ports"
	"chanmod/pkg/logger"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const invalidArguments = "invalid arguments!"

type Registry struct {
	log      logger.Logger
	prefix   string
	resolver *args.Resolver
	queue    ports.QueuePort

	mu       sync.RWMutex
	commands map[string]ports.Command
}

func New(log logger.Logger, prefix string, resolver *args.Resolver, queue ports.QueuePort) *Registry {
	if prefix == "" {
		prefix = "!"
	}

	r := &Registry{
		log:      log,
		prefix:   prefix,
		resolver: resolver,
		queue:    queue,
		commands: make(map[string]ports.Command),
	}
	r.Register(ports.Command{Name: "help", Shapes: helpShapes, Help: helpHelp, Handler: r.help})
	r.Register(ports.Command{Name: "ping", Shapes: pingShapes, Help: pingHelp, Handler: (&Ping{}).Execute})

	return r
}

// Register adds cmd, replacing any command with the same name.
func (r *Registry) Register(cmd ports.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands[strings.ToLower(cmd.Name)] = cmd
}

func (r *Registry) lookup(name string) (ports.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Dispatch runs the command contained in text, if any. Handlers run on the
// caller's goroutine.
func (r *Registry) Dispatch(inv *ports.Invocation, text string) {
	if !strings.HasPrefix(text, r.prefix) {
		return
	}

	words := strings.Fields(strings.TrimPrefix(text, r.prefix))
	if len(words) == 0 {
		return
	}

	cmd, ok := r.lookup(words[0])
	if !ok {
		r.log.Trace("Unknown command", slog.String("cmd", words[0]), slog.String("channel", inv.Channel))
		return
	}

	startProcessing := time.Now()
	metrics.Commands.WithLabelValues(inv.Channel, cmd.Name).Inc()

	resolved, err := r.resolver.Resolve(words[1:], cmd.Shapes)
	if err != nil {
		r.log.Debug("Command arguments rejected", slog.String("cmd", cmd.Name), slog.String("sender", inv.Sender),
			slog.String("error", err.Error()))
		metrics.ResolutionFailures.WithLabelValues(cmd.Name).Inc()

		r.reply(inv, &ports.AnswerType{
			Text:    append([]string{invalidArguments}, cmd.Help...),
			IsReply: true,
		})
		return
	}

	answer := cmd.Handler(inv, resolved)
	metrics.CommandProcessingTime.Observe(time.Since(startProcessing).Seconds())

	if answer != nil {
		r.reply(inv, answer)
	}
}

func (r *Registry) reply(inv *ports.Invocation, answer *ports.AnswerType) {
	for _, line := range answer.Text {
		if answer.IsReply {
			line = inv.Sender + ": " + line
		}

		if err := r.queue.Privmsg(inv.Channel, line); err != nil {
			r.log.Error("Failed to send reply", err, slog.String("channel", inv.Channel))
			return
		}
	}
}

// Names returns the registered command names in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	return names
}
