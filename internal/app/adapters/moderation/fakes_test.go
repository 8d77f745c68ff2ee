package moderation

import (
	"chanmod/internal/app/domain/casemap"
	"chanmod/internal/app/ports"
	"errors"
	"sync"
	"time"
)

type effect struct {
	Command string
	Channel string
	Params  []string
}

type fakeQueue struct {
	mu      sync.Mutex
	effects []effect
	gone    map[string]bool
	failing map[string]bool // commands rejected as if the queue were full
}

var (
	errNotJoined = errors.New("not joined")
	errQueueFull = errors.New("queue full")
)

func (q *fakeQueue) push(cmd, channel string, params ...string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.gone[channel] {
		return errNotJoined
	}
	if q.failing[cmd] {
		return errQueueFull
	}
	q.effects = append(q.effects, effect{Command: cmd, Channel: channel, Params: params})
	return nil
}

func (q *fakeQueue) Kick(channel, nick, reason string) error {
	return q.push("KICK", channel, nick, reason)
}

func (q *fakeQueue) Remove(channel, nick, reason string) error {
	return q.push("REMOVE", channel, nick, reason)
}

func (q *fakeQueue) Topic(channel, text string) error {
	return q.push("TOPIC", channel, text)
}

func (q *fakeQueue) Mode(channel, modes string, targets []string) error {
	return q.push("MODE", channel, append([]string{modes}, targets...)...)
}

func (q *fakeQueue) Privmsg(target, text string) error {
	return q.push("PRIVMSG", target, text)
}

func (q *fakeQueue) all() []effect {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]effect(nil), q.effects...)
}

type fakeDirectory map[string]ports.Member

func (d fakeDirectory) FindByNickname(channel, nickname string) (ports.Member, bool) {
	m, ok := d[casemap.Fold(channel+" "+nickname)]
	return m, ok
}

type fakeIdentity struct{ nick string }

func (i fakeIdentity) CurrentNickname() string { return i.nick }
func (i fakeIdentity) ChannelPrefixes() string { return "#&" }

type scheduled struct {
	Delay time.Duration
	Args  map[string]any
	Task  ports.TaskFunc
}

type fakeScheduler struct {
	mu      sync.Mutex
	entries map[ports.TaskID]scheduled
	next    ports.TaskID
	err     error
}

func (s *fakeScheduler) Schedule(delay time.Duration, args map[string]any, task ports.TaskFunc) (ports.TaskID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	if s.entries == nil {
		s.entries = make(map[ports.TaskID]scheduled)
	}
	s.next++
	s.entries[s.next] = scheduled{Delay: delay, Args: args, Task: task}
	return s.next, nil
}

func (s *fakeScheduler) Cancel(id ports.TaskID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[id]
	delete(s.entries, id)
	return ok
}

func (s *fakeScheduler) Pending() []ports.PendingTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]ports.PendingTask, 0, len(s.entries))
	for id, e := range s.entries {
		pending = append(pending, ports.PendingTask{ID: id, Args: e.Args})
	}
	return pending
}

// fire runs a pending entry the way the wheel would and consumes it.
func (s *fakeScheduler) fire(id ports.TaskID) error {
	s.mu.Lock()
	e := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	return e.Task(e.Args)
}

type fakeRegistry struct {
	commands map[string]ports.Command
}

func (r *fakeRegistry) Register(cmd ports.Command) {
	if r.commands == nil {
		r.commands = make(map[string]ports.Command)
	}
	r.commands[cmd.Name] = cmd
}
