package timers

import (
	"chanmod/internal/app/adapters/metrics"
	"chanmod/internal/app/ports"
	"chanmod/pkg/logger"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidDelay = errors.New("delay must be positive")
	ErrStopped      = errors.New("timing wheel stopped")
)

type entry struct {
	id     ports.TaskID
	fireAt time.Time
	rounds int
	args   map[string]any
	task   ports.TaskFunc
}

type slot struct {
	entries map[ports.TaskID]*entry
}

// TimingWheel runs every scheduled task exactly once, no earlier than its
// delay, on a goroutine of its own. Pending tasks live only in memory.
type TimingWheel struct {
	log          logger.Logger
	tickDuration time.Duration
	slots        []*slot
	currentPos   int
	slotsCount   int
	index        map[ports.TaskID]int
	nextID       atomic.Uint64
	mutex        sync.Mutex
	ticker       *time.Ticker
	done         chan struct{}
	stopped      bool
	onFailure    func(id ports.TaskID, err error)
}

type Option func(*TimingWheel)

// WithFailureHandler is called after a task returned an error or panicked.
func WithFailureHandler(fn func(id ports.TaskID, err error)) Option {
	return func(tw *TimingWheel) {
		tw.onFailure = fn
	}
}

func NewTimingWheel(log logger.Logger, tickDuration time.Duration, slotsCount int, opts ...Option) *TimingWheel {
	if tickDuration <= 0 {
		tickDuration = 100 * time.Millisecond
	}
	if slotsCount < 2 {
		slotsCount = 2
	}

	tw := &TimingWheel{
		log:          log,
		tickDuration: tickDuration,
		slotsCount:   slotsCount,
		slots:        make([]*slot, slotsCount),
		index:        make(map[ports.TaskID]int),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(tw)
	}

	for i := range tw.slots {
		tw.slots[i] = &slot{entries: make(map[ports.TaskID]*entry)}
	}

	tw.ticker = time.NewTicker(tickDuration)
	go tw.start()
	return tw
}

func (tw *TimingWheel) start() {
	for {
		select {
		case <-tw.done:
			return
		case now := <-tw.ticker.C:
			tw.tick(now)
		}
	}
}

func (tw *TimingWheel) tick(now time.Time) {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	if tw.stopped {
		return
	}

	tw.currentPos = (tw.currentPos + 1) % tw.slotsCount
	current := tw.slots[tw.currentPos]

	for id, e := range current.entries {
		if e.rounds > 0 {
			e.rounds--
			continue
		}

		delete(current.entries, id)

		// the first tick after registration may come early
		if now.Before(e.fireAt) {
			next := (tw.currentPos + 1) % tw.slotsCount
			tw.slots[next].entries[id] = e
			tw.index[id] = next
			continue
		}

		delete(tw.index, id)
		metrics.SchedulerPending.Dec()
		go tw.fire(e)
	}
}

func (tw *TimingWheel) fire(e *entry) {
	defer func() {
		if r := recover(); r != nil {
			tw.fail(e, fmt.Errorf("task panicked: %v", r))
		}
	}()

	if err := e.task(e.args); err != nil {
		tw.fail(e, err)
		return
	}

	metrics.SchedulerTasks.WithLabelValues("fired").Inc()
	tw.log.Debug("Scheduled task fired", slog.Uint64("id", uint64(e.id)), slog.Time("fire_at", e.fireAt))
}

func (tw *TimingWheel) fail(e *entry, err error) {
	metrics.SchedulerTasks.WithLabelValues("failed").Inc()
	tw.log.Error("Scheduled task failed", err, slog.Uint64("id", uint64(e.id)), slog.Time("fire_at", e.fireAt))

	if tw.onFailure != nil {
		tw.onFailure(e.id, err)
	}
}

// Schedule registers task to run once with args after delay. Each call
// creates an independent entry, even for identical args.
func (tw *TimingWheel) Schedule(delay time.Duration, args map[string]any, task ports.TaskFunc) (ports.TaskID, error) {
	if delay <= 0 {
		return 0, ErrInvalidDelay
	}
	if task == nil {
		return 0, errors.New("nil task")
	}

	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	if tw.stopped {
		return 0, ErrStopped
	}

	ticks := int((delay + tw.tickDuration - 1) / tw.tickDuration)
	e := &entry{
		id:     ports.TaskID(tw.nextID.Add(1)),
		fireAt: time.Now().Add(delay),
		rounds: (ticks - 1) / tw.slotsCount,
		args:   args,
		task:   task,
	}

	pos := (tw.currentPos + ticks) % tw.slotsCount
	tw.slots[pos].entries[e.id] = e
	tw.index[e.id] = pos

	metrics.SchedulerTasks.WithLabelValues("scheduled").Inc()
	metrics.SchedulerPending.Inc()
	return e.id, nil
}

// Cancel reports whether the task was still pending.
func (tw *TimingWheel) Cancel(id ports.TaskID) bool {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	pos, ok := tw.index[id]
	if !ok {
		return false
	}

	delete(tw.slots[pos].entries, id)
	delete(tw.index, id)

	metrics.SchedulerTasks.WithLabelValues("cancelled").Inc()
	metrics.SchedulerPending.Dec()
	return true
}

func (tw *TimingWheel) Pending() []ports.PendingTask {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	pending := make([]ports.PendingTask, 0, len(tw.index))
	for id, pos := range tw.index {
		e := tw.slots[pos].entries[id]
		pending = append(pending, ports.PendingTask{
			ID:     id,
			FireAt: e.fireAt,
			Args:   maps.Clone(e.args),
		})
	}

	slices.SortFunc(pending, func(a, b ports.PendingTask) int {
		if c := a.FireAt.Compare(b.FireAt); c != 0 {
			return c
		}
		return int(a.ID) - int(b.ID)
	})
	return pending
}

// Stop halts the wheel and drops every pending task.
func (tw *TimingWheel) Stop() {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	if tw.stopped {
		return
	}
	tw.stopped = true
	tw.ticker.Stop()
	close(tw.done)

	if len(tw.index) > 0 {
		tw.log.Warn("Timing wheel stopped with pending tasks", slog.Int("abandoned", len(tw.index)))
	}
	metrics.SchedulerPending.Sub(float64(len(tw.index)))

	for _, s := range tw.slots {
		clear(s.entries)
	}
	clear(tw.index)
}
