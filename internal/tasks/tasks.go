package tasks

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vikasavnish/hunterbot/internal/metrics"
)

// Manager handles the execution of scheduled tasks
type Manager struct {
	log   zerolog.Logger
	tasks []Task
}

// Task represents a scheduled task that needs to be executed
type Task interface {
	Name() string
	Start()
	Stop()
}

// NewManager creates a new task manager
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		log:   log,
		tasks: make([]Task, 0),
	}
}

// RegisterTask registers a task with the manager
func (m *Manager) RegisterTask(task Task) {
	m.tasks = append(m.tasks, task)
}

// StartScheduledTasks starts all registered tasks
func (m *Manager) StartScheduledTasks() {
	for _, task := range m.tasks {
		task.Start()
		m.log.Info().Str("task", task.Name()).Msg("task started")
	}
}

// StopAllTasks stops all running tasks
func (m *Manager) StopAllTasks() {
	for _, task := range m.tasks {
		task.Stop()
		m.log.Info().Str("task", task.Name()).Msg("task stopped")
	}
}

// SessionStore is the part of the desk service the sweeper needs
type SessionStore interface {
	Expire(idle time.Duration) int
	Count() int
}

// SessionSweepTask closes trade screen sessions that have gone idle
type SessionSweepTask struct {
	store    SessionStore
	ttl      time.Duration
	interval time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// NewSessionSweepTask creates a new session sweep task
func NewSessionSweepTask(store SessionStore, ttl, interval time.Duration, log zerolog.Logger) *SessionSweepTask {
	return &SessionSweepTask{
		store:    store,
		ttl:      ttl,
		interval: interval,
		log:      log,
	}
}

func (t *SessionSweepTask) Name() string {
	return "session-sweep"
}

// Start begins sweeping on the configured interval
func (t *SessionSweepTask) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopChan != nil {
		return
	}

	t.stopChan = make(chan struct{})
	t.done = make(chan struct{})
	go t.loop(t.stopChan, t.done)
}

// Stop terminates the sweep loop and waits for it to exit
func (t *SessionSweepTask) Stop() {
	t.mu.Lock()
	stop, done := t.stopChan, t.done
	t.stopChan, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (t *SessionSweepTask) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.Sweep()
		case <-stop:
			return
		}
	}
}

// Sweep runs a single expiry pass
func (t *SessionSweepTask) Sweep() int {
	expired := t.store.Expire(t.ttl)
	open := t.store.Count()
	metrics.ActiveSessions.Set(float64(open))

	if expired > 0 {
		t.log.Info().Int("expired", expired).Int("open", open).Msg("idle sessions closed")
	}
	return expired
}
