// Package status exposes live run progress over HTTP and WebSocket so a
// long scrape can be watched without tailing the log.
package status

import (
	"sync"
	"time"

	"github.com/codebuildervaibhav/eightify-scraper/internal/types"
)

// TaskState is the live state of one URL in the current run.
type TaskState struct {
	VideoURL       string    `json:"video_url"`
	State          string    `json:"state"`
	Attempt        int       `json:"attempt"`
	Message        string    `json:"message,omitempty"`
	SectionsFilled int       `json:"sections_filled"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Event is one progress change, streamed to WebSocket subscribers.
type Event struct {
	Type           string    `json:"type"`
	VideoURL       string    `json:"video_url,omitempty"`
	State          string    `json:"state,omitempty"`
	Attempt        int       `json:"attempt,omitempty"`
	Message        string    `json:"message,omitempty"`
	SectionsFilled int       `json:"sections_filled,omitempty"`
	At             time.Time `json:"at"`
}

// Snapshot is the aggregate view served by the progress endpoint.
type Snapshot struct {
	RunID     string      `json:"run_id"`
	StartedAt time.Time   `json:"started_at"`
	Total     int         `json:"total"`
	Processed int         `json:"processed"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Skipped   int         `json:"skipped"`
	Tasks     []TaskState `json:"tasks"`
}

// Tracker holds run progress. The runner writes from its single loop while
// HTTP handlers read concurrently, so access is guarded.
type Tracker struct {
	mu          sync.RWMutex
	runID       string
	startedAt   time.Time
	order       []string
	tasks       map[string]*TaskState
	subscribers map[chan Event]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		tasks:       make(map[string]*TaskState),
		subscribers: make(map[chan Event]struct{}),
	}
}

// BeginRun resets the tracker for a new batch of URLs, all queued.
func (t *Tracker) BeginRun(runID string, urls []string) {
	t.mu.Lock()
	t.runID = runID
	t.startedAt = time.Now()
	t.order = append([]string(nil), urls...)
	t.tasks = make(map[string]*TaskState, len(urls))
	for _, url := range urls {
		t.tasks[url] = &TaskState{
			VideoURL:  url,
			State:     types.TaskQueued,
			UpdatedAt: time.Now(),
		}
	}
	t.mu.Unlock()

	t.publish(Event{Type: "run_started", At: time.Now()})
}

// Update records a state change for one URL and notifies subscribers.
func (t *Tracker) Update(url, state string, attempt int, message string, sectionsFilled int) {
	t.mu.Lock()
	task, ok := t.tasks[url]
	if !ok {
		task = &TaskState{VideoURL: url}
		t.tasks[url] = task
		t.order = append(t.order, url)
	}
	task.State = state
	task.Attempt = attempt
	task.Message = message
	task.SectionsFilled = sectionsFilled
	task.UpdatedAt = time.Now()
	t.mu.Unlock()

	t.publish(Event{
		Type:           "task_updated",
		VideoURL:       url,
		State:          state,
		Attempt:        attempt,
		Message:        message,
		SectionsFilled: sectionsFilled,
		At:             time.Now(),
	})
}

// Snapshot returns the current aggregate progress.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		RunID:     t.runID,
		StartedAt: t.startedAt,
		Total:     len(t.order),
		Tasks:     make([]TaskState, 0, len(t.order)),
	}
	for _, url := range t.order {
		task := t.tasks[url]
		snap.Tasks = append(snap.Tasks, *task)
		switch task.State {
		case types.TaskCompleted:
			snap.Succeeded++
			snap.Processed++
		case types.TaskFailed:
			snap.Failed++
			snap.Processed++
		case types.TaskSkipped:
			snap.Skipped++
			snap.Processed++
		}
	}
	return snap
}

// Subscribe registers an event channel. The returned cancel must be called
// when the subscriber goes away.
func (t *Tracker) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)

	t.mu.Lock()
	t.subscribers[ch] = struct{}{}
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		if _, ok := t.subscribers[ch]; ok {
			delete(t.subscribers, ch)
			close(ch)
		}
		t.mu.Unlock()
	}
	return ch, cancel
}

// publish fans an event out to subscribers. Slow subscribers lose events
// rather than stalling the scrape loop.
func (t *Tracker) publish(ev Event) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for ch := range t.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
