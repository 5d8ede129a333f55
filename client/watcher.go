package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rasoihub/recipeops/internal/models"
)

// DefaultPollInterval is how often a Watcher refreshes job state.
const DefaultPollInterval = 2 * time.Second

// Update is one polling cycle's view of a job: its current state plus any
// log lines that appeared since the previous cycle.
type Update struct {
	Job  models.GenerationJob
	Logs []models.RegenerationLog
}

// Watcher polls a generation job until it reaches a terminal status. Log
// lines are fetched incrementally with a cursor, so each line is delivered
// exactly once.
type Watcher struct {
	client   *Client
	jobID    uuid.UUID
	interval time.Duration
	after    uint
}

// NewWatcher creates a watcher for the given job polling at
// DefaultPollInterval.
func NewWatcher(c *Client, jobID uuid.UUID) *Watcher {
	return &Watcher{client: c, jobID: jobID, interval: DefaultPollInterval}
}

// SetInterval overrides the poll interval. Values below 100ms are clamped.
func (w *Watcher) SetInterval(d time.Duration) {
	if d < 100*time.Millisecond {
		d = 100 * time.Millisecond
	}
	w.interval = d
}

// Poll performs a single polling cycle, advancing the log cursor.
func (w *Watcher) Poll(ctx context.Context) (*Update, error) {
	job, err := w.client.GetJob(ctx, w.jobID)
	if err != nil {
		return nil, err
	}

	logs, err := w.client.JobLogs(ctx, w.jobID, w.after)
	if err != nil {
		return nil, err
	}
	w.after = logs.NextAfter

	return &Update{Job: *job, Logs: logs.Logs}, nil
}

// Watch polls until the job reaches a terminal status or ctx is cancelled,
// invoking fn after every cycle. Polling always stops when the job finishes;
// there is no way to keep a terminal job on the wire.
func (w *Watcher) Watch(ctx context.Context, fn func(*Update) error) (*models.GenerationJob, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		update, err := w.Poll(ctx)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			if err := fn(update); err != nil {
				return &update.Job, err
			}
		}
		if update.Job.Status.IsTerminal() {
			return &update.Job, nil
		}

		select {
		case <-ctx.Done():
			return &update.Job, ctx.Err()
		case <-ticker.C:
		}
	}
}
