package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const (
	JobPolicyResync = "policy_resync"
	JobPolicyReload = "policy_reload"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	defaultQueueSize = 128
	defaultHistory   = 200
)

type Func func(context.Context) (any, error)

// Recorder receives one call per finished job run.
type Recorder interface {
	JobRun(jobType string, err error)
}

type Run struct {
	ID          string     `json:"id"`
	Type        string     `json:"jobType"`
	Status      string     `json:"status"`
	Details     any        `json:"details,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type job struct {
	Type  string
	Run   Func
	reply chan<- result
}

type result struct {
	details any
	err     error
}

// Service runs jobs one at a time on a single worker goroutine started by
// Start. Jobs come from Enqueue, RunNow or a cron schedule; the most recent
// runs are kept in memory for inspection.
type Service struct {
	Recorder Recorder

	queue   chan job
	cron    *cron.Cron
	history int

	mu   sync.RWMutex
	runs []Run
}

func New(recorder Recorder) *Service {
	return &Service{
		Recorder: recorder,
		queue:    make(chan job, defaultQueueSize),
		cron:     cron.New(),
		history:  defaultHistory,
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop halts the scheduler and waits for a running cron callback to return.
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
}

// Schedule enqueues run on the standard cron spec (descriptors such as
// "@every 1h" included).
func (s *Service) Schedule(spec, jobType string, run Func) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.Enqueue(jobType, run) }); err != nil {
		return fmt.Errorf("schedule %s: %w", jobType, err)
	}
	slog.Info("job scheduled", "jobType", jobType, "schedule", spec)
	return nil
}

// Enqueue reports false when the queue is full and the job was dropped.
func (s *Service) Enqueue(jobType string, run Func) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

// RunNow queues run behind any pending jobs and waits for its result. If
// ctx ends first the job may still run later on the worker.
func (s *Service) RunNow(ctx context.Context, jobType string, run Func) (any, error) {
	reply := make(chan result, 1)
	select {
	case s.queue <- job{Type: jobType, Run: run, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.details, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Runs returns up to limit recent runs, newest first.
func (s *Service) Runs(jobType string, limit int) []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Run, 0)
	for i := len(s.runs) - 1; i >= 0; i-- {
		if jobType != "" && s.runs[i].Type != jobType {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.runs[i])
	}
	return out
}

// NextRun returns when the earliest scheduled job fires next.
func (s *Service) NextRun() (time.Time, bool) {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}, false
	}
	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return next, !next.IsZero()
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			details, err := s.runJob(ctx, j)
			if j.reply != nil {
				j.reply <- result{details: details, err: err}
			} else if err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := s.begin(j.Type)
	details, err := j.Run(ctx)
	s.finish(runID, details, err)
	if s.Recorder != nil {
		s.Recorder.JobRun(j.Type, err)
	}
	return details, err
}

func (s *Service) begin(jobType string) string {
	run := Run{ID: uuid.NewString(), Type: jobType, Status: StatusRunning, StartedAt: time.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runs) == s.history {
		copy(s.runs, s.runs[1:])
		s.runs = s.runs[:len(s.runs)-1]
	}
	s.runs = append(s.runs, run)
	return run.ID
}

func (s *Service) finish(id string, details any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.runs) - 1; i >= 0; i-- {
		if s.runs[i].ID != id {
			continue
		}
		now := time.Now()
		s.runs[i].CompletedAt = &now
		s.runs[i].Details = details
		s.runs[i].Status = StatusCompleted
		if err != nil {
			s.runs[i].Status = StatusFailed
			s.runs[i].Error = err.Error()
		}
		return
	}
}
