package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	JobCachePurge   = "cache_purge"
	JobStorageProbe = "storage_probe"
)

// Func is one unit of background work. The returned details are logged.
type Func func(context.Context) (any, error)

type Run struct {
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Details     any       `json:"details,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

type schedule struct {
	jobType  string
	interval time.Duration
	run      Func
}

type job struct {
	Type string
	Run  Func
}

// Service runs queued jobs on a single worker and enqueues scheduled jobs on
// their interval.
type Service struct {
	queue     chan job
	schedules []schedule
	now       func() time.Time

	mu   sync.Mutex
	last map[string]Run
}

func New() *Service {
	return &Service{
		queue: make(chan job, 128),
		now:   time.Now,
		last:  map[string]Run{},
	}
}

// Every registers run to be enqueued each interval once Start is called.
// A non-positive interval disables the job.
func (s *Service) Every(jobType string, interval time.Duration, run Func) {
	if interval <= 0 {
		return
	}
	s.schedules = append(s.schedules, schedule{jobType: jobType, interval: interval, run: run})
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	for _, sc := range s.schedules {
		go s.tick(ctx, sc)
	}
}

func (s *Service) Enqueue(jobType string, run Func) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run Func) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// LastRuns returns the most recent run of every job type.
func (s *Service) LastRuns() map[string]Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Run, len(s.last))
	for k, v := range s.last {
		out[k] = v
	}
	return out
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	run := Run{Type: j.Type, Status: "running", StartedAt: s.now()}
	details, err := j.Run(ctx)
	run.Status = "completed"
	run.Details = details
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
	}
	run.CompletedAt = s.now()

	s.mu.Lock()
	s.last[j.Type] = run
	s.mu.Unlock()

	slog.Debug("job run finished", "jobType", j.Type, "status", run.Status, "duration", run.CompletedAt.Sub(run.StartedAt))
	return details, err
}

func (s *Service) tick(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sc.jobType, sc.run)
		}
	}
}
