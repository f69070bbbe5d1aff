package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"cutplan/internal/entity"
	"cutplan/internal/repository"
)

// Job carries one finalized accuracy sample to the persistence workers.
type Job struct {
	SessionID   uuid.UUID
	Sample      *entity.AccuracySample
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// SampleQueue writes accuracy samples in the background so review
// completion never blocks on the database.
type SampleQueue struct {
	repo    repository.SampleRepository
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*SampleQueue)

func WithWorkers(n int) Option {
	return func(q *SampleQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *SampleQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithPersistTimeout(d time.Duration) Option {
	return func(q *SampleQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewSampleQueue(repo repository.SampleRepository, logger *slog.Logger, opts ...Option) *SampleQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &SampleQueue{
		repo:    repo,
		logger:  logger,
		workers: 2,
		timeout: 30 * time.Second,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *SampleQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.repo.Insert(ctx, job.Sample)
					cancel()

					if err != nil {
						q.logger.Error("sample persist failed", "worker_id", workerID, "session_id", job.SessionID, "error", err)
					} else {
						q.logger.Info("sample persisted", "worker_id", workerID, "session_id", job.SessionID, "accuracy", job.Sample.Accuracy)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *SampleQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "session_id", job.SessionID)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued sample for persistence", "session_id", job.SessionID)
	default:
		q.logger.Warn("queue full, applying backpressure", "session_id", job.SessionID)
		q.ch <- job
	}
	return nil
}

func (q *SampleQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
