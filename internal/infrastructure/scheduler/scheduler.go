// Package scheduler runs the workshop's daily maintenance tasks on a
// small in-process worker pool with per-job retry.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// TaskType names a maintenance task.
type TaskType string

const (
	// TaskDailyCounterReset resets the daily finished-order counter.
	TaskDailyCounterReset TaskType = "DAILY_COUNTER_RESET"
	// TaskChequeDueScan reports cheques coming due on the reference day.
	TaskChequeDueScan TaskType = "CHEQUE_DUE_SCAN"
	// TaskLowStockScan reports inventory items at or below their minimum.
	TaskLowStockScan TaskType = "LOW_STOCK_SCAN"
)

// AllTaskTypes lists the daily tasks in execution order.
func AllTaskTypes() []TaskType {
	return []TaskType{TaskDailyCounterReset, TaskChequeDueScan, TaskLowStockScan}
}

// Job is one maintenance run over a reference day.
type Job struct {
	ID          uuid.UUID
	TaskType    TaskType
	ReferenceAt time.Time
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

func NewJob(taskType TaskType, referenceAt time.Time, maxRetries int) *Job {
	return &Job{
		ID:          uuid.New(),
		TaskType:    taskType,
		ReferenceAt: referenceAt,
		Status:      JobStatusPending,
		MaxRetries:  maxRetries,
	}
}

func (j *Job) Start() {
	j.Status = JobStatusRunning
	j.StartedAt = ptr(time.Now())
	j.Error = ""
}

func (j *Job) Complete() {
	j.Status = JobStatusSuccess
	j.CompletedAt = ptr(time.Now())
}

func (j *Job) Fail(err string) {
	j.Status = JobStatusFailed
	j.CompletedAt = ptr(time.Now())
	j.Error = err
}

func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	j.NextRetryAt = ptr(time.Now().Add(delay))
	j.Error = ""
}

func ptr(t time.Time) *time.Time { return &t }

// JobExecutor carries out a maintenance job. The maintenance package
// provides the implementation that knows each task.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

type SchedulerConfig struct {
	Enabled           bool
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// Scheduler fans submitted jobs out to MaxConcurrentJobs workers.
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	queue   chan *Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		queue:    make(chan *Job, 100),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	for id := range s.config.MaxConcurrentJobs {
		s.wg.Add(1)
		go s.worker(ctx, id)
	}

	s.logger.Info("maintenance scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout))
	return nil
}

// Stop drains the workers, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.cancel()
	close(s.queue)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("maintenance scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) SubmitJob(job *Job) error {
	if !s.running.Load() {
		return ErrSchedulerNotRunning
	}

	select {
	case s.queue <- job:
		s.logger.Debug("maintenance job queued",
			zap.String("job_id", job.ID.String()),
			zap.String("task_type", string(job.TaskType)))
		return nil
	default:
		return ErrJobQueueFull
	}
}

// ScheduleDailyMaintenance queues every daily task for the given day.
func (s *Scheduler) ScheduleDailyMaintenance(referenceAt time.Time) error {
	for _, taskType := range AllTaskTypes() {
		if err := s.SubmitJob(NewJob(taskType, referenceAt, s.config.RetryAttempts)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.queue:
			if !ok {
				return
			}
			s.run(ctx, job, id)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, job *Job, workerID int) {
	// A retried job may land on a worker before its backoff elapsed.
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		s.requeue(job)
		return
	}

	job.Start()
	s.logger.Info("running maintenance job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("task_type", string(job.TaskType)))

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		s.logger.Error("maintenance job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("task_type", string(job.TaskType)),
			zap.Error(err))

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("maintenance job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries))
			s.requeue(job)
		}
		return
	}

	job.Complete()
	s.logger.Info("maintenance job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("task_type", string(job.TaskType)))
}

func (s *Scheduler) requeue(job *Job) {
	select {
	case s.queue <- job:
	default:
		s.logger.Warn("failed to re-queue maintenance job",
			zap.String("job_id", job.ID.String()))
	}
}
