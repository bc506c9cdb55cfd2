package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingExecutor records executed jobs and can be told to fail
type recordingExecutor struct {
	mu       sync.Mutex
	executed []*Job
	failures int // fail this many executions before succeeding
}

func (e *recordingExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, job)
	if e.failures > 0 {
		e.failures--
		return errors.New("task blew up")
	}
	return nil
}

func (e *recordingExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.executed)
}

func testConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 2,
		JobTimeout:        time.Second,
		RetryAttempts:     2,
		RetryDelay:        time.Millisecond,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSchedulerExecutesSubmittedJob(t *testing.T) {
	executor := &recordingExecutor{}
	s := NewScheduler(testConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	job := NewJob(TaskDailyCounterReset, time.Now(), 0)
	require.NoError(t, s.SubmitJob(job))

	waitFor(t, func() bool { return executor.count() == 1 })
	waitFor(t, func() bool { return job.Status == JobStatusSuccess })
	assert.NotNil(t, job.CompletedAt)
}

func TestSchedulerRetriesFailedJob(t *testing.T) {
	executor := &recordingExecutor{failures: 1}
	s := NewScheduler(testConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	job := NewJob(TaskLowStockScan, time.Now(), 2)
	require.NoError(t, s.SubmitJob(job))

	// First run fails, retry succeeds
	waitFor(t, func() bool { return job.Status == JobStatusSuccess })
	assert.GreaterOrEqual(t, executor.count(), 2)
	assert.Equal(t, 1, job.RetryCount)
}

func TestSchedulerExhaustsRetries(t *testing.T) {
	executor := &recordingExecutor{failures: 100}
	s := NewScheduler(testConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	job := NewJob(TaskChequeDueScan, time.Now(), 1)
	require.NoError(t, s.SubmitJob(job))

	waitFor(t, func() bool {
		return job.Status == JobStatusFailed && !job.ShouldRetry()
	})
	assert.Equal(t, 1, job.RetryCount)
	assert.NotEmpty(t, job.Error)
}

func TestSubmitJobWhenNotRunning(t *testing.T) {
	s := NewScheduler(testConfig(), &recordingExecutor{}, zap.NewNop())

	err := s.SubmitJob(NewJob(TaskDailyCounterReset, time.Now(), 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduleDailyMaintenanceSubmitsAllTasks(t *testing.T) {
	executor := &recordingExecutor{}
	s := NewScheduler(testConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	require.NoError(t, s.ScheduleDailyMaintenance(time.Now()))

	waitFor(t, func() bool { return executor.count() == len(AllTaskTypes()) })

	seen := make(map[TaskType]bool)
	executor.mu.Lock()
	for _, j := range executor.executed {
		seen[j.TaskType] = true
	}
	executor.mu.Unlock()
	for _, taskType := range AllTaskTypes() {
		assert.True(t, seen[taskType], "missing task %s", taskType)
	}
}

func TestJobLifecycle(t *testing.T) {
	job := NewJob(TaskDailyCounterReset, time.Now(), 3)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.NotNil(t, job.NextRetryAt)
	assert.Empty(t, job.Error)

	job.Start()
	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.False(t, job.ShouldRetry())
}

func TestParseDailySchedule(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		hour    int
		minute  int
		wantErr bool
	}{
		{name: "midnight", expr: "0 0 * * *", hour: 0, minute: 0},
		{name: "half past two", expr: "30 2 * * *", hour: 2, minute: 30},
		{name: "end of day", expr: "59 23 * * *", hour: 23, minute: 59},
		{name: "too few fields", expr: "0 0 * *", wantErr: true},
		{name: "non-daily day field", expr: "0 0 1 * *", wantErr: true},
		{name: "minute out of range", expr: "60 0 * * *", wantErr: true},
		{name: "hour out of range", expr: "0 24 * * *", wantErr: true},
		{name: "garbage", expr: "tomorrow at noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseDailySchedule(tt.expr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchedule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestCronTriggerFiresOncePerDay(t *testing.T) {
	executor := &recordingExecutor{}
	s := NewScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	now := time.Now()
	trigger := NewCronTrigger(CronTriggerConfig{
		DailyHour:     now.Hour(),
		DailyMinute:   now.Minute(),
		CheckInterval: time.Hour, // loop won't tick during the test
	}, s, zap.NewNop())

	trigger.checkAndTrigger(now)
	trigger.checkAndTrigger(now) // same day, must not double-fire

	waitFor(t, func() bool { return executor.count() == len(AllTaskTypes()) })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, len(AllTaskTypes()), executor.count())
}

func TestCronTriggerIgnoresOtherTimes(t *testing.T) {
	executor := &recordingExecutor{}
	s := NewScheduler(testConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	trigger := NewCronTrigger(CronTriggerConfig{
		DailyHour:     3,
		DailyMinute:   0,
		CheckInterval: time.Hour,
	}, s, zap.NewNop())

	// A time that doesn't match the configured schedule
	notNow := time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)
	trigger.checkAndTrigger(notNow)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, executor.count())
}
