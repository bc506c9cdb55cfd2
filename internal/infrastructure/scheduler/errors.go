package scheduler

import "errors"

var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrJobQueueFull        = errors.New("job queue is full")
	ErrInvalidTaskType     = errors.New("invalid task type")
	ErrInvalidSchedule     = errors.New("invalid cron schedule")
)
