package scheduler

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the daily maintenance trigger
type CronTriggerConfig struct {
	// DailyHour is the hour (0-23) to run daily maintenance
	DailyHour int
	// DailyMinute is the minute (0-59) to run daily maintenance
	DailyMinute int
	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		DailyHour:     0,
		DailyMinute:   0,
		CheckInterval: time.Minute,
	}
}

// ParseDailySchedule parses a daily cron expression of the form
// "M H * * *" into the hour and minute it fires at. Anything more
// elaborate than a fixed daily time is rejected.
func ParseDailySchedule(expr string) (hour, minute int, err error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return 0, 0, ErrInvalidSchedule
	}
	if fields[2] != "*" || fields[3] != "*" || fields[4] != "*" {
		return 0, 0, ErrInvalidSchedule
	}

	minute, err = strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidSchedule
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidSchedule
	}

	return hour, minute, nil
}

// CronTrigger fires the daily maintenance tasks at a fixed local time
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// lastRunDate guards against firing more than once per day
	lastRunDate string
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *CronTrigger {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the cron trigger loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Daily maintenance trigger started",
		zap.Int("hour", c.config.DailyHour),
		zap.Int("minute", c.config.DailyMinute),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop() {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	c.logger.Info("Daily maintenance trigger stopped")
}

// runLoop checks periodically whether the configured time has arrived
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.checkAndTrigger(now)
		}
	}
}

// checkAndTrigger fires the daily tasks when the clock matches and
// they haven't run today yet
func (c *CronTrigger) checkAndTrigger(now time.Time) {
	if now.Hour() != c.config.DailyHour || now.Minute() != c.config.DailyMinute {
		return
	}

	today := now.Format("2006-01-02")

	c.mu.Lock()
	if c.lastRunDate == today {
		c.mu.Unlock()
		return
	}
	c.lastRunDate = today
	c.mu.Unlock()

	c.logger.Info("Triggering daily maintenance", zap.String("date", today))

	if err := c.scheduler.ScheduleDailyMaintenance(now); err != nil {
		c.logger.Error("Failed to schedule daily maintenance",
			zap.String("date", today),
			zap.Error(err),
		)
	}
}

// TriggerNow forces an immediate maintenance run, bypassing the
// once-per-day guard. Used by operational endpoints.
func (c *CronTrigger) TriggerNow() error {
	now := time.Now()
	c.logger.Info("Manually triggering daily maintenance")
	return c.scheduler.ScheduleDailyMaintenance(now)
}
