package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// reportTimeout bounds one scheduled report run
const reportTimeout = 10 * time.Minute

// ReportRunner is the scheduled job
type ReportRunner interface {
	RunScheduledReport(ctx context.Context) error
}

// Service handles scheduling of report delivery
type Service struct {
	schedule string
	runner   ReportRunner
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(schedule string, runner ReportRunner) *Service {
	return &Service{
		schedule: schedule,
		runner:   runner,
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
	}
}

// Expression returns the six-field cron expression for a report schedule.
// All schedules fire at 9 AM UTC.
func Expression(schedule string) (string, error) {
	switch schedule {
	case "daily":
		return "0 0 9 * * *", nil
	case "weekly":
		// Monday
		return "0 0 9 * * MON", nil
	case "monthly":
		// First day of the month
		return "0 0 9 1 * *", nil
	default:
		return "", fmt.Errorf("unknown report schedule %q", schedule)
	}
}

// Start begins the scheduled reporting
func (s *Service) Start() error {
	cronExpression, err := Expression(s.schedule)
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc(cronExpression, s.run)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule (%s)", s.schedule, cronExpression)
	return nil
}

func (s *Service) run() {
	logrus.Info("Starting scheduled report run")

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	if err := s.runner.RunScheduledReport(ctx); err != nil {
		logrus.Errorf("Scheduled report run failed: %v", err)
	}
}

// Stop stops the scheduler and waits for a running report to finish
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
