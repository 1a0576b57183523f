package cronJobs

import (
	"context"
	"time"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

const refreshTimeout = 30 * time.Second

// Refresher recomputes cached catalog aggregates.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshAggregates warms the filter options and stats cache once.
func RefreshAggregates(ctx context.Context, refresher Refresher) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	t0 := time.Now()
	if err := refresher.Refresh(ctx); err != nil {
		logrus.Errorf("RefreshAggregates: failed to refresh cached aggregates with error: %v", err)
		return
	}
	logrus.WithField("delay", time.Since(t0).String()).Debug("cached aggregates refreshed")
}

// InitiateCronJobs schedules the aggregate warmer and returns the running scheduler.
func InitiateCronJobs(ctx context.Context, schedule string, refresher Refresher) (*cron.Cron, error) {
	logrus.Infof("initiating cron jobs")
	c := cron.New()
	err := c.AddFunc(schedule, func() {
		RefreshAggregates(ctx, refresher)
	})
	if err != nil {
		logrus.Errorf("cron job initiation failed %v", err)
		return nil, err
	}
	c.Start()

	logrus.Infof("cron job initiation successful, refreshing aggregates %s", schedule)
	return c, nil
}
