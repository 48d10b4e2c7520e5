// Package jobs runs the scheduled maintenance work: a periodic full resync
// that reconverges the in-memory state with the database, covering any change
// notifications lost across reconnects.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jordanlanch/leadflow/pkg/leads"
	"github.com/jordanlanch/leadflow/pkg/logger"
)

const resyncTimeout = 2 * time.Minute

// CronManager owns the scheduled jobs.
type CronManager struct {
	cron  *cron.Cron
	leads *leads.Service
	log   logger.Logger
}

// NewCronManager creates a cron manager around the lead service.
func NewCronManager(leadService *leads.Service, log logger.Logger) *CronManager {
	if log == nil {
		log = logger.Default()
	}
	return &CronManager{
		cron:  cron.New(),
		leads: leadService,
		log:   log,
	}
}

// SetupJobs registers the resync job on the given cron schedule.
func (cm *CronManager) SetupJobs(resyncSchedule string) error {
	_, err := cm.cron.AddFunc(resyncSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
		defer cancel()

		start := time.Now()
		if err := cm.leads.Load(ctx); err != nil {
			cm.log.Error("periodic resync failed", "error", err)
			return
		}
		cm.log.Info("periodic resync completed", "duration", time.Since(start).String())
	})
	if err != nil {
		return err
	}

	cm.log.Info("cron jobs configured", "resync_schedule", resyncSchedule)
	return nil
}

// Start begins executing scheduled jobs.
func (cm *CronManager) Start() {
	cm.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (cm *CronManager) Stop() {
	ctx := cm.cron.Stop()
	<-ctx.Done()
}
