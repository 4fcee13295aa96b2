// services/scheduler.go
package services

import (
	"log"
	"podocare-backend/utils"

	cron "github.com/robfig/cron/v3"
)

// StartScheduler wires the background jobs: rate-limit sweep, pending
// payment polling and stale-pending cancellation.
func StartScheduler(limiter *utils.RateLimitStore, payments *PaymentService) *cron.Cron {
	c := cron.New()

	c.AddFunc("@every 5m", limiter.Sweep)
	c.AddFunc("@every 5m", payments.PollPending)

	// Hourly is plenty for the pending-timeout sweep
	c.AddFunc("@every 1h", payments.CancelStale)

	c.Start()
	log.Println("Background scheduler started")
	return c
}
