package cron

import (
	"log"

	"github.com/robfig/cron/v3"
	"github.com/techhire/techhire-api/services"
)

// CronManager manages all scheduled maintenance jobs
type CronManager struct {
	cron          *cron.Cron
	catalog       *services.CatalogService
	subscriptions *services.SubscriptionStore
}

// NewCronManager creates a new cron manager
func NewCronManager(catalog *services.CatalogService, subscriptions *services.SubscriptionStore) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:          c,
		catalog:       catalog,
		subscriptions: subscriptions,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Hourly: deactivate hackathon listings past their deadline
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.DeactivateExpiredHackathons()
	})
	if err != nil {
		return err
	}

	// Daily at 03:00: purge long-inactive push subscriptions
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.PurgeInactiveSubscriptions()
	})
	if err != nil {
		return err
	}

	return nil
}
