package cron

import (
	"context"
	"log"
	"time"
)

// inactiveSubscriptionRetention is how long a deactivated subscription is
// kept before the daily purge removes it.
const inactiveSubscriptionRetention = 90 * 24 * time.Hour

const jobTimeout = 2 * time.Minute

// DeactivateExpiredHackathons flips hackathon listings whose deadline has
// passed to inactive so they drop off the public index.
func (m *CronManager) DeactivateExpiredHackathons() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := m.catalog.DeactivateExpiredHackathons(ctx)
	if err != nil {
		log.Printf("cron: deactivate expired hackathons: %v", err)
		return
	}
	if n > 0 {
		log.Printf("cron: deactivated %d expired hackathon listings", n)
	}
}

// PurgeInactiveSubscriptions hard-deletes push subscriptions that have been
// inactive past the retention window.
func (m *CronManager) PurgeInactiveSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := time.Now().Add(-inactiveSubscriptionRetention)
	n, err := m.subscriptions.PurgeInactive(ctx, cutoff)
	if err != nil {
		log.Printf("cron: purge inactive subscriptions: %v", err)
		return
	}
	if n > 0 {
		log.Printf("cron: purged %d inactive subscriptions", n)
	}
}
