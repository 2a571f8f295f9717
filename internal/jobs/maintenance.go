package jobs

import (
	"context"
	"log"
	"time"

	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/robfig/cron/v3"
)

const (
	notificationRetention = 30 * 24 * time.Hour
	staleSessionAge       = 24 * time.Hour
)

// Maintenance runs the nightly housekeeping jobs: read notifications older
// than the retention window are purged, and study sessions that were never
// stopped get closed out.
type Maintenance struct {
	cron          *cron.Cron
	notifications repository.NotificationRepository
	planner       repository.PlannerRepository
}

func NewMaintenance(notifications repository.NotificationRepository, planner repository.PlannerRepository) *Maintenance {
	return &Maintenance{
		cron:          cron.New(),
		notifications: notifications,
		planner:       planner,
	}
}

func (m *Maintenance) Start() error {
	if _, err := m.cron.AddFunc("0 3 * * *", m.purgeReadNotifications); err != nil {
		return err
	}
	if _, err := m.cron.AddFunc("30 3 * * *", m.closeStaleSessions); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

func (m *Maintenance) Stop() {
	m.cron.Stop()
}

func (m *Maintenance) purgeReadNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-notificationRetention)
	deleted, err := m.notifications.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		log.Printf("notification purge failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("purged %d read notifications older than %s", deleted, cutoff.Format(time.DateOnly))
	}
}

func (m *Maintenance) closeStaleSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	closed, err := m.planner.CloseStaleSessions(ctx, time.Now().Add(-staleSessionAge))
	if err != nil {
		log.Printf("stale session cleanup failed: %v", err)
		return
	}
	if closed > 0 {
		log.Printf("closed %d stale study sessions", closed)
	}
}
