package cron

import (
	"context"

	"github.com/BereketMelese/Bloom/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartNotificationCronJobs schedules the recurring notification
// maintenance tasks.
func StartNotificationCronJobs(notificationService *services.NotificationService) {
	c := cron.New()

	// Purge old read notifications once a day
	c.AddFunc("@daily", func() {
		deleted, err := notificationService.CleanupRead(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Notification cleanup failed")
			return
		}
		if deleted > 0 {
			logrus.WithField("deleted", deleted).Info("Old read notifications removed")
		}
	})

	c.Start()
}
