package worker

import (
	"github.com/spec-kit/transport-site/internal/service"
)

// StartNotificationWorker starts mail delivery and subscribes the notification
// handlers. The returned function stops the queue after draining it.
func StartNotificationWorker(notifications *service.NotificationService, queue *MailQueue) func() {
	if queue != nil {
		queue.Start()
	}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	return func() {
		if queue != nil {
			queue.Stop()
		}
	}
}
