package event

import (
	"context"
	"log"
	"time"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/metrics"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/queue"
)

// NotificationWriter persists notification documents. One bulk insert per
// event, not one insert per recipient.
type NotificationWriter interface {
	CreateMany(ctx context.Context, notifs []model.Notification) error
}

// Pusher delivers a best-effort payload to connected users.
type Pusher interface {
	SendToUsers(userIDs []string, event string, data any)
}

// Dispatcher fans events out to the notification store, the realtime hub and
// the email queue. Every sink failure is logged and swallowed: the domain
// write that produced the events has already been committed and must not be
// reported as failed.
type Dispatcher struct {
	Notifications NotificationWriter
	Hub           Pusher
	Jobs          queue.Queue
}

// Dispatch processes the post-commit event list of a single request.
func (d *Dispatcher) Dispatch(ctx context.Context, events []Event) {
	for _, e := range events {
		d.writeNotifications(ctx, e)
		d.push(e)
		d.enqueueMail(ctx, e)
	}
}

func (d *Dispatcher) writeNotifications(ctx context.Context, e Event) {
	if d.Notifications == nil || len(e.Recipients) == 0 {
		return
	}
	now := time.Now().UTC()
	notifs := make([]model.Notification, 0, len(e.Recipients))
	for _, recipient := range e.Recipients {
		notifs = append(notifs, model.Notification{
			Recipient: recipient,
			Sender:    e.Sender,
			Type:      e.Type,
			Title:     e.Title,
			Message:   e.Message,
			Related:   e.Related,
			Priority:  e.Priority,
			CreatedAt: now,
		})
	}
	if err := d.Notifications.CreateMany(ctx, notifs); err != nil {
		log.Printf("event: notification write failed for %s: %v", e.Type, err)
		return
	}
	metrics.NotificationsCreated.WithLabelValues(e.Type).Add(float64(len(notifs)))
}

func (d *Dispatcher) push(e Event) {
	if d.Hub == nil || len(e.Recipients) == 0 {
		return
	}
	data := map[string]any{
		"type":         e.Type,
		"message":      e.Message,
		"relatedId":    e.Related.ID.Hex(),
		"relatedModel": e.Related.Kind,
	}
	for k, v := range e.Extra {
		data[k] = v
	}
	ids := make([]string, 0, len(e.Recipients))
	for _, r := range e.Recipients {
		ids = append(ids, r.Hex())
	}
	d.Hub.SendToUsers(ids, "notification", data)
}

func (d *Dispatcher) enqueueMail(ctx context.Context, e Event) {
	if d.Jobs == nil {
		return
	}
	for _, job := range e.Emails {
		if err := d.Jobs.Publish(ctx, queue.Message{Type: "email", Body: job.Encode()}); err != nil {
			log.Printf("event: email enqueue failed for %s: %v", e.Type, err)
			continue
		}
		metrics.EmailJobs.Inc()
	}
}
