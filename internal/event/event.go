// Package event models the post-commit side effects of a domain write.
// Services return an event list alongside their result; the dispatcher
// turns it into notification documents, websocket pushes, and queued mail
// after the primary mutation has been persisted.
package event

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/mailer"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

// Event is one notable domain occurrence with its fan-out targets.
type Event struct {
	Type       string
	Title      string
	Message    string
	Priority   model.Priority
	Sender     primitive.ObjectID
	Recipients []primitive.ObjectID
	Related    model.Related

	// Extra fields merged into the websocket payload.
	Extra map[string]any

	// Emails to enqueue for the worker; may be empty.
	Emails []mailer.Job
}

// New builds an event with normal priority.
func New(eventType, title, message string, sender primitive.ObjectID, related model.Related, recipients ...primitive.ObjectID) Event {
	return Event{
		Type:       eventType,
		Title:      title,
		Message:    message,
		Priority:   model.PriorityNormal,
		Sender:     sender,
		Recipients: recipients,
		Related:    related,
	}
}

// High marks the event high priority and returns it.
func (e Event) High() Event {
	e.Priority = model.PriorityHigh
	return e
}

// WithExtra attaches an extra websocket payload field.
func (e Event) WithExtra(key string, value any) Event {
	if e.Extra == nil {
		e.Extra = make(map[string]any)
	}
	e.Extra[key] = value
	return e
}

// WithEmail appends an email job to the event.
func (e Event) WithEmail(jobs ...mailer.Job) Event {
	e.Emails = append(e.Emails, jobs...)
	return e
}
