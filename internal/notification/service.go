// Package notification owns the notification records written as side
// effects of domain mutations and read back by their recipients.
package notification

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

// Service reads and mutates a user's own notifications. Writes happen only
// through CreateMany, driven by the event dispatcher.
type Service struct {
	repo Repository
}

// NewService creates the notification service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateMany is the dispatcher's sink: one bulk insert per event.
func (s *Service) CreateMany(ctx context.Context, notifs []model.Notification) error {
	return s.repo.InsertMany(ctx, notifs)
}

// Inbox is the list response shape.
type Inbox struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int64                `json:"unreadCount"`
}

// List returns the actor's notifications with their unread count.
func (s *Service) List(ctx context.Context, actor *model.User, limit int64) (*Inbox, error) {
	notifs, err := s.repo.ListByRecipient(ctx, actor.ID, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if notifs == nil {
		notifs = []model.Notification{}
	}
	return &Inbox{Notifications: notifs, UnreadCount: unread}, nil
}

// MarkRead flips isRead on one of the actor's notifications.
func (s *Service) MarkRead(ctx context.Context, actor *model.User, id primitive.ObjectID) error {
	ok, err := s.repo.MarkRead(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead flips isRead on all of the actor's notifications.
func (s *Service) MarkAllRead(ctx context.Context, actor *model.User) error {
	return s.repo.MarkAllRead(ctx, actor.ID)
}

// Delete removes one of the actor's notifications.
func (s *Service) Delete(ctx context.Context, actor *model.User, id primitive.ObjectID) error {
	ok, err := s.repo.Delete(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification not found")
	}
	return nil
}
