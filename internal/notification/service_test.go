package notification

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

type fakeRepo struct {
	notifs map[primitive.ObjectID]*model.Notification
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{notifs: make(map[primitive.ObjectID]*model.Notification)}
}

func (f *fakeRepo) InsertMany(_ context.Context, notifs []model.Notification) error {
	for i := range notifs {
		cp := notifs[i]
		cp.ID = primitive.NewObjectID()
		f.notifs[cp.ID] = &cp
	}
	return nil
}

func (f *fakeRepo) ListByRecipient(_ context.Context, recipient primitive.ObjectID, _ int64) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.notifs {
		if n.Recipient == recipient {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountUnread(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	var count int64
	for _, n := range f.notifs {
		if n.Recipient == recipient && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, id, recipient primitive.ObjectID) (bool, error) {
	n, ok := f.notifs[id]
	if !ok || n.Recipient != recipient {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (f *fakeRepo) MarkAllRead(_ context.Context, recipient primitive.ObjectID) error {
	for _, n := range f.notifs {
		if n.Recipient == recipient {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id, recipient primitive.ObjectID) (bool, error) {
	n, ok := f.notifs[id]
	if !ok || n.Recipient != recipient {
		return false, nil
	}
	delete(f.notifs, id)
	return true, nil
}

func seed(t *testing.T, svc *Service, recipient primitive.ObjectID, n int) {
	t.Helper()
	notifs := make([]model.Notification, 0, n)
	for i := 0; i < n; i++ {
		notifs = append(notifs, model.Notification{
			Recipient: recipient,
			Type:      model.TypeNewAssignment,
			Title:     "New Assignment",
		})
	}
	if err := svc.CreateMany(context.Background(), notifs); err != nil {
		t.Fatalf("CreateMany() error = %v", err)
	}
}

func TestInboxAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	me := &model.User{ID: primitive.NewObjectID(), Role: model.RoleStudent}
	other := &model.User{ID: primitive.NewObjectID(), Role: model.RoleStudent}

	seed(t, svc, me.ID, 3)
	seed(t, svc, other.ID, 1)

	inbox, err := svc.List(ctx, me, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(inbox.Notifications) != 3 || inbox.UnreadCount != 3 {
		t.Errorf("inbox = %d notifications / %d unread, want 3/3", len(inbox.Notifications), inbox.UnreadCount)
	}

	if err := svc.MarkRead(ctx, me, inbox.Notifications[0].ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	inbox, _ = svc.List(ctx, me, 0)
	if inbox.UnreadCount != 2 {
		t.Errorf("UnreadCount after MarkRead = %d, want 2", inbox.UnreadCount)
	}

	if err := svc.MarkAllRead(ctx, me); err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	inbox, _ = svc.List(ctx, me, 0)
	if inbox.UnreadCount != 0 {
		t.Errorf("UnreadCount after MarkAllRead = %d, want 0", inbox.UnreadCount)
	}
}

func TestRecipientScoping(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	me := &model.User{ID: primitive.NewObjectID(), Role: model.RoleStudent}
	other := &model.User{ID: primitive.NewObjectID(), Role: model.RoleStudent}

	seed(t, svc, me.ID, 1)
	inbox, _ := svc.List(ctx, me, 0)
	id := inbox.Notifications[0].ID

	// another user cannot flip or delete someone else's notification
	if err := svc.MarkRead(ctx, other, id); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("foreign MarkRead() code = %v, want NOT_FOUND", apperr.CodeOf(err))
	}
	if err := svc.Delete(ctx, other, id); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("foreign Delete() code = %v, want NOT_FOUND", apperr.CodeOf(err))
	}

	if err := svc.Delete(ctx, me, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, me, id); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("second Delete() code = %v, want NOT_FOUND", apperr.CodeOf(err))
	}
}
