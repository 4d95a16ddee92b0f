package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

// Repository is the notifications collection contract.
type Repository interface {
	InsertMany(ctx context.Context, notifs []model.Notification) error
	ListByRecipient(ctx context.Context, recipient primitive.ObjectID, limit int64) ([]model.Notification, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (bool, error)
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error
	Delete(ctx context.Context, id, recipient primitive.ObjectID) (bool, error)
}

// MongoRepository persists notifications.
type MongoRepository struct {
	col *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewRepository creates a repo over the notifications collection.
func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("notifications")}
}

// InsertMany bulk-writes one document per recipient of an event.
func (r *MongoRepository) InsertMany(ctx context.Context, notifs []model.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(notifs))
	for i := range notifs {
		if notifs[i].CreatedAt.IsZero() {
			notifs[i].CreatedAt = time.Now().UTC()
		}
		docs = append(docs, notifs[i])
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

// ListByRecipient returns a user's notifications, newest first.
func (r *MongoRepository) ListByRecipient(ctx context.Context, recipient primitive.ObjectID, limit int64) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.col.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifs []model.Notification
	if err := cursor.All(ctx, &notifs); err != nil {
		return nil, err
	}
	return notifs, nil
}

// CountUnread counts a user's unread notifications.
func (r *MongoRepository) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"recipient": recipient, "isRead": false})
}

// MarkRead flips isRead on one notification owned by recipient. Returns
// false when no matching document exists.
func (r *MongoRepository) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkAllRead flips isRead on all of a user's notifications.
func (r *MongoRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"recipient": recipient, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	return err
}

// Delete removes one notification owned by recipient.
func (r *MongoRepository) Delete(ctx context.Context, id, recipient primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
