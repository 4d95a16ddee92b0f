package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB wraps the Mongo client and the application database handle.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewDB connects to MongoDB and verifies connectivity.
func NewDB(uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &DB{Client: client, Database: client.Database(database)}, nil
}

// EnsureIndexes creates the indexes the domain relies on. The attendance
// compound index is unique: it is the only guard against double-marking a
// session.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	users := d.Database.Collection("users")
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	assignments := d.Database.Collection("assignments")
	if _, err := assignments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "department", Value: 1}, {Key: "semester", Value: 1}, {Key: "dueDate", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
	}); err != nil {
		return err
	}

	attendance := d.Database.Collection("attendance")
	if _, err := attendance.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "subject", Value: 1},
			{Key: "department", Value: 1},
			{Key: "semester", Value: 1},
			{Key: "session", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	leaves := d.Database.Collection("leave_requests")
	if _, err := leaves.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "student", Value: 1}, {Key: "status", Value: 1}, {Key: "startDate", Value: -1}},
	}); err != nil {
		return err
	}

	mentoring := d.Database.Collection("mentoring_sessions")
	if _, err := mentoring.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "faculty", Value: 1}, {Key: "scheduledDate", Value: 1}}},
		{Keys: bson.D{{Key: "students", Value: 1}, {Key: "scheduledDate", Value: 1}}},
	}); err != nil {
		return err
	}

	notifications := d.Database.Collection("notifications")
	_, err := notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Disconnect(ctx)
}

// Healthy verifies database connectivity.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	return d.Client.Ping(ctx, nil) == nil
}
