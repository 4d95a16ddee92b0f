package mentoring

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

// Repository is the mentoring_sessions collection contract.
type Repository interface {
	Insert(ctx context.Context, m *model.MentoringSession) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.MentoringSession, error)
	FindByFaculty(ctx context.Context, faculty primitive.ObjectID) ([]model.MentoringSession, error)
	FindByStudent(ctx context.Context, student primitive.ObjectID) ([]model.MentoringSession, error)
	Update(ctx context.Context, m *model.MentoringSession) error
	SetAttended(ctx context.Context, id, student primitive.ObjectID) error
	SetFeedback(ctx context.Context, id, student primitive.ObjectID, feedback string) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status model.MentoringStatus) error
}

// MongoRepository persists mentoring sessions.
type MongoRepository struct {
	col *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewRepository creates a repo over the mentoring_sessions collection.
func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("mentoring_sessions")}
}

// Insert writes a new session.
func (r *MongoRepository) Insert(ctx context.Context, m *model.MentoringSession) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID returns the session or nil when absent.
func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.MentoringSession, error) {
	var m model.MentoringSession
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// FindByFaculty lists the sessions a faculty member scheduled.
func (r *MongoRepository) FindByFaculty(ctx context.Context, faculty primitive.ObjectID) ([]model.MentoringSession, error) {
	return r.findAll(ctx, bson.M{"faculty": faculty})
}

// FindByStudent lists the sessions a student is invited to.
func (r *MongoRepository) FindByStudent(ctx context.Context, student primitive.ObjectID) ([]model.MentoringSession, error) {
	return r.findAll(ctx, bson.M{"students": student})
}

// Update replaces the mutable session fields.
func (r *MongoRepository) Update(ctx context.Context, m *model.MentoringSession) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": bson.M{
		"title":         m.Title,
		"description":   m.Description,
		"students":      m.Students,
		"scheduledDate": m.ScheduledDate,
		"duration":      m.Duration,
		"meetingLink":   m.MeetingLink,
		"location":      m.Location,
		"topic":         m.Topic,
		"status":        m.Status,
		"attendees":     m.Attendees,
		"notes":         m.Notes,
	}})
	return err
}

// SetAttended flips the invited student's attended flag.
func (r *MongoRepository) SetAttended(ctx context.Context, id, student primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "attendees.student": student},
		bson.M{"$set": bson.M{"attendees.$.attended": true}},
	)
	return err
}

// SetFeedback overwrites the invited student's feedback.
func (r *MongoRepository) SetFeedback(ctx context.Context, id, student primitive.ObjectID, feedback string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "attendees.student": student},
		bson.M{"$set": bson.M{"attendees.$.feedback": feedback}},
	)
	return err
}

// SetStatus updates only the lifecycle state.
func (r *MongoRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status model.MentoringStatus) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return err
}

func (r *MongoRepository) findAll(ctx context.Context, filter bson.M) ([]model.MentoringSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []model.MentoringSession
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
