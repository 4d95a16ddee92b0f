package attendance

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

// ErrDuplicate reports a second write for an already-marked session tuple.
// The unique index on (date, subject, department, semester, session) is the
// only guard; concurrent identical requests race safely through it.
var ErrDuplicate = errors.New("attendance: session already marked")

// Repository is the attendance collection contract.
type Repository interface {
	Insert(ctx context.Context, a *model.Attendance) error
	FindForStudent(ctx context.Context, student primitive.ObjectID) ([]model.Attendance, error)
	FindByFaculty(ctx context.Context, faculty primitive.ObjectID, limit int64) ([]model.Attendance, error)
	FindRecent(ctx context.Context, limit int64) ([]model.Attendance, error)
}

// MongoRepository persists attendance sessions.
type MongoRepository struct {
	col *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewRepository creates a repo over the attendance collection.
func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("attendance")}
}

// Insert writes one session's marks, surfacing ErrDuplicate when the tuple
// already exists.
func (r *MongoRepository) Insert(ctx context.Context, a *model.Attendance) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindForStudent returns the sessions containing a record for the student,
// newest first.
func (r *MongoRepository) FindForStudent(ctx context.Context, student primitive.ObjectID) ([]model.Attendance, error) {
	return r.findAll(ctx, bson.M{"records.student": student}, 0)
}

// FindByFaculty returns the sessions a faculty member marked.
func (r *MongoRepository) FindByFaculty(ctx context.Context, faculty primitive.ObjectID, limit int64) ([]model.Attendance, error) {
	return r.findAll(ctx, bson.M{"faculty": faculty}, limit)
}

// FindRecent returns the latest sessions for anonymous reads.
func (r *MongoRepository) FindRecent(ctx context.Context, limit int64) ([]model.Attendance, error) {
	return r.findAll(ctx, bson.M{}, limit)
}

func (r *MongoRepository) findAll(ctx context.Context, filter bson.M, limit int64) ([]model.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []model.Attendance
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
