package leave

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

// Repository is the leave_requests collection contract.
type Repository interface {
	Insert(ctx context.Context, l *model.LeaveRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.LeaveRequest, error)
	FindByStudent(ctx context.Context, student primitive.ObjectID) ([]model.LeaveRequest, error)
	FindByStudents(ctx context.Context, students []primitive.ObjectID) ([]model.LeaveRequest, error)
	Review(ctx context.Context, id primitive.ObjectID, status model.LeaveStatus, reviewer primitive.ObjectID, comments string, at time.Time) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoRepository persists leave requests.
type MongoRepository struct {
	col *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewRepository creates a repo over the leave_requests collection.
func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("leave_requests")}
}

// Insert writes a new pending request.
func (r *MongoRepository) Insert(ctx context.Context, l *model.LeaveRequest) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, l)
	if err != nil {
		return err
	}
	l.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID returns the request or nil when absent.
func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.LeaveRequest, error) {
	var l model.LeaveRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// FindByStudent lists one student's requests, newest first.
func (r *MongoRepository) FindByStudent(ctx context.Context, student primitive.ObjectID) ([]model.LeaveRequest, error) {
	return r.findAll(ctx, bson.M{"student": student})
}

// FindByStudents lists the requests of a set of students, newest first.
func (r *MongoRepository) FindByStudents(ctx context.Context, students []primitive.ObjectID) ([]model.LeaveRequest, error) {
	if len(students) == 0 {
		return nil, nil
	}
	return r.findAll(ctx, bson.M{"student": bson.M{"$in": students}})
}

// Review applies the decision with a conditional update so a request can
// only ever leave the pending state once. Returns false when the request
// was not pending anymore.
func (r *MongoRepository) Review(ctx context.Context, id primitive.ObjectID, status model.LeaveStatus, reviewer primitive.ObjectID, comments string, at time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.LeavePending},
		bson.M{"$set": bson.M{
			"status":     status,
			"reviewedBy": reviewer,
			"reviewedAt": at,
			"comments":   comments,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Delete removes the request.
func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoRepository) findAll(ctx context.Context, filter bson.M) ([]model.LeaveRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []model.LeaveRequest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
