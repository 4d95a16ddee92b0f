package assignment

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

// Repository is the assignments collection contract the service depends on.
type Repository interface {
	Insert(ctx context.Context, a *model.Assignment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Assignment, error)
	FindForCohort(ctx context.Context, department string, semester int, limit int64) ([]model.Assignment, error)
	FindByCreator(ctx context.Context, creator primitive.ObjectID, limit int64) ([]model.Assignment, error)
	FindActive(ctx context.Context, limit int64) ([]model.Assignment, error)
	AppendSubmission(ctx context.Context, id primitive.ObjectID, sub model.Submission) error
	GradeSubmission(ctx context.Context, id, submissionID primitive.ObjectID, grade, feedback string, gradedBy primitive.ObjectID, gradedAt time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoRepository persists assignments with embedded submissions.
type MongoRepository struct {
	col *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewRepository creates a repo over the assignments collection.
func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("assignments")}
}

// Insert writes a new assignment.
func (r *MongoRepository) Insert(ctx context.Context, a *model.Assignment) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.Submissions == nil {
		a.Submissions = []model.Submission{}
	}
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID returns the assignment or nil when absent.
func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Assignment, error) {
	var a model.Assignment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// FindForCohort lists active assignments for a department/semester, newest first.
func (r *MongoRepository) FindForCohort(ctx context.Context, department string, semester int, limit int64) ([]model.Assignment, error) {
	return r.findAll(ctx, bson.M{
		"department": department,
		"semester":   semester,
		"isActive":   true,
	}, limit)
}

// FindByCreator lists a faculty member's assignments, newest first.
func (r *MongoRepository) FindByCreator(ctx context.Context, creator primitive.ObjectID, limit int64) ([]model.Assignment, error) {
	return r.findAll(ctx, bson.M{"createdBy": creator}, limit)
}

// FindActive lists active assignments for anonymous/demo reads.
func (r *MongoRepository) FindActive(ctx context.Context, limit int64) ([]model.Assignment, error) {
	return r.findAll(ctx, bson.M{"isActive": true}, limit)
}

// AppendSubmission pushes a submission onto the embedded list.
func (r *MongoRepository) AppendSubmission(ctx context.Context, id primitive.ObjectID, sub model.Submission) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"submissions": sub},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}

// GradeSubmission mutates one embedded submission in place.
func (r *MongoRepository) GradeSubmission(ctx context.Context, id, submissionID primitive.ObjectID, grade, feedback string, gradedBy primitive.ObjectID, gradedAt time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "submissions._id": submissionID},
		bson.M{"$set": bson.M{
			"submissions.$.grade":    grade,
			"submissions.$.feedback": feedback,
			"submissions.$.gradedAt": gradedAt,
			"submissions.$.gradedBy": gradedBy,
			"submissions.$.status":   model.SubmissionGraded,
			"updatedAt":              time.Now().UTC(),
		}},
	)
	return err
}

// Delete removes the assignment.
func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoRepository) findAll(ctx context.Context, filter bson.M, limit int64) ([]model.Assignment, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []model.Assignment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
