package user

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

// ErrDuplicateEmail is returned when the unique email index rejects a write.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository is the user collection contract the service depends on.
type Repository interface {
	Insert(ctx context.Context, usr *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, usr *model.User) error
	FindStudents(ctx context.Context, department string, semester int) ([]model.User, error)
	FindStaff(ctx context.Context, department string) ([]model.User, error)
}

// MongoRepository persists users in the users collection.
type MongoRepository struct {
	col *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewRepository creates a repo over the users collection.
func NewRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("users")}
}

// Insert writes a new user. A duplicate email surfaces as ErrDuplicateEmail.
func (r *MongoRepository) Insert(ctx context.Context, usr *model.User) error {
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, usr)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	usr.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID returns the user or nil when absent.
func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var usr model.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&usr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &usr, nil
}

// FindByEmail returns the user or nil when absent.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var usr model.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&usr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &usr, nil
}

// Update replaces the stored document.
func (r *MongoRepository) Update(ctx context.Context, usr *model.User) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": usr.ID}, usr)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

// FindStudents lists active students in a department/semester cohort.
func (r *MongoRepository) FindStudents(ctx context.Context, department string, semester int) ([]model.User, error) {
	filter := bson.M{"role": model.RoleStudent, "isActive": true}
	if department != "" {
		filter["department"] = department
	}
	if semester > 0 {
		filter["semester"] = semester
	}
	return r.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// FindStaff lists active faculty and admins, optionally scoped by department.
func (r *MongoRepository) FindStaff(ctx context.Context, department string) ([]model.User, error) {
	filter := bson.M{
		"role":     bson.M{"$in": []model.Role{model.RoleFaculty, model.RoleAdmin}},
		"isActive": true,
	}
	if department != "" {
		filter["department"] = department
	}
	return r.findAll(ctx, filter, nil)
}

func (r *MongoRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.User, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.col.Find(ctx, filter, opts)
	} else {
		cursor, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
