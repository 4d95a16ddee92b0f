package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/auth"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

// Service handles registration, login and profile edits.
type Service struct {
	repo       Repository
	issuer     string
	signingKey string
	tokenTTL   time.Duration
}

// NewService creates the user service.
func NewService(repo Repository, issuer, signingKey string, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, issuer: issuer, signingKey: signingKey, tokenTTL: tokenTTL}
}

// FindByID exposes account lookup for the auth middleware.
func (s *Service) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Name        string     `json:"name" binding:"required"`
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password" binding:"required,min=6"`
	Role        model.Role `json:"role"`
	StudentID   string     `json:"studentId"`
	FacultyID   string     `json:"facultyId"`
	Department  string     `json:"department" binding:"required"`
	Semester    int        `json:"semester"`
	PhoneNumber string     `json:"phoneNumber"`
}

// Register creates an account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	role := in.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !role.Valid() {
		return nil, "", apperr.Validation("invalid role")
	}
	if role == model.RoleStudent && (in.Semester < 1 || in.Semester > 8) {
		return nil, "", apperr.Validation("semester must be between 1 and 8")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	usr := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         role,
		StudentID:    in.StudentID,
		FacultyID:    in.FacultyID,
		Department:   in.Department,
		Semester:     in.Semester,
		PhoneNumber:  in.PhoneNumber,
		IsActive:     true,
	}
	if err := s.repo.Insert(ctx, usr); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, "", apperr.Conflict("email already registered")
		}
		return nil, "", err
	}

	token, _, err := auth.Issue(usr.ID.Hex(), string(usr.Role), s.issuer, s.signingKey, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// Login verifies credentials and returns the account with a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	usr, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if usr == nil || !usr.IsActive {
		return nil, "", apperr.Unauthenticated("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.Unauthenticated("invalid credentials")
	}

	token, _, err := auth.Issue(usr.ID.Hex(), string(usr.Role), s.issuer, s.signingKey, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name           string `json:"name"`
	PhoneNumber    string `json:"phoneNumber"`
	ProfilePicture string `json:"profilePicture"`
}

// UpdateProfile edits the actor's own profile.
func (s *Service) UpdateProfile(ctx context.Context, actor *model.User, in ProfileInput) (*model.User, error) {
	if in.Name != "" {
		actor.Name = strings.TrimSpace(in.Name)
	}
	if in.PhoneNumber != "" {
		actor.PhoneNumber = in.PhoneNumber
	}
	if in.ProfilePicture != "" {
		actor.ProfilePicture = in.ProfilePicture
	}
	if err := s.repo.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}
