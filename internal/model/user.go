package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role classifies a user account.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the portal. PasswordHash is never serialized to JSON.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	Role           Role               `bson:"role" json:"role"`
	StudentID      string             `bson:"studentId,omitempty" json:"studentId,omitempty"`
	FacultyID      string             `bson:"facultyId,omitempty" json:"facultyId,omitempty"`
	Department     string             `bson:"department" json:"department"`
	Semester       int                `bson:"semester,omitempty" json:"semester,omitempty"`
	PhoneNumber    string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsStaff reports whether the user may act as a reviewer/marker.
func (u *User) IsStaff() bool {
	return u.Role == RoleFaculty || u.Role == RoleAdmin
}

// PublicUser is the trimmed shape embedded in responses that reference
// another account (assignment creators, reviewers, attendees).
type PublicUser struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	StudentID string             `bson:"studentId,omitempty" json:"studentId,omitempty"`
}

// Public returns the reference shape for u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, StudentID: u.StudentID}
}
