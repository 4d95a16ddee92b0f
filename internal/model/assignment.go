package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus is derived per viewing user, never stored.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentSubmitted AssignmentStatus = "submitted"
	AssignmentGraded    AssignmentStatus = "graded"
	AssignmentOverdue   AssignmentStatus = "overdue"
)

// SubmissionStatus is the stored state of a submission.
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// Grades is the fixed set of letter grades a submission may carry.
var Grades = []string{"A+", "A", "B+", "B", "C+", "C", "D", "F"}

// ValidGrade reports whether g is in the allowed grade set.
func ValidGrade(g string) bool {
	for _, v := range Grades {
		if g == v {
			return true
		}
	}
	return false
}

// Submission is embedded in an Assignment; at most one per student.
type Submission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Student     primitive.ObjectID `bson:"student" json:"student"`
	FileURL     string             `bson:"fileUrl" json:"fileUrl"`
	FileName    string             `bson:"fileName,omitempty" json:"fileName,omitempty"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
	Grade       string             `bson:"grade,omitempty" json:"grade,omitempty"`
	Feedback    string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	GradedAt    *time.Time         `bson:"gradedAt,omitempty" json:"gradedAt,omitempty"`
	GradedBy    primitive.ObjectID `bson:"gradedBy,omitempty" json:"gradedBy,omitempty"`
	Status      SubmissionStatus   `bson:"status" json:"status"`
}

// Attachment is a file published alongside an assignment.
type Attachment struct {
	FileName   string    `bson:"fileName" json:"fileName"`
	FileURL    string    `bson:"fileUrl" json:"fileUrl"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Assignment is a piece of work distributed to a department/semester cohort.
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Subject     string             `bson:"subject" json:"subject"`
	Department  string             `bson:"department" json:"department"`
	Semester    int                `bson:"semester" json:"semester"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`
	MaxMarks    int                `bson:"maxMarks" json:"maxMarks"`
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Creator     *PublicUser        `bson:"creator,omitempty" json:"creator,omitempty"`
	Submissions []Submission       `bson:"submissions" json:"submissions"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SubmissionOf returns the viewer's submission, or nil.
func (a *Assignment) SubmissionOf(student primitive.ObjectID) *Submission {
	for i := range a.Submissions {
		if a.Submissions[i].Student == student {
			return &a.Submissions[i]
		}
	}
	return nil
}

// SubmissionByID locates an embedded submission by its id.
func (a *Assignment) SubmissionByID(id primitive.ObjectID) *Submission {
	for i := range a.Submissions {
		if a.Submissions[i].ID == id {
			return &a.Submissions[i]
		}
	}
	return nil
}

// GradedCount counts submissions carrying a grade.
func (a *Assignment) GradedCount() int {
	n := 0
	for i := range a.Submissions {
		if a.Submissions[i].Grade != "" {
			n++
		}
	}
	return n
}

// StatusFor derives the display status of a for a viewer at time now.
// Precedence: graded > submitted > overdue > pending. Anonymous viewers
// (zero viewer id) only ever see overdue or pending.
func (a *Assignment) StatusFor(viewer primitive.ObjectID, now time.Time) AssignmentStatus {
	if !viewer.IsZero() {
		if sub := a.SubmissionOf(viewer); sub != nil {
			if sub.Grade != "" {
				return AssignmentGraded
			}
			return AssignmentSubmitted
		}
	}
	if now.After(a.DueDate) {
		return AssignmentOverdue
	}
	return AssignmentPending
}
