package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelatedKind names the entity a notification points back at.
type RelatedKind string

const (
	RelatedAssignment RelatedKind = "Assignment"
	RelatedLeave      RelatedKind = "LeaveRequest"
	RelatedMentoring  RelatedKind = "MentoringSession"
)

// Related is the tagged back-reference to the entity that triggered a
// notification, serialized as the relatedModel/relatedId pair.
type Related struct {
	Kind RelatedKind        `bson:"relatedModel" json:"relatedModel"`
	ID   primitive.ObjectID `bson:"relatedId" json:"relatedId"`
}

// Priority orders notifications in the client.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Notification event type tags.
const (
	TypeNewAssignment       = "new_assignment"
	TypeAssignmentSubmitted = "assignment_submitted"
	TypeAssignmentGraded    = "assignment_graded"
	TypeLeaveRequested      = "leave_requested"
	TypeLeaveApproved       = "leave_approved"
	TypeLeaveRejected       = "leave_rejected"
	TypeMentoringScheduled  = "mentoring_scheduled"
	TypeMentoringUpdated    = "mentoring_updated"
	TypeMentoringCancelled  = "mentoring_cancelled"
)

// Notification is only ever written by the system as a side effect of a
// domain mutation; users may flip IsRead or delete their own.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Sender    primitive.ObjectID `bson:"sender,omitempty" json:"sender,omitempty"`
	Type      string             `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Related   Related            `bson:",inline" json:"related"`
	Priority  Priority           `bson:"priority" json:"priority"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
