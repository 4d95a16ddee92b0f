package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeaveStatus tracks the review state machine: pending is initial,
// approved/rejected are terminal.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveType categorizes a request.
type LeaveType string

const (
	LeaveSick      LeaveType = "sick"
	LeaveCasual    LeaveType = "casual"
	LeaveEmergency LeaveType = "emergency"
	LeaveOther     LeaveType = "other"
)

// Valid reports whether t is a known leave type.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveSick, LeaveCasual, LeaveEmergency, LeaveOther:
		return true
	}
	return false
}

// LeaveRequest is created by a student and reviewed exactly once.
type LeaveRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Student     primitive.ObjectID `bson:"student" json:"student"`
	StudentInfo *PublicUser        `bson:"studentInfo,omitempty" json:"studentInfo,omitempty"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	Reason      string             `bson:"reason" json:"reason"`
	LeaveType   LeaveType          `bson:"leaveType" json:"leaveType"`
	Status      LeaveStatus        `bson:"status" json:"status"`
	Attachments []string           `bson:"attachments,omitempty" json:"attachments,omitempty"`
	ReviewedBy  primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time         `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	Comments    string             `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Reviewed reports whether the request has left the pending state.
func (l *LeaveRequest) Reviewed() bool {
	return l.Status != LeavePending
}
