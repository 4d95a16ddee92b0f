package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MentoringStatus combines stored lifecycle state with the derived "expired"
// label for scheduled sessions whose date has passed.
type MentoringStatus string

const (
	MentoringScheduled MentoringStatus = "scheduled"
	MentoringCompleted MentoringStatus = "completed"
	MentoringCancelled MentoringStatus = "cancelled"
	MentoringExpired   MentoringStatus = "expired"
)

// Attendee is one invited student's attendance/feedback slot, derived 1:1
// from the invited student list at creation.
type Attendee struct {
	Student  primitive.ObjectID `bson:"student" json:"student"`
	Attended bool               `bson:"attended" json:"attended"`
	Feedback string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

// MentoringSession is scheduled by a faculty member for invited students.
type MentoringSession struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`
	Faculty       primitive.ObjectID   `bson:"faculty" json:"faculty"`
	Students      []primitive.ObjectID `bson:"students" json:"students"`
	ScheduledDate time.Time            `bson:"scheduledDate" json:"scheduledDate"`
	Duration      int                  `bson:"duration" json:"duration"`
	MeetingLink   string               `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	Location      string               `bson:"location,omitempty" json:"location,omitempty"`
	Topic         string               `bson:"topic" json:"topic"`
	Status        MentoringStatus      `bson:"status" json:"status"`
	Attendees     []Attendee           `bson:"attendees" json:"attendees"`
	Notes         string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}

// AttendeeOf returns the slot for a student, or nil when not invited.
func (m *MentoringSession) AttendeeOf(student primitive.ObjectID) *Attendee {
	for i := range m.Attendees {
		if m.Attendees[i].Student == student {
			return &m.Attendees[i]
		}
	}
	return nil
}

// Invited reports whether a student is on the invite list.
func (m *MentoringSession) Invited(student primitive.ObjectID) bool {
	for _, s := range m.Students {
		if s == student {
			return true
		}
	}
	return false
}

// EffectiveStatus derives the display status at time now. Cancelled and
// completed pass through; a scheduled session whose date has passed reads
// as expired.
func (m *MentoringSession) EffectiveStatus(now time.Time) MentoringStatus {
	switch m.Status {
	case MentoringCancelled, MentoringCompleted:
		return m.Status
	}
	if m.ScheduledDate.Before(now) {
		return MentoringExpired
	}
	return MentoringScheduled
}
