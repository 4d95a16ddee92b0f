package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus is the per-student mark within a session.
type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Late    AttendanceStatus = "late"
)

// Valid reports whether s is a known mark.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case Present, Absent, Late:
		return true
	}
	return false
}

// Session halves a teaching day.
type Session string

const (
	Morning   Session = "morning"
	Afternoon Session = "afternoon"
)

// Valid reports whether s is a known session.
func (s Session) Valid() bool {
	return s == Morning || s == Afternoon
}

// AttendanceRecord is one student's mark, embedded in an Attendance document.
type AttendanceRecord struct {
	Student  primitive.ObjectID `bson:"student" json:"student"`
	Status   AttendanceStatus   `bson:"status" json:"status"`
	MarkedBy primitive.ObjectID `bson:"markedBy" json:"markedBy"`
}

// Attendance holds one session's marks. The (date, subject, department,
// semester, session) tuple is unique; the storage index is the only guard
// against double-marking.
type Attendance struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date       time.Time          `bson:"date" json:"date"`
	Subject    string             `bson:"subject" json:"subject"`
	Department string             `bson:"department" json:"department"`
	Semester   int                `bson:"semester" json:"semester"`
	Session    Session            `bson:"session" json:"session"`
	Faculty    primitive.ObjectID `bson:"faculty" json:"faculty"`
	Records    []AttendanceRecord `bson:"records" json:"records"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// RecordOf returns the record for a student, or nil.
func (a *Attendance) RecordOf(student primitive.ObjectID) *AttendanceRecord {
	for i := range a.Records {
		if a.Records[i].Student == student {
			return &a.Records[i]
		}
	}
	return nil
}

// SubjectStat aggregates one subject's attendance for a student.
type SubjectStat struct {
	Subject    string `json:"subject"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Percentage string `json:"percentage"`
}

// AttendanceStats summarizes a student's attendance.
type AttendanceStats struct {
	TotalClasses      int           `json:"totalClasses"`
	PresentCount      int           `json:"presentCount"`
	AbsentCount       int           `json:"absentCount"`
	OverallPercentage string        `json:"overallPercentage"`
	SubjectWise       []SubjectStat `json:"subjectWise"`
}
