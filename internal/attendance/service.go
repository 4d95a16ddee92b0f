// Package attendance implements session-based attendance marking and the
// derived per-student statistics. One document holds a whole session's
// marks; the unique session tuple prevents double-marking.
package attendance

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

// StudentDirectory resolves the students a session can be marked for.
type StudentDirectory interface {
	FindStudents(ctx context.Context, department string, semester int) ([]model.User, error)
}

// Service implements the attendance operations.
type Service struct {
	repo  Repository
	users StudentDirectory
}

// NewService creates the attendance service.
func NewService(repo Repository, users StudentDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// MarkInput is one session's marks.
type MarkInput struct {
	Date       time.Time     `json:"date" binding:"required"`
	Subject    string        `json:"subject" binding:"required"`
	Department string        `json:"department"`
	Semester   int           `json:"semester" binding:"required"`
	Session    model.Session `json:"session" binding:"required"`
	Records    []RecordInput `json:"records" binding:"required"`
}

// RecordInput is one student's mark within the session.
type RecordInput struct {
	Student primitive.ObjectID     `json:"student" binding:"required"`
	Status  model.AttendanceStatus `json:"status" binding:"required"`
}

// Mark writes one session's marks. A session tuple can be marked exactly
// once; the second writer observes CONFLICT.
func (s *Service) Mark(ctx context.Context, actor *model.User, in MarkInput) (*model.Attendance, error) {
	if !actor.IsStaff() {
		return nil, apperr.Forbidden("only faculty can mark attendance")
	}
	if !in.Session.Valid() {
		return nil, apperr.Validation("session must be morning or afternoon")
	}
	if len(in.Records) == 0 {
		return nil, apperr.Validation("at least one student record is required")
	}
	if in.Department == "" {
		in.Department = actor.Department
	}
	if in.Semester < 1 || in.Semester > 8 {
		return nil, apperr.Validation("semester must be between 1 and 8")
	}

	records := make([]model.AttendanceRecord, 0, len(in.Records))
	for _, rec := range in.Records {
		if !rec.Status.Valid() {
			return nil, apperr.Validation("status must be present, absent or late")
		}
		records = append(records, model.AttendanceRecord{
			Student:  rec.Student,
			Status:   rec.Status,
			MarkedBy: actor.ID,
		})
	}

	a := &model.Attendance{
		// Normalize to midnight UTC so the unique tuple compares by day.
		Date:       in.Date.UTC().Truncate(24 * time.Hour),
		Subject:    in.Subject,
		Department: in.Department,
		Semester:   in.Semester,
		Session:    in.Session,
		Faculty:    actor.ID,
		Records:    records,
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		if err == ErrDuplicate {
			return nil, apperr.Conflict("attendance already marked for this session")
		}
		return nil, err
	}
	return a, nil
}

// StudentEntry is a student's flattened view of one marked session.
type StudentEntry struct {
	ID      primitive.ObjectID     `json:"id"`
	Date    time.Time              `json:"date"`
	Subject string                 `json:"subject"`
	Session model.Session          `json:"session"`
	Status  model.AttendanceStatus `json:"status"`
}

// Listing is the role-shaped list response: students get their own flattened
// entries, faculty and anonymous viewers get whole sessions.
type Listing struct {
	Entries  []StudentEntry     `json:"entries,omitempty"`
	Sessions []model.Attendance `json:"sessions,omitempty"`
}

// List returns attendance visible to the viewer.
func (s *Service) List(ctx context.Context, viewer *model.User) (*Listing, error) {
	switch {
	case viewer == nil:
		sessions, err := s.repo.FindRecent(ctx, 10)
		if err != nil {
			return nil, err
		}
		return &Listing{Sessions: sessions}, nil
	case viewer.Role == model.RoleStudent:
		sessions, err := s.repo.FindForStudent(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		entries := make([]StudentEntry, 0, len(sessions))
		for _, sess := range sessions {
			if rec := sess.RecordOf(viewer.ID); rec != nil {
				entries = append(entries, StudentEntry{
					ID:      sess.ID,
					Date:    sess.Date,
					Subject: sess.Subject,
					Session: sess.Session,
					Status:  rec.Status,
				})
			}
		}
		return &Listing{Entries: entries}, nil
	default:
		sessions, err := s.repo.FindByFaculty(ctx, viewer.ID, 0)
		if err != nil {
			return nil, err
		}
		return &Listing{Sessions: sessions}, nil
	}
}

// Stats summarizes a student's attendance. Students get their own numbers,
// staff pass the student id, and anonymous viewers get sample data so the
// dashboard renders without a login.
func (s *Service) Stats(ctx context.Context, viewer *model.User, studentID primitive.ObjectID) (*model.AttendanceStats, error) {
	var target primitive.ObjectID
	switch {
	case viewer == nil:
		return demoStats(), nil
	case viewer.Role == model.RoleStudent:
		target = viewer.ID
	default:
		if studentID.IsZero() {
			return nil, apperr.Validation("student id is required")
		}
		target = studentID
	}

	sessions, err := s.repo.FindForStudent(ctx, target)
	if err != nil {
		return nil, err
	}
	return computeStats(sessions, target), nil
}

// StudentsFor lists the active students of a cohort for the marking form.
func (s *Service) StudentsFor(ctx context.Context, actor *model.User, department string, semester int) ([]model.PublicUser, error) {
	if !actor.IsStaff() {
		return nil, apperr.Forbidden("only faculty can list students")
	}
	if department == "" {
		department = actor.Department
	}
	students, err := s.users.FindStudents(ctx, department, semester)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicUser, 0, len(students))
	for i := range students {
		out = append(out, students[i].Public())
	}
	return out, nil
}

func computeStats(sessions []model.Attendance, student primitive.ObjectID) *model.AttendanceStats {
	stats := &model.AttendanceStats{SubjectWise: []model.SubjectStat{}}
	bySubject := make(map[string]*model.SubjectStat)
	var order []string

	for _, sess := range sessions {
		rec := sess.RecordOf(student)
		if rec == nil {
			continue
		}
		stats.TotalClasses++
		st, ok := bySubject[sess.Subject]
		if !ok {
			st = &model.SubjectStat{Subject: sess.Subject}
			bySubject[sess.Subject] = st
			order = append(order, sess.Subject)
		}
		st.Total++
		// Late still counts as attended for percentage purposes.
		if rec.Status == model.Present || rec.Status == model.Late {
			stats.PresentCount++
			st.Present++
		} else {
			stats.AbsentCount++
		}
	}

	stats.OverallPercentage = percentage(stats.PresentCount, stats.TotalClasses)
	for _, subject := range order {
		st := bySubject[subject]
		st.Percentage = percentage(st.Present, st.Total)
		stats.SubjectWise = append(stats.SubjectWise, *st)
	}
	return stats
}

func percentage(part, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(part)/float64(total)*100)
}

func demoStats() *model.AttendanceStats {
	return &model.AttendanceStats{
		TotalClasses:      40,
		PresentCount:      34,
		AbsentCount:       6,
		OverallPercentage: "85.0",
		SubjectWise: []model.SubjectStat{
			{Subject: "Data Structures", Total: 10, Present: 9, Percentage: "90.0"},
			{Subject: "Operating Systems", Total: 10, Present: 8, Percentage: "80.0"},
			{Subject: "Computer Networks", Total: 10, Present: 9, Percentage: "90.0"},
			{Subject: "Database Systems", Total: 10, Present: 8, Percentage: "80.0"},
		},
	}
}
