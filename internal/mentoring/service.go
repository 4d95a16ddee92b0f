// Package mentoring implements faculty-scheduled mentoring sessions with
// invited students, per-student attendance and feedback slots, and the
// scheduled/completed/cancelled lifecycle.
package mentoring

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/event"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/mailer"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

// Directory resolves invited students for notification and mail targets.
type Directory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Service implements the mentoring session operations.
type Service struct {
	repo  Repository
	users Directory
	now   func() time.Time
}

// NewService creates the mentoring service.
func NewService(repo Repository, users Directory) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

// view overwrites the stored status with the derived one for display.
func (s *Service) view(m model.MentoringSession) model.MentoringSession {
	m.Status = m.EffectiveStatus(s.now())
	return m
}

// CreateInput is the scheduling payload.
type CreateInput struct {
	Title         string               `json:"title" binding:"required"`
	Description   string               `json:"description"`
	Students      []primitive.ObjectID `json:"students" binding:"required"`
	ScheduledDate time.Time            `json:"scheduledDate" binding:"required"`
	Duration      int                  `json:"duration"`
	MeetingLink   string               `json:"meetingLink"`
	Location      string               `json:"location"`
	Topic         string               `json:"topic" binding:"required"`
	Notes         string               `json:"notes"`
}

// Create schedules a session, seeding one attendee slot per invited
// student, and notifies them all.
func (s *Service) Create(ctx context.Context, actor *model.User, in CreateInput) (*model.MentoringSession, []event.Event, error) {
	if !actor.IsStaff() {
		return nil, nil, apperr.Forbidden("only faculty can schedule mentoring sessions")
	}
	if len(in.Students) == 0 {
		return nil, nil, apperr.Validation("at least one student must be invited")
	}
	duration := in.Duration
	if duration == 0 {
		duration = 60
	}

	attendees := make([]model.Attendee, 0, len(in.Students))
	for _, st := range in.Students {
		attendees = append(attendees, model.Attendee{Student: st})
	}
	m := &model.MentoringSession{
		Title:         in.Title,
		Description:   in.Description,
		Faculty:       actor.ID,
		Students:      in.Students,
		ScheduledDate: in.ScheduledDate,
		Duration:      duration,
		MeetingLink:   in.MeetingLink,
		Location:      in.Location,
		Topic:         in.Topic,
		Status:        model.MentoringScheduled,
		Attendees:     attendees,
		Notes:         in.Notes,
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, nil, err
	}

	ev := event.New(
		model.TypeMentoringScheduled,
		"Mentoring Session Scheduled",
		fmt.Sprintf("%s scheduled %q on %s.", actor.Name, m.Topic, m.ScheduledDate.Format("02 Jan 2006 15:04")),
		actor.ID,
		model.Related{Kind: model.RelatedMentoring, ID: m.ID},
		m.Students...,
	).High().WithExtra("scheduledDate", m.ScheduledDate)
	for _, id := range m.Students {
		if st, err := s.users.FindByID(ctx, id); err == nil && st != nil && st.Email != "" {
			ev = ev.WithEmail(mailer.MentoringScheduledJob(
				st.Email, st.Name, m.Topic, m.Title, m.ScheduledDate, m.Duration,
				m.MeetingLink, m.Location, actor.Name))
		}
	}

	v := s.view(*m)
	return &v, []event.Event{ev}, nil
}

// List returns the sessions the viewer participates in, with the derived
// status applied.
func (s *Service) List(ctx context.Context, viewer *model.User) ([]model.MentoringSession, error) {
	var (
		sessions []model.MentoringSession
		err      error
	)
	if viewer.Role == model.RoleStudent {
		sessions, err = s.repo.FindByStudent(ctx, viewer.ID)
	} else {
		sessions, err = s.repo.FindByFaculty(ctx, viewer.ID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]model.MentoringSession, 0, len(sessions))
	for _, m := range sessions {
		out = append(out, s.view(m))
	}
	return out, nil
}

// Get returns one session for a participant or an admin.
func (s *Service) Get(ctx context.Context, viewer *model.User, id primitive.ObjectID) (*model.MentoringSession, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Faculty != viewer.ID && !m.Invited(viewer.ID) && viewer.Role != model.RoleAdmin {
		return nil, apperr.Forbidden("not a participant of this session")
	}
	v := s.view(*m)
	return &v, nil
}

// UpdateInput carries the editable session fields; nil pointers are left
// untouched.
type UpdateInput struct {
	Title         *string                `json:"title"`
	Description   *string                `json:"description"`
	Students      []primitive.ObjectID   `json:"students"`
	ScheduledDate *time.Time             `json:"scheduledDate"`
	Duration      *int                   `json:"duration"`
	MeetingLink   *string                `json:"meetingLink"`
	Location      *string                `json:"location"`
	Topic         *string                `json:"topic"`
	Notes         *string                `json:"notes"`
	Status        *model.MentoringStatus `json:"status"`
}

// Update edits a session. Changes that affect where or when it happens
// re-notify the invited students.
func (s *Service) Update(ctx context.Context, actor *model.User, id primitive.ObjectID, in UpdateInput) (*model.MentoringSession, []event.Event, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if m.Faculty != actor.ID && actor.Role != model.RoleAdmin {
		return nil, nil, apperr.Forbidden("not your session")
	}
	if m.Status == model.MentoringCancelled {
		return nil, nil, apperr.Conflict("cancelled sessions cannot be edited")
	}

	reschedule := false
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if len(in.Students) > 0 {
		m.Students = in.Students
		// keep existing slots, add new ones
		for _, st := range in.Students {
			if m.AttendeeOf(st) == nil {
				m.Attendees = append(m.Attendees, model.Attendee{Student: st})
			}
		}
	}
	if in.ScheduledDate != nil && !in.ScheduledDate.Equal(m.ScheduledDate) {
		m.ScheduledDate = *in.ScheduledDate
		reschedule = true
	}
	if in.Duration != nil {
		m.Duration = *in.Duration
	}
	if in.MeetingLink != nil && *in.MeetingLink != m.MeetingLink {
		m.MeetingLink = *in.MeetingLink
		reschedule = true
	}
	if in.Location != nil && *in.Location != m.Location {
		m.Location = *in.Location
		reschedule = true
	}
	if in.Topic != nil {
		m.Topic = *in.Topic
	}
	if in.Notes != nil {
		m.Notes = *in.Notes
	}
	if in.Status != nil {
		if *in.Status != model.MentoringScheduled && *in.Status != model.MentoringCompleted {
			return nil, nil, apperr.Validation("status can only move to completed")
		}
		m.Status = *in.Status
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, nil, err
	}

	var events []event.Event
	if reschedule && len(m.Students) > 0 {
		events = append(events, event.New(
			model.TypeMentoringUpdated,
			"Mentoring Session Updated",
			fmt.Sprintf("%q was rescheduled to %s.", m.Topic, m.ScheduledDate.Format("02 Jan 2006 15:04")),
			actor.ID,
			model.Related{Kind: model.RelatedMentoring, ID: m.ID},
			m.Students...,
		).WithExtra("scheduledDate", m.ScheduledDate))
	}

	v := s.view(*m)
	return &v, events, nil
}

// MarkAttendance records that the invited actor attended. Idempotent.
func (s *Service) MarkAttendance(ctx context.Context, actor *model.User, id primitive.ObjectID) error {
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !m.Invited(actor.ID) {
		return apperr.Forbidden("not invited to this session")
	}
	return s.repo.SetAttended(ctx, id, actor.ID)
}

// Feedback overwrites the invited actor's feedback on the session.
func (s *Service) Feedback(ctx context.Context, actor *model.User, id primitive.ObjectID, feedback string) error {
	if feedback == "" {
		return apperr.Validation("feedback is required")
	}
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !m.Invited(actor.ID) {
		return apperr.Forbidden("not invited to this session")
	}
	return s.repo.SetFeedback(ctx, id, actor.ID, feedback)
}

// Cancel moves a session to its terminal cancelled state and notifies the
// invited students.
func (s *Service) Cancel(ctx context.Context, actor *model.User, id primitive.ObjectID) ([]event.Event, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Faculty != actor.ID && actor.Role != model.RoleAdmin {
		return nil, apperr.Forbidden("not your session")
	}
	if m.Status == model.MentoringCancelled {
		return nil, apperr.Conflict("session already cancelled")
	}

	if err := s.repo.SetStatus(ctx, id, model.MentoringCancelled); err != nil {
		return nil, err
	}

	ev := event.New(
		model.TypeMentoringCancelled,
		"Mentoring Session Cancelled",
		fmt.Sprintf("%q on %s was cancelled.", m.Topic, m.ScheduledDate.Format("02 Jan 2006 15:04")),
		actor.ID,
		model.Related{Kind: model.RelatedMentoring, ID: m.ID},
		m.Students...,
	).High()
	for _, sid := range m.Students {
		if st, err := s.users.FindByID(ctx, sid); err == nil && st != nil && st.Email != "" {
			ev = ev.WithEmail(mailer.MentoringCancelledJob(st.Email, st.Name, m.Topic, m.ScheduledDate))
		}
	}
	return []event.Event{ev}, nil
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*model.MentoringSession, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("mentoring session not found")
	}
	return m, nil
}
