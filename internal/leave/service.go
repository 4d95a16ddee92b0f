// Package leave implements the leave request workflow: students file
// requests, department staff review each exactly once.
package leave

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

// Directory resolves the user accounts involved in a request's lifecycle.
type Directory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindStudents(ctx context.Context, department string, semester int) ([]model.User, error)
	FindStaff(ctx context.Context, department string) ([]model.User, error)
}

// Service implements the leave request operations.
type Service struct {
	repo  Repository
	users Directory
	now   func() time.Time
}

// NewService creates the leave service.
func NewService(repo Repository, users Directory) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

// CreateInput is the payload for filing a request. Attachment URLs are
// stored by the handler before the service runs.
type CreateInput struct {
	StartDate   time.Time       `json:"startDate" binding:"required"`
	EndDate     time.Time       `json:"endDate" binding:"required"`
	Reason      string          `json:"reason" binding:"required"`
	LeaveType   model.LeaveType `json:"leaveType" binding:"required"`
	Attachments []string        `json:"attachments"`
}

// Create files a pending request and notifies the student's department staff.
func (s *Service) Create(ctx context.Context, actor *model.User, in CreateInput) (*model.LeaveRequest, []event.Event, error) {
	if actor.Role != model.RoleStudent {
		return nil, nil, apperr.Forbidden("only students can request leave")
	}
	if !in.LeaveType.Valid() {
		return nil, nil, apperr.Validation("invalid leave type")
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, nil, apperr.Validation("end date must not be before start date")
	}

	info := actor.Public()
	l := &model.LeaveRequest{
		Student:     actor.ID,
		StudentInfo: &info,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Reason:      in.Reason,
		LeaveType:   in.LeaveType,
		Status:      model.LeavePending,
		Attachments: in.Attachments,
	}
	if err := s.repo.Insert(ctx, l); err != nil {
		return nil, nil, err
	}

	staff, err := s.users.FindStaff(ctx, actor.Department)
	if err != nil {
		return nil, nil, err
	}
	var events []event.Event
	if len(staff) > 0 {
		recipients := make([]primitive.ObjectID, 0, len(staff))
		for _, u := range staff {
			recipients = append(recipients, u.ID)
		}
		events = append(events, event.New(
			model.TypeLeaveRequested,
			"New Leave Request",
			fmt.Sprintf("%s requested %s leave from %s to %s.",
				actor.Name, l.LeaveType, l.StartDate.Format("02 Jan"), l.EndDate.Format("02 Jan 2006")),
			actor.ID,
			model.Related{Kind: model.RelatedLeave, ID: l.ID},
			recipients...,
		))
	}
	return l, events, nil
}

// List returns the requests visible to the viewer: students their own,
// staff the requests of their department's students.
func (s *Service) List(ctx context.Context, viewer *model.User) ([]model.LeaveRequest, error) {
	if viewer.Role == model.RoleStudent {
		out, err := s.repo.FindByStudent(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = []model.LeaveRequest{}
		}
		return out, nil
	}

	students, err := s.users.FindStudents(ctx, viewer.Department, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	out, err := s.repo.FindByStudents(ctx, ids)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.LeaveRequest{}
	}
	return out, nil
}

// Get returns one request for its owner or any staff member.
func (s *Service) Get(ctx context.Context, viewer *model.User, id primitive.ObjectID) (*model.LeaveRequest, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Student != viewer.ID && !viewer.IsStaff() {
		return nil, apperr.Forbidden("not your leave request")
	}
	return l, nil
}

// ReviewInput is the decision payload.
type ReviewInput struct {
	Status   model.LeaveStatus `json:"status" binding:"required"`
	Comments string            `json:"comments"`
}

// Review applies an approve/reject decision exactly once and notifies the
// student. A request that already left pending yields CONFLICT so the
// original reviewer and timestamp are never overwritten.
func (s *Service) Review(ctx context.Context, actor *model.User, id primitive.ObjectID, in ReviewInput) (*model.LeaveRequest, []event.Event, error) {
	if !actor.IsStaff() {
		return nil, nil, apperr.Forbidden("only faculty can review leave requests")
	}
	if in.Status != model.LeaveApproved && in.Status != model.LeaveRejected {
		return nil, nil, apperr.Validation("status must be approved or rejected")
	}

	l, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if l.Reviewed() {
		return nil, nil, apperr.Conflict("leave request already reviewed")
	}

	at := s.now().UTC()
	ok, err := s.repo.Review(ctx, id, in.Status, actor.ID, in.Comments, at)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		// Lost the race to another reviewer.
		return nil, nil, apperr.Conflict("leave request already reviewed")
	}
	l.Status = in.Status
	l.ReviewedBy = actor.ID
	l.ReviewedAt = &at
	l.Comments = in.Comments

	eventType := model.TypeLeaveApproved
	title := "Leave Request Approved"
	if in.Status == model.LeaveRejected {
		eventType = model.TypeLeaveRejected
		title = "Leave Request Rejected"
	}
	ev := event.New(
		eventType,
		title,
		fmt.Sprintf("Your leave request from %s to %s was %s.",
			l.StartDate.Format("02 Jan"), l.EndDate.Format("02 Jan 2006"), l.Status),
		actor.ID,
		model.Related{Kind: model.RelatedLeave, ID: l.ID},
		l.Student,
	).High()

	if student, err := s.users.FindByID(ctx, l.Student); err == nil && student != nil && student.Email != "" {
		ev = ev.WithEmail(mailer.LeaveDecisionJob(
			student.Email, student.Name, string(l.Status), l.StartDate, l.EndDate, l.Comments, actor.Name))
	}

	return l, []event.Event{ev}, nil
}

// Delete withdraws a request. Only the owner may, and only while pending.
func (s *Service) Delete(ctx context.Context, actor *model.User, id primitive.ObjectID) error {
	l, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if l.Student != actor.ID {
		return apperr.Forbidden("not your leave request")
	}
	if l.Reviewed() {
		return apperr.Conflict("reviewed leave requests cannot be withdrawn")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*model.LeaveRequest, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.NotFound("leave request not found")
	}
	return l, nil
}
