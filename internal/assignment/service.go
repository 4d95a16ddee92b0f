// Package assignment implements distribution, submission and grading of
// course work. Assignments are published to a department/semester cohort;
// each student may submit once, and faculty grade submissions in place.
package assignment

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

// StudentDirectory resolves notification targets from the users collection.
type StudentDirectory interface {
	FindStudents(ctx context.Context, department string, semester int) ([]model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Service implements the assignment operations.
type Service struct {
	repo        Repository
	users       StudentDirectory
	frontendURL string
	now         func() time.Time
}

// NewService creates the assignment service.
func NewService(repo Repository, users StudentDirectory, frontendURL string) *Service {
	return &Service{repo: repo, users: users, frontendURL: frontendURL, now: time.Now}
}

// View wraps an assignment with the per-viewer derived fields.
type View struct {
	model.Assignment
	Status          model.AssignmentStatus `json:"status"`
	SubmissionCount int                    `json:"submissionCount"`
	GradedCount     int                    `json:"gradedCount"`
}

func (s *Service) view(a model.Assignment, viewer primitive.ObjectID) View {
	return View{
		Assignment:      a,
		Status:          a.StatusFor(viewer, s.now()),
		SubmissionCount: len(a.Submissions),
		GradedCount:     a.GradedCount(),
	}
}

// CreateInput is the payload for publishing an assignment.
type CreateInput struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Subject     string             `json:"subject" binding:"required"`
	Department  string             `json:"department"`
	Semester    int                `json:"semester"`
	DueDate     time.Time          `json:"dueDate" binding:"required"`
	MaxMarks    int                `json:"maxMarks"`
	Attachments []model.Attachment `json:"attachments"`
}

// Create publishes an assignment to a cohort and notifies its students.
// Department and semester default to the creator's own when omitted.
func (s *Service) Create(ctx context.Context, actor *model.User, in CreateInput) (*View, []event.Event, error) {
	if !actor.IsStaff() {
		return nil, nil, apperr.Forbidden("only faculty can create assignments")
	}
	if in.Department == "" {
		in.Department = actor.Department
	}
	if in.Semester == 0 {
		in.Semester = actor.Semester
	}
	if in.Semester < 1 || in.Semester > 8 {
		return nil, nil, apperr.Validation("semester must be between 1 and 8")
	}
	maxMarks := in.MaxMarks
	if maxMarks == 0 {
		maxMarks = 100
	}

	creator := actor.Public()
	a := &model.Assignment{
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		Department:  in.Department,
		Semester:    in.Semester,
		DueDate:     in.DueDate,
		MaxMarks:    maxMarks,
		Attachments: in.Attachments,
		CreatedBy:   actor.ID,
		Creator:     &creator,
		IsActive:    true,
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, nil, err
	}

	students, err := s.users.FindStudents(ctx, a.Department, a.Semester)
	if err != nil {
		return nil, nil, err
	}
	var events []event.Event
	if len(students) > 0 {
		recipients := make([]primitive.ObjectID, 0, len(students))
		for _, st := range students {
			recipients = append(recipients, st.ID)
		}
		events = append(events, event.New(
			model.TypeNewAssignment,
			"New Assignment: "+a.Title,
			fmt.Sprintf("%s posted a new %s assignment due %s.", actor.Name, a.Subject, a.DueDate.Format("02 Jan 2006")),
			actor.ID,
			model.Related{Kind: model.RelatedAssignment, ID: a.ID},
			recipients...,
		).WithExtra("dueDate", a.DueDate))
	}

	v := s.view(*a, actor.ID)
	return &v, events, nil
}

// List returns the assignments visible to the viewer. Students see the
// active assignments of their own cohort, faculty see what they created,
// and anonymous viewers get a capped read-only listing.
func (s *Service) List(ctx context.Context, viewer *model.User) ([]View, error) {
	var (
		assignments []model.Assignment
		err         error
		viewerID    primitive.ObjectID
	)
	switch {
	case viewer == nil:
		assignments, err = s.repo.FindActive(ctx, 50)
	case viewer.Role == model.RoleStudent:
		viewerID = viewer.ID
		assignments, err = s.repo.FindForCohort(ctx, viewer.Department, viewer.Semester, 0)
	default:
		viewerID = viewer.ID
		assignments, err = s.repo.FindByCreator(ctx, viewer.ID, 0)
	}
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, s.view(a, viewerID))
	}
	return views, nil
}

// Get returns one assignment if the viewer may see it: students of the
// cohort it targets, its creator, or an admin.
func (s *Service) Get(ctx context.Context, viewer *model.User, id primitive.ObjectID) (*View, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canView(viewer, a); err != nil {
		return nil, err
	}
	var viewerID primitive.ObjectID
	if viewer != nil {
		viewerID = viewer.ID
	}
	v := s.view(*a, viewerID)
	return &v, nil
}

// SubmitInput carries an already-stored submission file.
type SubmitInput struct {
	FileURL  string
	FileName string
}

// Submit records the student's single submission and notifies the
// assignment's creator. Submissions after the due date are rejected.
func (s *Service) Submit(ctx context.Context, actor *model.User, id primitive.ObjectID, in SubmitInput) (*View, []event.Event, error) {
	if actor.Role != model.RoleStudent {
		return nil, nil, apperr.Forbidden("only students can submit assignments")
	}
	if in.FileURL == "" {
		return nil, nil, apperr.Validation("submission file is required")
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := canView(actor, a); err != nil {
		return nil, nil, err
	}
	if s.now().After(a.DueDate) {
		return nil, nil, apperr.Validation("assignment deadline has passed")
	}
	if a.SubmissionOf(actor.ID) != nil {
		return nil, nil, apperr.Conflict("assignment already submitted")
	}

	sub := model.Submission{
		ID:          primitive.NewObjectID(),
		Student:     actor.ID,
		FileURL:     in.FileURL,
		FileName:    in.FileName,
		SubmittedAt: s.now().UTC(),
		Status:      model.SubmissionSubmitted,
	}
	if err := s.repo.AppendSubmission(ctx, a.ID, sub); err != nil {
		return nil, nil, err
	}
	a.Submissions = append(a.Submissions, sub)

	events := []event.Event{event.New(
		model.TypeAssignmentSubmitted,
		"Assignment Submitted",
		fmt.Sprintf("%s submitted %q.", actor.Name, a.Title),
		actor.ID,
		model.Related{Kind: model.RelatedAssignment, ID: a.ID},
		a.CreatedBy,
	)}

	v := s.view(*a, actor.ID)
	return &v, events, nil
}

// GradeInput is the grading payload.
type GradeInput struct {
	Grade    string `json:"grade" binding:"required"`
	Feedback string `json:"feedback"`
}

// Grade records a letter grade on one submission and notifies its student.
func (s *Service) Grade(ctx context.Context, actor *model.User, id, submissionID primitive.ObjectID, in GradeInput) ([]event.Event, error) {
	if !actor.IsStaff() {
		return nil, apperr.Forbidden("only faculty can grade submissions")
	}
	if !model.ValidGrade(in.Grade) {
		return nil, apperr.Validation("invalid grade")
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.CreatedBy != actor.ID && actor.Role != model.RoleAdmin {
		return nil, apperr.Forbidden("not your assignment")
	}
	sub := a.SubmissionByID(submissionID)
	if sub == nil {
		return nil, apperr.NotFound("submission not found")
	}

	gradedAt := s.now().UTC()
	if err := s.repo.GradeSubmission(ctx, a.ID, submissionID, in.Grade, in.Feedback, actor.ID, gradedAt); err != nil {
		return nil, err
	}

	ev := event.New(
		model.TypeAssignmentGraded,
		"Assignment Graded",
		fmt.Sprintf("Your submission for %q was graded %s.", a.Title, in.Grade),
		actor.ID,
		model.Related{Kind: model.RelatedAssignment, ID: a.ID},
		sub.Student,
	).High().WithExtra("grade", in.Grade)

	if student, err := s.users.FindByID(ctx, sub.Student); err == nil && student != nil && student.Email != "" {
		ev = ev.WithEmail(mailer.GradedJob(student.Email, student.Name, a.Title, in.Grade, in.Feedback, s.frontendURL))
	}

	return []event.Event{ev}, nil
}

// Delete removes an assignment. Only its creator or an admin may.
func (s *Service) Delete(ctx context.Context, actor *model.User, id primitive.ObjectID) error {
	a, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if a.CreatedBy != actor.ID && actor.Role != model.RoleAdmin {
		return apperr.Forbidden("not your assignment")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*model.Assignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("assignment not found")
	}
	return a, nil
}

func canView(viewer *model.User, a *model.Assignment) error {
	if viewer == nil {
		if a.IsActive {
			return nil
		}
		return apperr.NotFound("assignment not found")
	}
	switch viewer.Role {
	case model.RoleStudent:
		if viewer.Department == a.Department && viewer.Semester == a.Semester {
			return nil
		}
	case model.RoleAdmin:
		return nil
	default:
		if a.CreatedBy == viewer.ID {
			return nil
		}
	}
	return apperr.Forbidden("not allowed to view this assignment")
}
