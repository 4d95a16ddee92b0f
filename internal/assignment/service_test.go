package assignment

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

type fakeRepo struct {
	assignments map[primitive.ObjectID]*model.Assignment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{assignments: make(map[primitive.ObjectID]*model.Assignment)}
}

func (f *fakeRepo) Insert(_ context.Context, a *model.Assignment) error {
	a.ID = primitive.NewObjectID()
	cp := *a
	f.assignments[a.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Assignment, error) {
	if a, ok := f.assignments[id]; ok {
		cp := *a
		cp.Submissions = append([]model.Submission(nil), a.Submissions...)
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindForCohort(_ context.Context, department string, semester int, _ int64) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range f.assignments {
		if a.IsActive && a.Department == department && a.Semester == semester {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByCreator(_ context.Context, creator primitive.ObjectID, _ int64) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range f.assignments {
		if a.CreatedBy == creator {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindActive(_ context.Context, _ int64) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range f.assignments {
		if a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) AppendSubmission(_ context.Context, id primitive.ObjectID, sub model.Submission) error {
	f.assignments[id].Submissions = append(f.assignments[id].Submissions, sub)
	return nil
}

func (f *fakeRepo) GradeSubmission(_ context.Context, id, submissionID primitive.ObjectID, grade, feedback string, gradedBy primitive.ObjectID, gradedAt time.Time) error {
	sub := f.assignments[id].SubmissionByID(submissionID)
	sub.Grade = grade
	sub.Feedback = feedback
	sub.GradedBy = gradedBy
	sub.GradedAt = &gradedAt
	sub.Status = model.SubmissionGraded
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.assignments, id)
	return nil
}

type fakeDirectory struct {
	students []model.User
}

func (f *fakeDirectory) FindStudents(_ context.Context, department string, semester int) ([]model.User, error) {
	var out []model.User
	for _, u := range f.students {
		if u.Department == department && u.Semester == semester {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeDirectory) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	for _, u := range f.students {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func student(department string, semester int) *model.User {
	return &model.User{
		ID:         primitive.NewObjectID(),
		Name:       "Student",
		Email:      "student@test.test",
		Role:       model.RoleStudent,
		Department: department,
		Semester:   semester,
		IsActive:   true,
	}
}

func faculty(department string) *model.User {
	return &model.User{
		ID:         primitive.NewObjectID(),
		Name:       "Faculty",
		Email:      "faculty@test.test",
		Role:       model.RoleFaculty,
		Department: department,
		IsActive:   true,
	}
}

func newTestService(repo Repository, dir StudentDirectory, now time.Time) *Service {
	svc := NewService(repo, dir, "http://localhost:3000")
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateNotifiesCohort(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s1, s2 := student("CSE", 4), student("CSE", 4)
	other := student("ECE", 4)
	dir := &fakeDirectory{students: []model.User{*s1, *s2, *other}}
	svc := newTestService(newFakeRepo(), dir, now)
	fac := faculty("CSE")

	v, events, err := svc.Create(ctx, fac, CreateInput{
		Title:       "Graphs",
		Description: "BFS and DFS",
		Subject:     "Algorithms",
		Semester:    4,
		DueDate:     now.Add(72 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if v.Department != "CSE" {
		t.Errorf("department not defaulted from creator: %q", v.Department)
	}
	if v.Status != model.AssignmentPending {
		t.Errorf("Status = %v, want pending", v.Status)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != model.TypeNewAssignment {
		t.Errorf("event type = %q", ev.Type)
	}
	if len(ev.Recipients) != 2 {
		t.Errorf("len(Recipients) = %d, want 2 (cohort only)", len(ev.Recipients))
	}
}

func TestCreateRequiresStaff(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeDirectory{}, time.Now())
	_, _, err := svc.Create(context.Background(), student("CSE", 4), CreateInput{
		Title: "x", Description: "y", Subject: "z", DueDate: time.Now().Add(time.Hour),
	})
	if apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("Create() by student code = %v, want FORBIDDEN", apperr.CodeOf(err))
	}
}

func TestSubmitLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := student("CSE", 4)
	dir := &fakeDirectory{students: []model.User{*st}}
	repo := newFakeRepo()
	svc := newTestService(repo, dir, now)
	fac := faculty("CSE")

	v, _, err := svc.Create(ctx, fac, CreateInput{
		Title: "Graphs", Description: "d", Subject: "Algo", Semester: 4,
		DueDate: now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	sv, events, err := svc.Submit(ctx, st, v.ID, SubmitInput{FileURL: "/uploads/a.pdf", FileName: "a.pdf"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sv.Status != model.AssignmentSubmitted {
		t.Errorf("Status after submit = %v, want submitted", sv.Status)
	}
	if len(events) != 1 || events[0].Type != model.TypeAssignmentSubmitted {
		t.Fatalf("events = %+v, want one assignment_submitted", events)
	}
	if len(events[0].Recipients) != 1 || events[0].Recipients[0] != fac.ID {
		t.Errorf("submit event should target the creator")
	}

	// second submission
	if _, _, err := svc.Submit(ctx, st, v.ID, SubmitInput{FileURL: "/uploads/b.pdf"}); apperr.CodeOf(err) != apperr.CodeConflict {
		t.Errorf("duplicate Submit() code = %v, want CONFLICT", apperr.CodeOf(err))
	}
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := student("CSE", 4)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{}, now)
	fac := faculty("CSE")

	past, _, err := svc.Create(ctx, fac, CreateInput{
		Title: "Late", Description: "d", Subject: "Algo", Semester: 4,
		DueDate: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name  string
		actor *model.User
		id    primitive.ObjectID
		in    SubmitInput
		want  apperr.Code
	}{
		{"deadline passed", st, past.ID, SubmitInput{FileURL: "/uploads/a.pdf"}, apperr.CodeValidation},
		{"missing file", st, past.ID, SubmitInput{}, apperr.CodeValidation},
		{"faculty cannot submit", fac, past.ID, SubmitInput{FileURL: "/uploads/a.pdf"}, apperr.CodeForbidden},
		{"unknown assignment", st, primitive.NewObjectID(), SubmitInput{FileURL: "/uploads/a.pdf"}, apperr.CodeNotFound},
		{"wrong cohort", student("ECE", 2), past.ID, SubmitInput{FileURL: "/uploads/a.pdf"}, apperr.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Submit(ctx, tt.actor, tt.id, tt.in)
			if apperr.CodeOf(err) != tt.want {
				t.Errorf("Submit() code = %v, want %v", apperr.CodeOf(err), tt.want)
			}
		})
	}
}

func TestGrade(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := student("CSE", 4)
	dir := &fakeDirectory{students: []model.User{*st}}
	repo := newFakeRepo()
	svc := newTestService(repo, dir, now)
	fac := faculty("CSE")

	v, _, _ := svc.Create(ctx, fac, CreateInput{
		Title: "Graphs", Description: "d", Subject: "Algo", Semester: 4,
		DueDate: now.Add(24 * time.Hour),
	})
	sv, _, err := svc.Submit(ctx, st, v.ID, SubmitInput{FileURL: "/uploads/a.pdf"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	subID := sv.Submissions[0].ID

	if _, err := svc.Grade(ctx, fac, v.ID, subID, GradeInput{Grade: "A++"}); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("invalid grade code = %v, want VALIDATION", apperr.CodeOf(err))
	}
	if _, err := svc.Grade(ctx, faculty("CSE"), v.ID, subID, GradeInput{Grade: "A"}); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("grading someone else's assignment code = %v, want FORBIDDEN", apperr.CodeOf(err))
	}

	events, err := svc.Grade(ctx, fac, v.ID, subID, GradeInput{Grade: "A+", Feedback: "well done"})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != model.TypeAssignmentGraded || ev.Priority != model.PriorityHigh {
		t.Errorf("event = %+v, want high-priority assignment_graded", ev)
	}
	if len(ev.Emails) != 1 || ev.Emails[0].To != st.Email {
		t.Errorf("graded event should carry a mail job for the student")
	}

	stored, _ := repo.FindByID(ctx, v.ID)
	gv, err := svc.Get(ctx, st, v.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gv.Status != model.AssignmentGraded {
		t.Errorf("Status after grade = %v, want graded", gv.Status)
	}
	if stored.SubmissionByID(subID).Feedback != "well done" {
		t.Error("feedback not persisted")
	}
}

func TestListByRole(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{}, now)
	fac := faculty("CSE")
	otherFac := faculty("ECE")

	mustCreate := func(f *model.User, semester int) {
		t.Helper()
		if _, _, err := svc.Create(ctx, f, CreateInput{
			Title: "t", Description: "d", Subject: "s", Semester: semester,
			DueDate: now.Add(time.Hour),
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	mustCreate(fac, 4)
	mustCreate(fac, 2)
	mustCreate(otherFac, 4)

	got, err := svc.List(ctx, student("CSE", 4))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("student list = %d assignments, want 1 (own cohort)", len(got))
	}

	got, _ = svc.List(ctx, fac)
	if len(got) != 2 {
		t.Errorf("faculty list = %d assignments, want 2 (own)", len(got))
	}

	got, _ = svc.List(ctx, nil)
	if len(got) != 3 {
		t.Errorf("anonymous list = %d assignments, want 3 (all active)", len(got))
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{}, now)
	fac := faculty("CSE")

	v, _, _ := svc.Create(ctx, fac, CreateInput{
		Title: "t", Description: "d", Subject: "s", Semester: 4,
		DueDate: now.Add(time.Hour),
	})

	if err := svc.Delete(ctx, faculty("CSE"), v.ID); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("Delete() by non-creator code = %v, want FORBIDDEN", apperr.CodeOf(err))
	}
	admin := &model.User{ID: primitive.NewObjectID(), Role: model.RoleAdmin, IsActive: true}
	if err := svc.Delete(ctx, admin, v.ID); err != nil {
		t.Errorf("Delete() by admin error = %v", err)
	}
	if err := svc.Delete(ctx, fac, v.ID); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("Delete() missing code = %v, want NOT_FOUND", apperr.CodeOf(err))
	}
}
