package attendance

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

type fakeRepo struct {
	sessions []model.Attendance
}

func tupleKey(a *model.Attendance) string {
	return a.Date.Format("2006-01-02") + "|" + a.Subject + "|" + a.Department + "|" + string(rune('0'+a.Semester)) + "|" + string(a.Session)
}

func (f *fakeRepo) Insert(_ context.Context, a *model.Attendance) error {
	for i := range f.sessions {
		if tupleKey(&f.sessions[i]) == tupleKey(a) {
			return ErrDuplicate
		}
	}
	a.ID = primitive.NewObjectID()
	f.sessions = append(f.sessions, *a)
	return nil
}

func (f *fakeRepo) FindForStudent(_ context.Context, student primitive.ObjectID) ([]model.Attendance, error) {
	var out []model.Attendance
	for _, s := range f.sessions {
		if s.RecordOf(student) != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByFaculty(_ context.Context, faculty primitive.ObjectID, _ int64) ([]model.Attendance, error) {
	var out []model.Attendance
	for _, s := range f.sessions {
		if s.Faculty == faculty {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindRecent(_ context.Context, limit int64) ([]model.Attendance, error) {
	out := append([]model.Attendance(nil), f.sessions...)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeDirectory struct {
	students []model.User
}

func (f *fakeDirectory) FindStudents(_ context.Context, department string, semester int) ([]model.User, error) {
	var out []model.User
	for _, u := range f.students {
		if u.Department == department && (semester == 0 || u.Semester == semester) {
			out = append(out, u)
		}
	}
	return out, nil
}

func faculty(department string) *model.User {
	return &model.User{ID: primitive.NewObjectID(), Name: "Faculty", Role: model.RoleFaculty, Department: department, IsActive: true}
}

func markInput(date time.Time, subject string, students ...primitive.ObjectID) MarkInput {
	in := MarkInput{Date: date, Subject: subject, Semester: 4, Session: model.Morning}
	for _, id := range students {
		in.Records = append(in.Records, RecordInput{Student: id, Status: model.Present})
	}
	return in
}

func TestMarkOnceThenConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{}, &fakeDirectory{})
	fac := faculty("CSE")
	day := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	st := primitive.NewObjectID()

	a, err := svc.Mark(ctx, fac, markInput(day, "Algorithms", st))
	if err != nil {
		t.Fatalf("Mark() error = %v", err)
	}
	if a.Department != "CSE" {
		t.Errorf("department not defaulted from actor: %q", a.Department)
	}
	if !a.Date.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date not normalized to midnight: %v", a.Date)
	}
	if a.Records[0].MarkedBy != fac.ID {
		t.Error("record not stamped with marking faculty")
	}

	// same tuple, different time of day
	later := markInput(day.Add(2*time.Hour), "Algorithms", st)
	if _, err := svc.Mark(ctx, fac, later); apperr.CodeOf(err) != apperr.CodeConflict {
		t.Errorf("second Mark() code = %v, want CONFLICT", apperr.CodeOf(err))
	}

	// afternoon session is a distinct tuple
	afternoon := markInput(day, "Algorithms", st)
	afternoon.Session = model.Afternoon
	if _, err := svc.Mark(ctx, fac, afternoon); err != nil {
		t.Errorf("afternoon Mark() error = %v", err)
	}
}

func TestMarkValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{}, &fakeDirectory{})
	fac := faculty("CSE")
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	st := primitive.NewObjectID()

	tests := []struct {
		name  string
		actor *model.User
		mut   func(*MarkInput)
		want  apperr.Code
	}{
		{"student cannot mark", &model.User{Role: model.RoleStudent}, func(*MarkInput) {}, apperr.CodeForbidden},
		{"bad session", fac, func(in *MarkInput) { in.Session = "evening" }, apperr.CodeValidation},
		{"no records", fac, func(in *MarkInput) { in.Records = nil }, apperr.CodeValidation},
		{"bad status", fac, func(in *MarkInput) { in.Records[0].Status = "sick" }, apperr.CodeValidation},
		{"bad semester", fac, func(in *MarkInput) { in.Semester = 9 }, apperr.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := markInput(day, "Algorithms", st)
			tt.mut(&in)
			if _, err := svc.Mark(ctx, tt.actor, in); apperr.CodeOf(err) != tt.want {
				t.Errorf("Mark() code = %v, want %v", apperr.CodeOf(err), tt.want)
			}
		})
	}
}

func TestListShapes(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeDirectory{})
	fac := faculty("CSE")
	st := primitive.NewObjectID()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Mark(ctx, fac, markInput(day, "Algorithms", st)); err != nil {
		t.Fatalf("Mark() error = %v", err)
	}
	if _, err := svc.Mark(ctx, fac, markInput(day.AddDate(0, 0, 1), "Networks", st)); err != nil {
		t.Fatalf("Mark() error = %v", err)
	}

	studentView, err := svc.List(ctx, &model.User{ID: st, Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(studentView.Entries) != 2 || studentView.Sessions != nil {
		t.Errorf("student listing = %+v, want 2 flattened entries", studentView)
	}
	if studentView.Entries[0].Status != model.Present {
		t.Errorf("entry status = %v", studentView.Entries[0].Status)
	}

	facultyView, _ := svc.List(ctx, fac)
	if len(facultyView.Sessions) != 2 || facultyView.Entries != nil {
		t.Errorf("faculty listing = %+v, want 2 sessions", facultyView)
	}

	anonView, _ := svc.List(ctx, nil)
	if len(anonView.Sessions) != 2 {
		t.Errorf("anonymous listing = %+v, want recent sessions", anonView)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeDirectory{})
	fac := faculty("CSE")
	st := primitive.NewObjectID()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mark := func(offset int, subject string, status model.AttendanceStatus) {
		t.Helper()
		in := markInput(day.AddDate(0, 0, offset), subject, st)
		in.Records[0].Status = status
		if _, err := svc.Mark(ctx, fac, in); err != nil {
			t.Fatalf("Mark() error = %v", err)
		}
	}
	mark(0, "Algorithms", model.Present)
	mark(1, "Algorithms", model.Absent)
	mark(2, "Algorithms", model.Late)
	mark(3, "Networks", model.Present)

	stats, err := svc.Stats(ctx, &model.User{ID: st, Role: model.RoleStudent}, primitive.NilObjectID)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalClasses != 4 || stats.PresentCount != 3 || stats.AbsentCount != 1 {
		t.Errorf("totals = %+v", stats)
	}
	if stats.OverallPercentage != "75.0" {
		t.Errorf("OverallPercentage = %q, want 75.0", stats.OverallPercentage)
	}
	if len(stats.SubjectWise) != 2 {
		t.Fatalf("SubjectWise = %+v, want 2 subjects", stats.SubjectWise)
	}
	for _, sub := range stats.SubjectWise {
		if sub.Subject == "Algorithms" && sub.Percentage != "66.7" {
			t.Errorf("Algorithms percentage = %q, want 66.7", sub.Percentage)
		}
	}

	// staff must name a student
	if _, err := svc.Stats(ctx, fac, primitive.NilObjectID); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("staff Stats() without student code = %v, want VALIDATION", apperr.CodeOf(err))
	}
	got, err := svc.Stats(ctx, fac, st)
	if err != nil || got.TotalClasses != 4 {
		t.Errorf("staff Stats() = %+v, %v", got, err)
	}

	// anonymous gets sample numbers
	demo, err := svc.Stats(ctx, nil, primitive.NilObjectID)
	if err != nil || demo.TotalClasses == 0 {
		t.Errorf("anonymous Stats() = %+v, %v", demo, err)
	}
}

func TestStudentsFor(t *testing.T) {
	ctx := context.Background()
	dir := &fakeDirectory{students: []model.User{
		{ID: primitive.NewObjectID(), Name: "A", Role: model.RoleStudent, Department: "CSE", Semester: 4, IsActive: true},
		{ID: primitive.NewObjectID(), Name: "B", Role: model.RoleStudent, Department: "ECE", Semester: 4, IsActive: true},
	}}
	svc := NewService(&fakeRepo{}, dir)

	got, err := svc.StudentsFor(ctx, faculty("CSE"), "", 4)
	if err != nil {
		t.Fatalf("StudentsFor() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "A" {
		t.Errorf("StudentsFor() = %+v, want the CSE student", got)
	}

	if _, err := svc.StudentsFor(ctx, &model.User{Role: model.RoleStudent}, "CSE", 4); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("student StudentsFor() code = %v, want FORBIDDEN", apperr.CodeOf(err))
	}
}
