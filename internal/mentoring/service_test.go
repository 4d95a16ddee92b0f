package mentoring

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/apperr"
	"github.com/NaseemShaik-Mic/CampusConnect/internal/model"
)

type fakeRepo struct {
	sessions map[primitive.ObjectID]*model.MentoringSession
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[primitive.ObjectID]*model.MentoringSession)}
}

func (f *fakeRepo) Insert(_ context.Context, m *model.MentoringSession) error {
	m.ID = primitive.NewObjectID()
	cp := *m
	f.sessions[m.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.MentoringSession, error) {
	if m, ok := f.sessions[id]; ok {
		cp := *m
		cp.Attendees = append([]model.Attendee(nil), m.Attendees...)
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindByFaculty(_ context.Context, faculty primitive.ObjectID) ([]model.MentoringSession, error) {
	var out []model.MentoringSession
	for _, m := range f.sessions {
		if m.Faculty == faculty {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByStudent(_ context.Context, student primitive.ObjectID) ([]model.MentoringSession, error) {
	var out []model.MentoringSession
	for _, m := range f.sessions {
		if m.Invited(student) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, m *model.MentoringSession) error {
	cp := *m
	f.sessions[m.ID] = &cp
	return nil
}

func (f *fakeRepo) SetAttended(_ context.Context, id, student primitive.ObjectID) error {
	if a := f.sessions[id].AttendeeOf(student); a != nil {
		a.Attended = true
	}
	return nil
}

func (f *fakeRepo) SetFeedback(_ context.Context, id, student primitive.ObjectID, feedback string) error {
	if a := f.sessions[id].AttendeeOf(student); a != nil {
		a.Feedback = feedback
	}
	return nil
}

func (f *fakeRepo) SetStatus(_ context.Context, id primitive.ObjectID, status model.MentoringStatus) error {
	f.sessions[id].Status = status
	return nil
}

type fakeDirectory struct {
	users []model.User
}

func (f *fakeDirectory) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func faculty() *model.User {
	return &model.User{ID: primitive.NewObjectID(), Name: "Mentor", Role: model.RoleFaculty, Department: "CSE", IsActive: true}
}

func student(name string) model.User {
	return model.User{
		ID: primitive.NewObjectID(), Name: name, Email: name + "@test.test",
		Role: model.RoleStudent, Department: "CSE", Semester: 4, IsActive: true,
	}
}

func newTestService(repo Repository, dir Directory, now time.Time) *Service {
	svc := NewService(repo, dir)
	svc.now = func() time.Time { return now }
	return svc
}

func createInput(when time.Time, students ...primitive.ObjectID) CreateInput {
	return CreateInput{
		Title:         "Career Guidance",
		Students:      students,
		ScheduledDate: when,
		Topic:         "Internships",
	}
}

func TestCreateSeedsAttendees(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s1, s2 := student("a"), student("b")
	dir := &fakeDirectory{users: []model.User{s1, s2}}
	svc := newTestService(newFakeRepo(), dir, now)
	fac := faculty()

	m, events, err := svc.Create(ctx, fac, createInput(now.Add(48*time.Hour), s1.ID, s2.ID))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(m.Attendees) != 2 {
		t.Fatalf("len(Attendees) = %d, want one slot per student", len(m.Attendees))
	}
	if m.Attendees[0].Attended || m.Attendees[0].Feedback != "" {
		t.Errorf("attendee slot not zeroed: %+v", m.Attendees[0])
	}
	if m.Status != model.MentoringScheduled {
		t.Errorf("Status = %v, want scheduled", m.Status)
	}
	if m.Duration != 60 {
		t.Errorf("Duration = %d, want the 60 minute default", m.Duration)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != model.TypeMentoringScheduled || ev.Priority != model.PriorityHigh {
		t.Errorf("event = %+v, want high-priority mentoring_scheduled", ev)
	}
	if len(ev.Recipients) != 2 || len(ev.Emails) != 2 {
		t.Errorf("fan-out = %d recipients / %d emails, want 2/2", len(ev.Recipients), len(ev.Emails))
	}

	if _, _, err := svc.Create(ctx, &s1, createInput(now, s2.ID)); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("student Create() code = %v, want FORBIDDEN", apperr.CodeOf(err))
	}
	if _, _, err := svc.Create(ctx, fac, createInput(now)); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("no students code = %v, want VALIDATION", apperr.CodeOf(err))
	}
}

func TestDerivedStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := student("a")
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{users: []model.User{st}}, now)
	fac := faculty()

	past, _, err := svc.Create(ctx, fac, createInput(now.Add(-time.Hour), st.ID))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if past.Status != model.MentoringExpired {
		t.Errorf("past session status = %v, want expired", past.Status)
	}
	stored, _ := repo.FindByID(ctx, past.ID)
	if stored.Status != model.MentoringScheduled {
		t.Errorf("stored status = %v, derivation must not be persisted", stored.Status)
	}

	got, err := svc.List(ctx, &st)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Status != model.MentoringExpired {
		t.Errorf("student list = %+v, want one expired session", got)
	}
}

func TestUpdateReschedulesAndNotifies(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := student("a")
	svc := newTestService(newFakeRepo(), &fakeDirectory{users: []model.User{st}}, now)
	fac := faculty()

	m, _, _ := svc.Create(ctx, fac, createInput(now.Add(48*time.Hour), st.ID))

	// a notes-only edit is silent
	notes := "bring resumes"
	_, events, err := svc.Update(ctx, fac, m.ID, UpdateInput{Notes: &notes})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("notes edit produced %d events, want 0", len(events))
	}

	// moving the date re-notifies
	newDate := now.Add(96 * time.Hour)
	updated, events, err := svc.Update(ctx, fac, m.ID, UpdateInput{ScheduledDate: &newDate})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.ScheduledDate.Equal(newDate) {
		t.Errorf("ScheduledDate = %v, want %v", updated.ScheduledDate, newDate)
	}
	if len(events) != 1 || events[0].Type != model.TypeMentoringUpdated {
		t.Fatalf("events = %+v, want one mentoring_updated", events)
	}

	if _, _, err := svc.Update(ctx, faculty(), m.ID, UpdateInput{Notes: &notes}); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("Update() by other faculty code = %v, want FORBIDDEN", apperr.CodeOf(err))
	}
}

func TestAttendanceAndFeedback(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := student("a")
	outsider := student("b")
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{users: []model.User{st}}, now)
	fac := faculty()

	m, _, _ := svc.Create(ctx, fac, createInput(now.Add(time.Hour), st.ID))

	if err := svc.MarkAttendance(ctx, &st, m.ID); err != nil {
		t.Fatalf("MarkAttendance() error = %v", err)
	}
	// idempotent
	if err := svc.MarkAttendance(ctx, &st, m.ID); err != nil {
		t.Fatalf("second MarkAttendance() error = %v", err)
	}
	if err := svc.MarkAttendance(ctx, &outsider, m.ID); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("uninvited MarkAttendance() code = %v, want FORBIDDEN", apperr.CodeOf(err))
	}

	if err := svc.Feedback(ctx, &st, m.ID, "very useful"); err != nil {
		t.Fatalf("Feedback() error = %v", err)
	}
	if err := svc.Feedback(ctx, &st, m.ID, "updated opinion"); err != nil {
		t.Fatalf("Feedback() overwrite error = %v", err)
	}
	if err := svc.Feedback(ctx, &st, m.ID, ""); apperr.CodeOf(err) != apperr.CodeValidation {
		t.Errorf("empty Feedback() code = %v, want VALIDATION", apperr.CodeOf(err))
	}
	if err := svc.Feedback(ctx, &outsider, m.ID, "hi"); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("uninvited Feedback() code = %v, want FORBIDDEN", apperr.CodeOf(err))
	}

	stored, _ := repo.FindByID(ctx, m.ID)
	slot := stored.AttendeeOf(st.ID)
	if !slot.Attended || slot.Feedback != "updated opinion" {
		t.Errorf("slot = %+v, want attended with overwritten feedback", slot)
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := student("a")
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeDirectory{users: []model.User{st}}, now)
	fac := faculty()

	m, _, _ := svc.Create(ctx, fac, createInput(now.Add(time.Hour), st.ID))

	events, err := svc.Cancel(ctx, fac, m.ID)
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != model.TypeMentoringCancelled || ev.Priority != model.PriorityHigh {
		t.Errorf("event = %+v, want high-priority mentoring_cancelled", ev)
	}
	if len(ev.Emails) != 1 || ev.Emails[0].To != st.Email {
		t.Error("cancel event should carry a mail job per invited student")
	}

	// terminal
	if _, err := svc.Cancel(ctx, fac, m.ID); apperr.CodeOf(err) != apperr.CodeConflict {
		t.Errorf("second Cancel() code = %v, want CONFLICT", apperr.CodeOf(err))
	}
	notes := "x"
	if _, _, err := svc.Update(ctx, fac, m.ID, UpdateInput{Notes: &notes}); apperr.CodeOf(err) != apperr.CodeConflict {
		t.Errorf("Update() after cancel code = %v, want CONFLICT", apperr.CodeOf(err))
	}

	stored, _ := repo.FindByID(ctx, m.ID)
	if stored.EffectiveStatus(now.Add(1000*time.Hour)) != model.MentoringCancelled {
		t.Error("cancelled must pass through derivation")
	}
}
