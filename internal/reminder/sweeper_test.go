package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	doctorserrors "medbook/internal/doctors/errors"
	userserrors "medbook/internal/users/errors"
	mongotx "medbook/pkg/db/mongo"
	"medbook/pkg/logger"
	"medbook/pkg/mailer"
	"medbook/pkg/model"
)

type mockApptRepo struct {
	byDate []*model.Appointment
}

func (m *mockApptRepo) Create(ctx context.Context, appt *model.Appointment) error { return nil }
func (m *mockApptRepo) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	return nil, nil
}
func (m *mockApptRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockApptRepo) FindByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (m *mockApptRepo) ExistsAt(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (bool, error) {
	return false, nil
}
func (m *mockApptRepo) FindByPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	return nil, nil
}
func (m *mockApptRepo) FindByDoctorsInDateRange(ctx context.Context, doctorIDs []string, from, to time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (m *mockApptRepo) FindByDate(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	return m.byDate, nil
}
func (m *mockApptRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type mockDoctorRepo struct{}

func (mockDoctorRepo) Create(ctx context.Context, doctor *model.Doctor) error { return nil }
func (mockDoctorRepo) FindByID(ctx context.Context, id string) (*model.Doctor, error) {
	return &model.Doctor{ID: id, FullName: "Gregory House", SpecialtyID: "sp1"}, nil
}
func (mockDoctorRepo) FindByFullName(ctx context.Context, fullName string) (*model.Doctor, error) {
	return nil, doctorserrors.ErrDoctorNotFound
}
func (mockDoctorRepo) FindBySpecialty(ctx context.Context, specialtyID string) ([]*model.Doctor, error) {
	return nil, nil
}
func (mockDoctorRepo) FindAll(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }
func (mockDoctorRepo) Delete(ctx context.Context, id string) error          { return nil }
func (mockDoctorRepo) CountBySpecialty(ctx context.Context, specialtyID string) (int64, error) {
	return 0, nil
}

type mockSpecialtyRepo struct{}

func (mockSpecialtyRepo) Create(ctx context.Context, specialty *model.Specialty) error { return nil }
func (mockSpecialtyRepo) FindByID(ctx context.Context, id string) (*model.Specialty, error) {
	return &model.Specialty{ID: id, Name: "Diagnostics"}, nil
}
func (mockSpecialtyRepo) FindByName(ctx context.Context, name string) (*model.Specialty, error) {
	return nil, doctorserrors.ErrSpecialtyNotFound
}
func (mockSpecialtyRepo) FindAll(ctx context.Context) ([]*model.Specialty, error) { return nil, nil }
func (mockSpecialtyRepo) Delete(ctx context.Context, id string) error             { return nil }

type mockUserRepo struct {
	users map[string]*model.User
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	return m.users, nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (r *recordingSender) Send(ctx context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func TestSweep_MailsBookedOnly(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	now := time.Date(2026, 3, 12, 0, 0, 5, 0, time.UTC)
	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	appts := &mockApptRepo{byDate: []*model.Appointment{
		{ID: "a1", DoctorID: "d1", PatientID: "p1", Date: day, TimeOfDay: "09:00", Kind: model.KindBooked},
		{ID: "a2", DoctorID: "d1", PatientID: "owner", Date: day, TimeOfDay: "13:00", Kind: model.KindBlocked},
		{ID: "a3", DoctorID: "d1", PatientID: "p2", Date: day, TimeOfDay: "10:00", Kind: model.KindBooked},
		{ID: "a4", DoctorID: "d1", PatientID: "p3", Date: day, TimeOfDay: "11:00", Kind: model.KindBooked},
	}}

	users := &mockUserRepo{users: map[string]*model.User{
		"p1": {ID: "p1", FullName: "John Doe", Email: "john@example.com"},
		"p2": {ID: "p2", FullName: "Jane Roe", Email: ""}, // no email, skipped
		"p3": {ID: "p3", FullName: "Max Mustermann", Email: "max@example.com"},
	}}

	sender := &recordingSender{}
	sweeper := NewSweeper(appts, mockDoctorRepo{}, mockSpecialtyRepo{}, users, mailer.NewNotifier(sender, log), log)

	if err := sweeper.Sweep(context.Background(), now); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 reminders, got %d: %v", len(sender.sent), recipients(sender.sent))
	}
	got := recipients(sender.sent)
	if got[0] != "john@example.com" || got[1] != "max@example.com" {
		t.Errorf("unexpected recipients: %v", got)
	}
}

func recipients(msgs []mailer.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.To)
	}
	return out
}

func TestUntilNextMidnight(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Duration
	}{
		{time.Date(2026, 3, 12, 23, 0, 0, 0, time.UTC), time.Hour},
		{time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), 24 * time.Hour},
		{time.Date(2026, 3, 12, 12, 30, 0, 0, time.UTC), 11*time.Hour + 30*time.Minute},
	}
	for _, tc := range cases {
		if got := untilNextMidnight(tc.now); got != tc.want {
			t.Errorf("untilNextMidnight(%v) = %v, want %v", tc.now, got, tc.want)
		}
	}
}
