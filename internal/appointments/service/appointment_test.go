package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apptserrors "medbook/internal/appointments/errors"
	apptvalidator "medbook/internal/appointments/validator"
	doctorserrors "medbook/internal/doctors/errors"
	mongotx "medbook/pkg/db/mongo"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/events"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

const (
	testDoctorID    = "507f1f77bcf86cd799439011"
	testSpecialtyID = "507f1f77bcf86cd799439022"
	testPatientID   = "507f1f77bcf86cd799439033"
)

// Mock repositories for testing
type mockAppointmentRepo struct {
	createFunc       func(ctx context.Context, appt *model.Appointment) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Appointment, error)
	deleteFunc       func(ctx context.Context, id string) error
	findByDoctorFunc func(ctx context.Context, doctorID string, date time.Time) ([]*model.Appointment, error)
	existsAtFunc     func(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (bool, error)
	findByPatient    func(ctx context.Context, patientID string) ([]*model.Appointment, error)
	findInRangeFunc  func(ctx context.Context, doctorIDs []string, from, to time.Time) ([]*model.Appointment, error)
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appt *model.Appointment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, appt)
	}
	appt.ID = "507f1f77bcf86cd799439099"
	return nil
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, apptserrors.ErrNotFound
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockAppointmentRepo) FindByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]*model.Appointment, error) {
	if m.findByDoctorFunc != nil {
		return m.findByDoctorFunc(ctx, doctorID, date)
	}
	return nil, nil
}

func (m *mockAppointmentRepo) ExistsAt(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (bool, error) {
	if m.existsAtFunc != nil {
		return m.existsAtFunc(ctx, doctorID, date, timeOfDay)
	}
	return false, nil
}

func (m *mockAppointmentRepo) FindByPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	if m.findByPatient != nil {
		return m.findByPatient(ctx, patientID)
	}
	return nil, nil
}

func (m *mockAppointmentRepo) FindByDoctorsInDateRange(ctx context.Context, doctorIDs []string, from, to time.Time) ([]*model.Appointment, error) {
	if m.findInRangeFunc != nil {
		return m.findInRangeFunc(ctx, doctorIDs, from, to)
	}
	return nil, nil
}

func (m *mockAppointmentRepo) FindByDate(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

func (m *mockAppointmentRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type mockDoctorRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Doctor, error)
}

func (m *mockDoctorRepo) Create(ctx context.Context, doctor *model.Doctor) error { return nil }

func (m *mockDoctorRepo) FindByID(ctx context.Context, id string) (*model.Doctor, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, doctorserrors.ErrDoctorNotFound
}

func (m *mockDoctorRepo) FindByFullName(ctx context.Context, fullName string) (*model.Doctor, error) {
	return nil, doctorserrors.ErrDoctorNotFound
}

func (m *mockDoctorRepo) FindBySpecialty(ctx context.Context, specialtyID string) ([]*model.Doctor, error) {
	return nil, nil
}

func (m *mockDoctorRepo) FindAll(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }
func (m *mockDoctorRepo) Delete(ctx context.Context, id string) error          { return nil }
func (m *mockDoctorRepo) CountBySpecialty(ctx context.Context, specialtyID string) (int64, error) {
	return 0, nil
}

type mockSpecialtyRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Specialty, error)
}

func (m *mockSpecialtyRepo) Create(ctx context.Context, specialty *model.Specialty) error {
	return nil
}

func (m *mockSpecialtyRepo) FindByID(ctx context.Context, id string) (*model.Specialty, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, doctorserrors.ErrSpecialtyNotFound
}

func (m *mockSpecialtyRepo) FindByName(ctx context.Context, name string) (*model.Specialty, error) {
	return nil, doctorserrors.ErrSpecialtyNotFound
}

func (m *mockSpecialtyRepo) FindAll(ctx context.Context) ([]*model.Specialty, error) {
	return nil, nil
}

func (m *mockSpecialtyRepo) Delete(ctx context.Context, id string) error { return nil }

type mockUserRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	return map[string]*model.User{}, nil
}

type mockResolver struct {
	resolveFunc func(ctx context.Context, ref string) (*model.Doctor, string, error)
}

func (m *mockResolver) Resolve(ctx context.Context, ref string) (*model.Doctor, string, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, ref)
	}
	return &model.Doctor{ID: testDoctorID, FullName: "Gregory House", SpecialtyID: testSpecialtyID}, testPatientID, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func newTestService(repo *mockAppointmentRepo) AppointmentService {
	log := testLogger()
	return NewAppointmentService(
		repo,
		&mockDoctorRepo{},
		&mockSpecialtyRepo{},
		&mockUserRepo{},
		&mockResolver{},
		apptvalidator.NewAppointmentValidator(log),
		events.NoopPublisher{},
		log,
	)
}

func futureAppointment(now time.Time) *model.Appointment {
	return &model.Appointment{
		DoctorID:  testDoctorID,
		PatientID: testPatientID,
		Date:      now.AddDate(0, 0, 1),
		TimeOfDay: "10:00",
	}
}

func TestCreate_Success(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(&mockAppointmentRepo{})

	created, err := svc.Create(context.Background(), futureAppointment(now), now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if created.Kind != model.KindBooked {
		t.Errorf("expected kind %q, got %q", model.KindBooked, created.Kind)
	}
	if created.ID == "" {
		t.Error("expected assigned ID")
	}
}

func TestCreate_InvalidTimeFormat(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(&mockAppointmentRepo{})

	appt := futureAppointment(now)
	appt.TimeOfDay = "9:00"

	_, err := svc.Create(context.Background(), appt, now)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected %s, got %v", apperrors.CodeInvalidInput, err)
	}
}

func TestCreate_PastMomentRejected(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	svc := newTestService(&mockAppointmentRepo{})

	appt := &model.Appointment{
		DoctorID:  testDoctorID,
		PatientID: testPatientID,
		Date:      now,
		TimeOfDay: "10:00",
	}

	_, err := svc.Create(context.Background(), appt, now)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

// A past date with a future-looking clock time must still be rejected: the
// decision is made on the combined moment.
func TestCreate_PastDateFutureTimeRejected(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(&mockAppointmentRepo{})

	appt := &model.Appointment{
		DoctorID:  testDoctorID,
		PatientID: testPatientID,
		Date:      now.AddDate(0, 0, -1),
		TimeOfDay: "23:30",
	}

	_, err := svc.Create(context.Background(), appt, now)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestCreate_SlotTaken(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(&mockAppointmentRepo{
		existsAtFunc: func(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (bool, error) {
			return true, nil
		},
	})

	_, err := svc.Create(context.Background(), futureAppointment(now), now)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}

// The unique index can reject an insert that raced past the occupancy check;
// that duplicate key surfaces as the same conflict.
func TestCreate_DuplicateKeyRace(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(&mockAppointmentRepo{
		createFunc: func(ctx context.Context, appt *model.Appointment) error {
			return apptserrors.ErrSlotTaken
		},
	})

	_, err := svc.Create(context.Background(), futureAppointment(now), now)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(&mockAppointmentRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return nil, apptserrors.ErrNotFound
		},
	})

	err := svc.Cancel(context.Background(), "507f1f77bcf86cd799439099")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestCancel_Success(t *testing.T) {
	deleted := ""
	svc := newTestService(&mockAppointmentRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Appointment, error) {
			return &model.Appointment{ID: id, DoctorID: testDoctorID, Kind: model.KindBooked}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	})

	if err := svc.Cancel(context.Background(), "507f1f77bcf86cd799439099"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if deleted != "507f1f77bcf86cd799439099" {
		t.Errorf("expected delete of requested id, got %q", deleted)
	}
}

// Occupied slots must include schedule locks: a caller cannot distinguish a
// blocked slot from a booked one.
func TestOccupiedTimes_IncludesBlockedRows(t *testing.T) {
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	svc := newTestService(&mockAppointmentRepo{
		findByDoctorFunc: func(ctx context.Context, doctorID string, d time.Time) ([]*model.Appointment, error) {
			return []*model.Appointment{
				{TimeOfDay: "09:00", Kind: model.KindBooked},
				{TimeOfDay: "13:30", Kind: model.KindBlocked},
				{TimeOfDay: "14:00", Kind: model.KindBlocked},
			}, nil
		},
	})

	times, err := svc.OccupiedTimes(context.Background(), testDoctorID, date)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	want := []string{"09:00", "13:30", "14:00"}
	if len(times) != len(want) {
		t.Fatalf("expected %d times, got %d", len(want), len(times))
	}
	for i, w := range want {
		if times[i] != w {
			t.Errorf("times[%d]: expected %q, got %q", i, w, times[i])
		}
	}
}

func TestWeeklyStats_ExcludesBlockedRows(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC) // a Wednesday
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	svc := newTestService(&mockAppointmentRepo{
		findInRangeFunc: func(ctx context.Context, doctorIDs []string, from, to time.Time) ([]*model.Appointment, error) {
			if !from.Equal(monday) {
				t.Errorf("expected week start %v, got %v", monday, from)
			}
			return []*model.Appointment{
				{Date: monday, TimeOfDay: "09:00", Kind: model.KindBooked},
				{Date: monday, TimeOfDay: "09:30", Kind: model.KindBlocked},
				{Date: monday.AddDate(0, 0, 2), TimeOfDay: "10:00", Kind: model.KindBooked},
			}, nil
		},
	})

	stats, err := svc.WeeklyStats(context.Background(), testDoctorID, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(stats.Days) != 6 {
		t.Fatalf("expected 6 days Monday..Saturday, got %d", len(stats.Days))
	}
	if stats.Days[0].Count != 1 {
		t.Errorf("Monday: expected 1 booking (lock excluded), got %d", stats.Days[0].Count)
	}
	if stats.Days[2].Count != 1 {
		t.Errorf("Wednesday: expected 1 booking, got %d", stats.Days[2].Count)
	}
}

func TestWeeklyStats_DoctorNotFound(t *testing.T) {
	log := testLogger()
	svc := NewAppointmentService(
		&mockAppointmentRepo{},
		&mockDoctorRepo{},
		&mockSpecialtyRepo{},
		&mockUserRepo{},
		&mockResolver{
			resolveFunc: func(ctx context.Context, ref string) (*model.Doctor, string, error) {
				return nil, "", doctorserrors.ErrDoctorNotFound
			},
		},
		apptvalidator.NewAppointmentValidator(log),
		events.NoopPublisher{},
		log,
	)

	_, err := svc.WeeklyStats(context.Background(), "nobody", time.Now())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestListByPatient_MarksPastAppointments(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	log := testLogger()
	svc := NewAppointmentService(
		&mockAppointmentRepo{
			findByPatient: func(ctx context.Context, patientID string) ([]*model.Appointment, error) {
				return []*model.Appointment{
					{ID: "a1", DoctorID: testDoctorID, Date: now.AddDate(0, 0, 1), TimeOfDay: "09:00", Kind: model.KindBooked},
					{ID: "a2", DoctorID: testDoctorID, Date: now.AddDate(0, 0, -1), TimeOfDay: "09:00", Kind: model.KindBooked},
				}, nil
			},
		},
		&mockDoctorRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Doctor, error) {
				return &model.Doctor{ID: id, FullName: "Gregory House", SpecialtyID: testSpecialtyID}, nil
			},
		},
		&mockSpecialtyRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Specialty, error) {
				return &model.Specialty{ID: id, Name: "Diagnostics"}, nil
			},
		},
		&mockUserRepo{},
		&mockResolver{},
		apptvalidator.NewAppointmentValidator(log),
		events.NoopPublisher{},
		log,
	)

	details, err := svc.ListByPatient(context.Background(), testPatientID, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
	if details[0].IsPast {
		t.Error("future appointment marked past")
	}
	if !details[1].IsPast {
		t.Error("past appointment not marked past")
	}
	if details[0].DoctorName != "Gregory House" || details[0].SpecialtyName != "Diagnostics" {
		t.Errorf("unexpected projection: %+v", details[0])
	}
}

// Far out, the reserved morning pair is only offered to seniors; the rest of
// the grid is open to everyone.
func TestAvailableTimes_SeniorSeesReservedSlots(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 0, 7)
	log := testLogger()

	repo := &mockAppointmentRepo{
		findByDoctorFunc: func(ctx context.Context, doctorID string, d time.Time) ([]*model.Appointment, error) {
			return []*model.Appointment{{TimeOfDay: "10:00", Kind: model.KindBooked}}, nil
		},
	}
	newSvc := func(birthYear int) AppointmentService {
		return NewAppointmentService(
			repo,
			&mockDoctorRepo{},
			&mockSpecialtyRepo{},
			&mockUserRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
					return &model.User{ID: id, FullName: "Pat", BirthYear: birthYear}, nil
				},
			},
			&mockResolver{},
			apptvalidator.NewAppointmentValidator(log),
			events.NoopPublisher{},
			log,
		)
	}

	senior, err := newSvc(1950).AvailableTimes(context.Background(), testDoctorID, testPatientID, date, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	regular, err := newSvc(1990).AvailableTimes(context.Background(), testDoctorID, testPatientID, date, now)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if !contains(senior, "09:00") || !contains(senior, "09:30") {
		t.Errorf("senior should see reserved morning slots, got %v", senior)
	}
	if contains(regular, "09:00") || contains(regular, "09:30") {
		t.Errorf("regular patient should not see reserved slots a week out, got %v", regular)
	}
	if contains(senior, "10:00") || contains(regular, "10:00") {
		t.Error("occupied slot offered as available")
	}
	if !contains(regular, "10:30") {
		t.Errorf("open slot missing from regular view, got %v", regular)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestCreate_RepositoryFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := newTestService(&mockAppointmentRepo{
		createFunc: func(ctx context.Context, appt *model.Appointment) error {
			return errors.New("connection reset")
		},
	})

	_, err := svc.Create(context.Background(), futureAppointment(now), now)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInternal {
		t.Fatalf("expected %s, got %v", apperrors.CodeInternal, err)
	}
}
