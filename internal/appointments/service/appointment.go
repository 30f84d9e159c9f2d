package service

import (
	"context"
	"errors"
	"time"

	apptserrors "medbook/internal/appointments/errors"
	"medbook/internal/appointments/repository"
	apptvalidator "medbook/internal/appointments/validator"
	doctorserrors "medbook/internal/doctors/errors"
	doctorsrepo "medbook/internal/doctors/repository"
	doctorssvc "medbook/internal/doctors/service"
	usersrepo "medbook/internal/users/repository"
	"medbook/pkg/availability"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/events"
	"medbook/pkg/logger"
	"medbook/pkg/model"
	"medbook/pkg/slot"
)

// AppointmentService is the reservation engine: it owns slot acquisition,
// release, and occupancy reads.
type AppointmentService interface {
	Create(ctx context.Context, appt *model.Appointment, now time.Time) (*model.Appointment, error)
	Cancel(ctx context.Context, id string) error
	OccupiedTimes(ctx context.Context, doctorID string, date time.Time) ([]string, error)
	AvailableTimes(ctx context.Context, doctorID, patientID string, date time.Time, now time.Time) ([]string, error)
	ListByPatient(ctx context.Context, patientID string, now time.Time) ([]model.AppointmentDetail, error)
	DayStats(ctx context.Context, doctorRef string, now time.Time) (*DayStats, error)
	WeeklyStats(ctx context.Context, doctorRef string, now time.Time) (*WeeklyStats, error)
}

// DayStats counts a doctor's real bookings for a single day.
type DayStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// WeeklyStats covers the working week, Monday through Saturday.
type WeeklyStats struct {
	From string     `json:"from"`
	To   string     `json:"to"`
	Days []DayStats `json:"days"`
}

type appointmentService struct {
	repo        repository.AppointmentRepository
	doctors     doctorsrepo.DoctorRepository
	specialties doctorsrepo.SpecialtyRepository
	users       usersrepo.UserRepository
	resolver    doctorssvc.DoctorResolver
	validator   *apptvalidator.AppointmentValidator
	publisher   events.Publisher
	log         *logger.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	doctors doctorsrepo.DoctorRepository,
	specialties doctorsrepo.SpecialtyRepository,
	users usersrepo.UserRepository,
	resolver doctorssvc.DoctorResolver,
	validator *apptvalidator.AppointmentValidator,
	publisher events.Publisher,
	log *logger.Logger,
) AppointmentService {
	return &appointmentService{
		repo:        repo,
		doctors:     doctors,
		specialties: specialties,
		users:       users,
		resolver:    resolver,
		validator:   validator,
		publisher:   publisher,
		log:         log,
	}
}

// Create books a slot for a patient. The time of day must parse as HH:mm,
// the combined moment must lie in the future, and the slot must be free.
// The unique index on (doctor_id, date, time_of_day) backstops the
// pre-insert occupancy check under concurrent requests.
func (s *appointmentService) Create(ctx context.Context, appt *model.Appointment, now time.Time) (*model.Appointment, error) {
	appt.Kind = model.KindBooked

	moment, err := slot.At(appt.Date, appt.TimeOfDay)
	if err != nil {
		return nil, apperrors.InvalidInput("time of day must be in HH:mm format")
	}

	if err := s.validator.Validate(appt); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}
	if !moment.After(now) {
		return nil, apperrors.Validation("appointment time is in the past", map[string]any{
			"date": appt.Date.Format("2006-01-02"),
			"time": appt.TimeOfDay,
		})
	}

	err = s.repo.ExecuteTransaction(ctx, func(sc context.Context) error {
		taken, err := s.repo.ExistsAt(sc, appt.DoctorID, appt.Date, appt.TimeOfDay)
		if err != nil {
			return err
		}
		if taken {
			return apptserrors.ErrSlotTaken
		}
		return s.repo.Create(sc, appt)
	})
	if err != nil {
		if errors.Is(err, apptserrors.ErrSlotTaken) {
			return nil, apperrors.Conflict("slot is already taken")
		}
		return nil, apperrors.Internal("failed to create appointment", err)
	}

	s.log.Info("Appointment created",
		"appointment_id", appt.ID,
		"doctor_id", appt.DoctorID,
		"date", appt.Date.Format("2006-01-02"),
		"time_of_day", appt.TimeOfDay,
	)
	s.publisher.AppointmentCreated(ctx, appt)

	return appt, nil
}

func (s *appointmentService) Cancel(ctx context.Context, id string) error {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptserrors.ErrNotFound) || errors.Is(err, apptserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("appointment", id)
		}
		return apperrors.Internal("failed to load appointment", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apptserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("appointment", id)
		}
		return apperrors.Internal("failed to cancel appointment", err)
	}

	s.log.Info("Appointment cancelled", "appointment_id", id, "doctor_id", appt.DoctorID)
	s.publisher.AppointmentCancelled(ctx, appt)

	return nil
}

// OccupiedTimes returns the raw time-of-day of every row on the doctor's
// day, schedule locks included. Callers cannot tell a lock from a booking,
// which is exactly the point.
func (s *appointmentService) OccupiedTimes(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	appts, err := s.repo.FindByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, apperrors.Internal("failed to load occupied slots", err)
	}

	times := make([]string, 0, len(appts))
	for _, a := range appts {
		times = append(times, a.TimeOfDay)
	}
	return times, nil
}

// AvailableTimes returns the standard slots the given patient could book on
// the doctor's day. Seniors see the reserved morning slots ahead of the
// priority window; everyone else only inside it.
func (s *appointmentService) AvailableTimes(ctx context.Context, doctorID, patientID string, date time.Time, now time.Time) ([]string, error) {
	occupied, err := s.OccupiedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := availability.OccupiedSet(occupied)

	senior := false
	if patient, err := s.users.FindByID(ctx, patientID); err == nil {
		senior = patient.IsSenior(now.Year())
	}

	open := make([]string, 0, len(slot.StandardTimes))
	for _, timeOfDay := range slot.StandardTimes {
		if availability.IsBookable(date, timeOfDay, taken, now, senior) {
			open = append(open, timeOfDay)
		}
	}
	return open, nil
}

func (s *appointmentService) ListByPatient(ctx context.Context, patientID string, now time.Time) ([]model.AppointmentDetail, error) {
	appts, err := s.repo.FindByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal("failed to load appointments", err)
	}

	details := make([]model.AppointmentDetail, 0, len(appts))
	for _, a := range appts {
		detail := model.AppointmentDetail{
			ID:   a.ID,
			Date: a.Date.Format("2006-01-02"),
			Time: a.TimeOfDay,
		}

		if moment, err := slot.At(a.Date, a.TimeOfDay); err == nil {
			detail.IsPast = !moment.After(now)
		}

		doctor, err := s.doctors.FindByID(ctx, a.DoctorID)
		if err != nil {
			if !errors.Is(err, doctorserrors.ErrDoctorNotFound) && !errors.Is(err, doctorserrors.ErrInvalidID) {
				return nil, apperrors.Internal("failed to load doctor", err)
			}
			details = append(details, detail)
			continue
		}
		detail.DoctorName = doctor.FullName

		if specialty, err := s.specialties.FindByID(ctx, doctor.SpecialtyID); err == nil {
			detail.SpecialtyName = specialty.Name
		}

		details = append(details, detail)
	}

	return details, nil
}

func (s *appointmentService) DayStats(ctx context.Context, doctorRef string, now time.Time) (*DayStats, error) {
	doctor, _, err := s.resolver.Resolve(ctx, doctorRef)
	if err != nil {
		return nil, mapResolveError(err)
	}

	appts, err := s.repo.FindByDoctorAndDate(ctx, doctor.ID, now)
	if err != nil {
		return nil, apperrors.Internal("failed to load appointments", err)
	}

	return &DayStats{
		Date:  slot.Midnight(now).Format("2006-01-02"),
		Count: countBooked(appts),
	}, nil
}

// WeeklyStats reports per-day booking counts for the Monday..Saturday week
// containing now. Schedule locks are excluded from every count.
func (s *appointmentService) WeeklyStats(ctx context.Context, doctorRef string, now time.Time) (*WeeklyStats, error) {
	doctor, _, err := s.resolver.Resolve(ctx, doctorRef)
	if err != nil {
		return nil, mapResolveError(err)
	}

	monday := weekStart(now)
	saturday := monday.AddDate(0, 0, 5)

	appts, err := s.repo.FindByDoctorsInDateRange(ctx, []string{doctor.ID}, monday, saturday)
	if err != nil {
		return nil, apperrors.Internal("failed to load appointments", err)
	}

	perDay := make(map[string]int, 6)
	for _, a := range appts {
		if a.IsBlock() {
			continue
		}
		perDay[a.Date.Format("2006-01-02")]++
	}

	stats := &WeeklyStats{
		From: monday.Format("2006-01-02"),
		To:   saturday.Format("2006-01-02"),
		Days: make([]DayStats, 0, 6),
	}
	for i := 0; i < 6; i++ {
		day := monday.AddDate(0, 0, i).Format("2006-01-02")
		stats.Days = append(stats.Days, DayStats{Date: day, Count: perDay[day]})
	}

	return stats, nil
}

func countBooked(appts []*model.Appointment) int {
	count := 0
	for _, a := range appts {
		if !a.IsBlock() {
			count++
		}
	}
	return count
}

// weekStart returns midnight of the Monday of now's week.
func weekStart(now time.Time) time.Time {
	day := slot.Midnight(now)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func mapResolveError(err error) error {
	if errors.Is(err, doctorserrors.ErrDoctorNotFound) {
		return apperrors.NotFound("doctor")
	}
	return apperrors.Internal("failed to resolve doctor", err)
}
