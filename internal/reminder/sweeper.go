// Package reminder mails patients about their appointments for the day. The
// sweeper wakes at local midnight, walks the day's bookings, and goes back to
// sleep for 24 hours.
package reminder

import (
	"context"
	"time"

	apptsrepo "medbook/internal/appointments/repository"
	doctorsrepo "medbook/internal/doctors/repository"
	usersrepo "medbook/internal/users/repository"
	"medbook/pkg/logger"
	"medbook/pkg/mailer"
)

type Sweeper struct {
	appts       apptsrepo.AppointmentRepository
	doctors     doctorsrepo.DoctorRepository
	specialties doctorsrepo.SpecialtyRepository
	users       usersrepo.UserRepository
	notifier    mailer.Notifier
	log         *logger.Logger
}

func NewSweeper(
	appts apptsrepo.AppointmentRepository,
	doctors doctorsrepo.DoctorRepository,
	specialties doctorsrepo.SpecialtyRepository,
	users usersrepo.UserRepository,
	notifier mailer.Notifier,
	log *logger.Logger,
) *Sweeper {
	return &Sweeper{
		appts:       appts,
		doctors:     doctors,
		specialties: specialties,
		users:       users,
		notifier:    notifier,
		log:         log,
	}
}

// Run blocks until ctx is cancelled, sweeping once per midnight.
func (s *Sweeper) Run(ctx context.Context) {
	for {
		wait := untilNextMidnight(time.Now())
		s.log.Info("Reminder sweeper sleeping", "until_next_sweep", wait.Round(time.Second).String())

		select {
		case <-ctx.Done():
			s.log.Info("Reminder sweeper stopping")
			return
		case <-time.After(wait):
		}

		if err := s.Sweep(ctx, time.Now()); err != nil {
			s.log.Error("Reminder sweep failed", "error", err)
		}
	}
}

// Sweep mails every booked appointment of now's calendar day. Mail failures
// are absorbed per recipient; only repository failures abort the sweep.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) error {
	appts, err := s.appts.FindByDate(ctx, now)
	if err != nil {
		return err
	}

	sent := 0
	for _, a := range appts {
		if a.IsBlock() {
			continue
		}

		patient, err := s.users.FindByID(ctx, a.PatientID)
		if err != nil {
			s.log.Debug("Skipping reminder, patient not found", "patient_id", a.PatientID)
			continue
		}
		if patient.Email == "" {
			continue
		}

		doctorName, specialtyName := s.describeDoctor(ctx, a.DoctorID)

		s.notifier.Notify(ctx, mailer.Message{
			To:      patient.Email,
			ToName:  patient.FullName,
			Subject: mailer.ReminderSubject,
			HTML: mailer.ReminderHTML(
				a.Date.Format("2006-01-02"),
				a.TimeOfDay,
				doctorName,
				specialtyName,
			),
		})
		sent++
	}

	s.log.Info("Reminder sweep done", "date", now.Format("2006-01-02"), "reminders", sent)
	return nil
}

func (s *Sweeper) describeDoctor(ctx context.Context, doctorID string) (string, string) {
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		return "", ""
	}
	specialty, err := s.specialties.FindByID(ctx, doctor.SpecialtyID)
	if err != nil {
		return doctor.FullName, ""
	}
	return doctor.FullName, specialty.Name
}

func untilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}
