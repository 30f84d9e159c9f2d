// Package service implements doctor-initiated schedule blocking. A block
// materializes placeholder rows in the appointments collection so that the
// slots look occupied to every booking path without any extra read.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apptserrors "medbook/internal/appointments/errors"
	"medbook/internal/appointments/repository"
	doctorserrors "medbook/internal/doctors/errors"
	doctorsrepo "medbook/internal/doctors/repository"
	doctorssvc "medbook/internal/doctors/service"
	usersrepo "medbook/internal/users/repository"
	"medbook/pkg/config"
	mongotx "medbook/pkg/db/mongo"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/events"
	"medbook/pkg/logger"
	"medbook/pkg/mailer"
	"medbook/pkg/model"
	"medbook/pkg/slot"
)

type BlockService interface {
	BlockRange(ctx context.Context, doctorRef string, date time.Time, start, end string, now time.Time) (int, error)
	BlockAfternoon(ctx context.Context, doctorRef string, now time.Time) (int, error)
	Unblock(ctx context.Context, doctorRef string, date time.Time, start, end string) (int, error)
}

type blockService struct {
	cfg         *config.Config
	appts       repository.AppointmentRepository
	locks       repository.SlotLockRepository
	resolver    doctorssvc.DoctorResolver
	users       usersrepo.UserRepository
	specialties doctorsrepo.SpecialtyRepository
	notifier    mailer.Notifier
	publisher   events.Publisher
	log         *logger.Logger
}

func NewBlockService(
	cfg *config.Config,
	appts repository.AppointmentRepository,
	locks repository.SlotLockRepository,
	resolver doctorssvc.DoctorResolver,
	users usersrepo.UserRepository,
	specialties doctorsrepo.SpecialtyRepository,
	notifier mailer.Notifier,
	publisher events.Publisher,
	log *logger.Logger,
) BlockService {
	return &blockService{
		cfg:         cfg,
		appts:       appts,
		locks:       locks,
		resolver:    resolver,
		users:       users,
		specialties: specialties,
		notifier:    notifier,
		publisher:   publisher,
		log:         log,
	}
}

// BlockRange locks every 15-minute slot between start and end inclusive.
// Real bookings in the way are removed and their patients emailed; the
// caller's own placeholders are replaced silently, so re-blocking an
// overlapping range is idempotent. Purge and insert run inside one
// transaction under a per-doctor-day advisory lock.
func (s *blockService) BlockRange(ctx context.Context, doctorRef string, date time.Time, start, end string, now time.Time) (int, error) {
	slots, err := slot.QuantizeRange(start, end, slot.FineStep)
	if err != nil {
		return 0, apperrors.InvalidInput("time range must be in HH:mm format")
	}
	if len(slots) == 0 {
		return 0, apperrors.InvalidInput("end time precedes start time")
	}

	doctor, ownerID, err := s.resolver.Resolve(ctx, doctorRef)
	if err != nil {
		return 0, mapResolveError(err)
	}

	return s.applyBlock(ctx, doctor, ownerID, date, slots)
}

// BlockAfternoon blocks the whole afternoon grid of the current day.
func (s *blockService) BlockAfternoon(ctx context.Context, doctorRef string, now time.Time) (int, error) {
	doctor, ownerID, err := s.resolver.Resolve(ctx, doctorRef)
	if err != nil {
		return 0, mapResolveError(err)
	}

	return s.applyBlock(ctx, doctor, ownerID, now, slot.Afternoon())
}

func (s *blockService) applyBlock(ctx context.Context, doctor *model.Doctor, ownerID string, date time.Time, slots []string) (int, error) {
	day := slot.Midnight(date)

	unlock, err := s.acquireDayLock(ctx, doctor.ID, day)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var displaced []*model.Appointment
	err = s.appts.ExecuteTransaction(ctx, func(sc context.Context) error {
		// Rebuilt per attempt: mongo may retry the transaction callback.
		displaced = displaced[:0]
		wanted := make(map[string]bool, len(slots))
		for _, t := range slots {
			wanted[t] = true
		}

		existing, err := s.appts.FindByDoctorAndDate(sc, doctor.ID, day)
		if err != nil {
			return err
		}

		for _, a := range existing {
			if !wanted[a.TimeOfDay] {
				continue
			}
			if a.IsBlock() && a.PatientID != ownerID {
				// Another owner already holds the slot; leave it alone and
				// skip re-inserting it.
				delete(wanted, a.TimeOfDay)
				continue
			}
			if err := s.appts.Delete(sc, a.ID); err != nil {
				return err
			}
			if !a.IsBlock() {
				displaced = append(displaced, a)
			}
		}

		for _, t := range slots {
			if !wanted[t] {
				continue
			}
			placeholder := &model.Appointment{
				DoctorID:  doctor.ID,
				PatientID: ownerID,
				Date:      day,
				TimeOfDay: t,
				Kind:      model.KindBlocked,
			}
			if err := s.appts.Create(sc, placeholder); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apptserrors.ErrSlotTaken) {
			// A booking raced in between the day read and the placeholder
			// insert despite the advisory lock.
			return 0, apperrors.Conflict("slot is already taken")
		}
		if apperrors.IsAppError(err) {
			return 0, err
		}
		return 0, apperrors.Internal("failed to block schedule", err)
	}

	s.notifyDisplaced(ctx, doctor, displaced)

	s.log.Info("Schedule blocked",
		"doctor_id", doctor.ID,
		"date", day.Format("2006-01-02"),
		"slots", len(slots),
		"displaced", len(displaced),
	)
	s.publisher.ScheduleBlocked(ctx, doctor.ID, day, slots, len(displaced))

	return len(displaced), nil
}

// Unblock removes placeholders in the range that belong to the caller.
// Bookings and other owners' placeholders survive untouched.
func (s *blockService) Unblock(ctx context.Context, doctorRef string, date time.Time, start, end string) (int, error) {
	slots, err := slot.QuantizeRange(start, end, slot.FineStep)
	if err != nil {
		return 0, apperrors.InvalidInput("time range must be in HH:mm format")
	}

	doctor, ownerID, err := s.resolver.Resolve(ctx, doctorRef)
	if err != nil {
		return 0, mapResolveError(err)
	}
	day := slot.Midnight(date)

	wanted := make(map[string]bool, len(slots))
	for _, t := range slots {
		wanted[t] = true
	}

	existing, err := s.appts.FindByDoctorAndDate(ctx, doctor.ID, day)
	if err != nil {
		return 0, apperrors.Internal("failed to load doctor day", err)
	}

	freed := make([]string, 0, len(slots))
	for _, a := range existing {
		if !wanted[a.TimeOfDay] || !a.IsBlock() || a.PatientID != ownerID {
			continue
		}
		if err := s.appts.Delete(ctx, a.ID); err != nil {
			return 0, apperrors.Internal("failed to unblock slot", err)
		}
		freed = append(freed, a.TimeOfDay)
	}

	s.log.Info("Schedule unblocked",
		"doctor_id", doctor.ID,
		"date", day.Format("2006-01-02"),
		"freed", len(freed),
	)
	s.publisher.ScheduleUnblocked(ctx, doctor.ID, day, freed, len(freed))

	return len(freed), nil
}

// acquireDayLock inserts the advisory doctor-day lock. A duplicate key means
// another block operation is in flight for the same day.
func (s *blockService) acquireDayLock(ctx context.Context, doctorID string, day time.Time) (func(), error) {
	lock := &model.SlotLock{
		ID:        fmt.Sprintf("%s|%s", doctorID, day.Format("2006-01-02")),
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	if _, err := s.locks.Create(ctx, lock); err != nil {
		if mongotx.IsDuplicateKey(err) {
			return nil, apperrors.Conflict("another schedule change for this day is in progress")
		}
		return nil, apperrors.Internal("failed to acquire schedule lock", err)
	}

	return func() {
		if err := s.locks.Delete(context.WithoutCancel(ctx), lock.ID); err != nil {
			// The TTL index reclaims the lock if this fails.
			s.log.Warn("Failed to release schedule lock", "lock_id", lock.ID, "error", err)
		}
	}, nil
}

func (s *blockService) notifyDisplaced(ctx context.Context, doctor *model.Doctor, displaced []*model.Appointment) {
	if len(displaced) == 0 {
		return
	}

	specialtyName := ""
	if specialty, err := s.specialties.FindByID(ctx, doctor.SpecialtyID); err == nil {
		specialtyName = specialty.Name
	}

	ids := make([]string, 0, len(displaced))
	for _, a := range displaced {
		ids = append(ids, a.PatientID)
	}
	patients, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to load displaced patients", "error", err)
		return
	}

	for _, a := range displaced {
		patient, ok := patients[a.PatientID]
		if !ok {
			continue
		}
		s.notifier.Notify(ctx, mailer.Message{
			To:      patient.Email,
			ToName:  patient.FullName,
			Subject: mailer.CancellationSubject(specialtyName),
			HTML: mailer.CancellationHTML(
				patient.FullName,
				specialtyName,
				doctor.FullName,
				a.Date.Format("2006-01-02"),
				a.TimeOfDay,
			),
		})
	}
}

func mapResolveError(err error) error {
	if errors.Is(err, doctorserrors.ErrDoctorNotFound) {
		return apperrors.NotFound("doctor")
	}
	return apperrors.Internal("failed to resolve doctor", err)
}
