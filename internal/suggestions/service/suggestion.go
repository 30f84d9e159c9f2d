// Package service proposes the earliest free appointment slots for a
// specialty, scanning the coming weekdays over the standard slot grid.
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	apptsrepo "medbook/internal/appointments/repository"
	doctorserrors "medbook/internal/doctors/errors"
	doctorsrepo "medbook/internal/doctors/repository"
	"medbook/pkg/availability"
	"medbook/pkg/config"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/logger"
	"medbook/pkg/model"
	"medbook/pkg/slot"
)

// Suggestion is one bookable slot offer.
type Suggestion struct {
	DoctorID   string `json:"doctor_id"`
	DoctorName string `json:"doctor_name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

type SuggestionService interface {
	Suggest(ctx context.Context, specialtyName string, now time.Time) ([]Suggestion, error)
}

type suggestionService struct {
	cfg         *config.Config
	appts       apptsrepo.AppointmentRepository
	doctors     doctorsrepo.DoctorRepository
	specialties doctorsrepo.SpecialtyRepository
	log         *logger.Logger
}

func NewSuggestionService(
	cfg *config.Config,
	appts apptsrepo.AppointmentRepository,
	doctors doctorsrepo.DoctorRepository,
	specialties doctorsrepo.SpecialtyRepository,
	log *logger.Logger,
) SuggestionService {
	return &suggestionService{
		cfg:         cfg,
		appts:       appts,
		doctors:     doctors,
		specialties: specialties,
		log:         log,
	}
}

// Suggest returns up to the configured number of earliest bookable slots for
// the named specialty, ordered by date then time. Weekends are skipped and
// the priority-window rule is applied as for a regular patient. An unknown
// specialty yields an empty list rather than an error.
func (s *suggestionService) Suggest(ctx context.Context, specialtyName string, now time.Time) ([]Suggestion, error) {
	specialty, err := s.specialties.FindByName(ctx, specialtyName)
	if err != nil {
		if errors.Is(err, doctorserrors.ErrSpecialtyNotFound) {
			return []Suggestion{}, nil
		}
		return nil, apperrors.Internal("failed to look up specialty", err)
	}

	doctors, err := s.doctors.FindBySpecialty(ctx, specialty.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to load doctors", err)
	}
	if len(doctors) == 0 {
		return []Suggestion{}, nil
	}

	doctorIDs := make([]string, 0, len(doctors))
	for _, d := range doctors {
		doctorIDs = append(doctorIDs, d.ID)
	}

	today := slot.Midnight(now)
	horizon := today.AddDate(0, 0, s.cfg.SuggestionHorizonDays)

	appts, err := s.appts.FindByDoctorsInDateRange(ctx, doctorIDs, today, horizon)
	if err != nil {
		return nil, apperrors.Internal("failed to load booked slots", err)
	}

	// occupied[doctorID][date] holds the taken times of that doctor-day,
	// schedule locks included.
	occupied := make(map[string]map[string]map[string]bool)
	for _, a := range appts {
		day := a.Date.Format("2006-01-02")
		if occupied[a.DoctorID] == nil {
			occupied[a.DoctorID] = make(map[string]map[string]bool)
		}
		if occupied[a.DoctorID][day] == nil {
			occupied[a.DoctorID][day] = make(map[string]bool)
		}
		occupied[a.DoctorID][day][a.TimeOfDay] = true
	}

	suggestions := make([]Suggestion, 0, len(doctors))
	for _, doctor := range doctors {
		if offer, ok := s.earliestSlot(doctor, today, occupied[doctor.ID], now); ok {
			suggestions = append(suggestions, offer)
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Date != suggestions[j].Date {
			return suggestions[i].Date < suggestions[j].Date
		}
		return suggestions[i].Time < suggestions[j].Time
	})

	if len(suggestions) > s.cfg.SuggestionLimit {
		suggestions = suggestions[:s.cfg.SuggestionLimit]
	}
	return suggestions, nil
}

// earliestSlot finds the doctor's first standard slot within the horizon
// that a non-priority, non-senior patient could book.
func (s *suggestionService) earliestSlot(doctor *model.Doctor, today time.Time, taken map[string]map[string]bool, now time.Time) (Suggestion, bool) {
	for offset := 0; offset <= s.cfg.SuggestionHorizonDays; offset++ {
		date := today.AddDate(0, 0, offset)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		dayTaken := taken[date.Format("2006-01-02")]
		for _, timeOfDay := range slot.StandardTimes {
			if availability.IsBookable(date, timeOfDay, dayTaken, now, false) {
				return Suggestion{
					DoctorID:   doctor.ID,
					DoctorName: doctor.FullName,
					Date:       date.Format("2006-01-02"),
					Time:       timeOfDay,
				}, true
			}
		}
	}
	return Suggestion{}, false
}
