package service

import (
	"context"
	"errors"

	doctorserrors "medbook/internal/doctors/errors"
	doctorsrepo "medbook/internal/doctors/repository"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

// DirectoryService maintains the specialty and doctor registry backing the
// booking flows.
type DirectoryService interface {
	AddDoctor(ctx context.Context, doctor *model.Doctor) (*model.Doctor, error)
	RemoveDoctor(ctx context.Context, id string) error
	AddSpecialty(ctx context.Context, specialty *model.Specialty) (*model.Specialty, error)
	RemoveSpecialty(ctx context.Context, id string) error
	ListSpecialtiesWithDoctors(ctx context.Context) ([]*model.SpecialtyWithDoctors, error)
}

type directoryService struct {
	doctors     doctorsrepo.DoctorRepository
	specialties doctorsrepo.SpecialtyRepository
	log         *logger.Logger
}

func NewDirectoryService(doctors doctorsrepo.DoctorRepository, specialties doctorsrepo.SpecialtyRepository, log *logger.Logger) DirectoryService {
	return &directoryService{doctors: doctors, specialties: specialties, log: log}
}

func (s *directoryService) AddDoctor(ctx context.Context, doctor *model.Doctor) (*model.Doctor, error) {
	if doctor.FullName == "" {
		return nil, apperrors.InvalidInput("doctor full name is required")
	}

	if _, err := s.specialties.FindByID(ctx, doctor.SpecialtyID); err != nil {
		if errors.Is(err, doctorserrors.ErrSpecialtyNotFound) || errors.Is(err, doctorserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("specialty", doctor.SpecialtyID)
		}
		return nil, apperrors.Internal("failed to look up specialty", err)
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, apperrors.Internal("failed to create doctor", err)
	}

	s.log.Info("Doctor added", "doctor_id", doctor.ID, "specialty_id", doctor.SpecialtyID)
	return doctor, nil
}

func (s *directoryService) RemoveDoctor(ctx context.Context, id string) error {
	err := s.doctors.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, doctorserrors.ErrDoctorNotFound) || errors.Is(err, doctorserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("doctor", id)
		}
		return apperrors.Internal("failed to delete doctor", err)
	}

	s.log.Info("Doctor removed", "doctor_id", id)
	return nil
}

func (s *directoryService) AddSpecialty(ctx context.Context, specialty *model.Specialty) (*model.Specialty, error) {
	if specialty.Name == "" {
		return nil, apperrors.InvalidInput("specialty name is required")
	}

	existing, err := s.specialties.FindByName(ctx, specialty.Name)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("specialty already exists")
	}
	if err != nil && !errors.Is(err, doctorserrors.ErrSpecialtyNotFound) {
		return nil, apperrors.Internal("failed to look up specialty", err)
	}

	if err := s.specialties.Create(ctx, specialty); err != nil {
		return nil, apperrors.Internal("failed to create specialty", err)
	}

	s.log.Info("Specialty added", "specialty_id", specialty.ID, "name", specialty.Name)
	return specialty, nil
}

// RemoveSpecialty refuses while doctors still reference the specialty; the
// caller must reassign or remove them first.
func (s *directoryService) RemoveSpecialty(ctx context.Context, id string) error {
	count, err := s.doctors.CountBySpecialty(ctx, id)
	if err != nil {
		return apperrors.Internal("failed to count doctors", err)
	}
	if count > 0 {
		return apperrors.Conflict("specialty still has doctors assigned")
	}

	err = s.specialties.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, doctorserrors.ErrSpecialtyNotFound) || errors.Is(err, doctorserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("specialty", id)
		}
		return apperrors.Internal("failed to delete specialty", err)
	}

	s.log.Info("Specialty removed", "specialty_id", id)
	return nil
}

func (s *directoryService) ListSpecialtiesWithDoctors(ctx context.Context) ([]*model.SpecialtyWithDoctors, error) {
	specialties, err := s.specialties.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list specialties", err)
	}

	result := make([]*model.SpecialtyWithDoctors, 0, len(specialties))
	for _, sp := range specialties {
		doctors, err := s.doctors.FindBySpecialty(ctx, sp.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to list doctors", err)
		}
		result = append(result, &model.SpecialtyWithDoctors{
			Specialty: *sp,
			Doctors:   doctors,
		})
	}

	return result, nil
}
