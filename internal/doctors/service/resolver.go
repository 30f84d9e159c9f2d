package service

import (
	"context"
	"errors"

	doctorserrors "medbook/internal/doctors/errors"
	doctorsrepo "medbook/internal/doctors/repository"
	userserrors "medbook/internal/users/errors"
	usersrepo "medbook/internal/users/repository"
	"medbook/pkg/config"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

// DoctorResolver turns a caller-supplied reference into a doctor record.
// The reference is tried as a user ID first (a doctor logs in as a user and
// is matched to their directory record by full name), then as a direct
// doctor ID. Resolve also yields the owner ID stamped on schedule locks:
// the user's own ID, or the admin fallback when no user record exists.
type DoctorResolver interface {
	Resolve(ctx context.Context, ref string) (*model.Doctor, string, error)
}

type doctorResolver struct {
	doctors doctorsrepo.DoctorRepository
	users   usersrepo.UserRepository
	log     *logger.Logger
}

func NewDoctorResolver(doctors doctorsrepo.DoctorRepository, users usersrepo.UserRepository, log *logger.Logger) DoctorResolver {
	return &doctorResolver{doctors: doctors, users: users, log: log}
}

func (r *doctorResolver) Resolve(ctx context.Context, ref string) (*model.Doctor, string, error) {
	// The lock owner is the user's own identity when the reference maps to a
	// user record, even if the doctor ends up resolved by direct ID.
	ownerID := config.AdminOwnerID

	user, err := r.users.FindByID(ctx, ref)
	switch {
	case err == nil:
		ownerID = user.ID
		doctor, derr := r.doctors.FindByFullName(ctx, user.FullName)
		if derr == nil {
			return doctor, ownerID, nil
		}
		if !errors.Is(derr, doctorserrors.ErrDoctorNotFound) {
			return nil, "", derr
		}
	case !errors.Is(err, userserrors.ErrNotFound) && !errors.Is(err, userserrors.ErrInvalidID):
		return nil, "", err
	}

	doctor, err := r.doctors.FindByID(ctx, ref)
	if err != nil {
		if errors.Is(err, doctorserrors.ErrDoctorNotFound) || errors.Is(err, doctorserrors.ErrInvalidID) {
			return nil, "", doctorserrors.ErrDoctorNotFound
		}
		return nil, "", err
	}

	return doctor, ownerID, nil
}
