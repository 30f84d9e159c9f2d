package service

import (
	"context"
	"testing"

	doctorserrors "medbook/internal/doctors/errors"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/model"
)

type mockSpecialtyRepo struct {
	findByIDFunc   func(ctx context.Context, id string) (*model.Specialty, error)
	findByNameFunc func(ctx context.Context, name string) (*model.Specialty, error)
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockSpecialtyRepo) Create(ctx context.Context, specialty *model.Specialty) error {
	specialty.ID = testSpecialtyID
	return nil
}

func (m *mockSpecialtyRepo) FindByID(ctx context.Context, id string) (*model.Specialty, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, doctorserrors.ErrSpecialtyNotFound
}

func (m *mockSpecialtyRepo) FindByName(ctx context.Context, name string) (*model.Specialty, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, doctorserrors.ErrSpecialtyNotFound
}

func (m *mockSpecialtyRepo) FindAll(ctx context.Context) ([]*model.Specialty, error) {
	return nil, nil
}

func (m *mockSpecialtyRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func TestAddDoctor_UnknownSpecialty(t *testing.T) {
	svc := NewDirectoryService(&mockDoctorRepo{}, &mockSpecialtyRepo{}, testLogger())

	_, err := svc.AddDoctor(context.Background(), &model.Doctor{
		FullName:    "Gregory House",
		SpecialtyID: testSpecialtyID,
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestAddDoctor_Success(t *testing.T) {
	specialties := &mockSpecialtyRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Specialty, error) {
			return &model.Specialty{ID: id, Name: "Cardiology"}, nil
		},
	}
	svc := NewDirectoryService(&mockDoctorRepo{}, specialties, testLogger())

	doctor, err := svc.AddDoctor(context.Background(), &model.Doctor{
		FullName:    "Gregory House",
		SpecialtyID: testSpecialtyID,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if doctor.ID == "" {
		t.Error("expected assigned ID")
	}
}

func TestRemoveSpecialty_RefusedWhileDoctorsRemain(t *testing.T) {
	doctors := &mockDoctorRepo{
		countFunc: func(ctx context.Context, specialtyID string) (int64, error) {
			return 2, nil
		},
	}
	svc := NewDirectoryService(doctors, &mockSpecialtyRepo{}, testLogger())

	err := svc.RemoveSpecialty(context.Background(), testSpecialtyID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}

func TestRemoveSpecialty_Success(t *testing.T) {
	deleted := ""
	specialties := &mockSpecialtyRepo{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := NewDirectoryService(&mockDoctorRepo{}, specialties, testLogger())

	if err := svc.RemoveSpecialty(context.Background(), testSpecialtyID); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if deleted != testSpecialtyID {
		t.Errorf("expected delete of %s, got %q", testSpecialtyID, deleted)
	}
}

func TestAddSpecialty_DuplicateName(t *testing.T) {
	specialties := &mockSpecialtyRepo{
		findByNameFunc: func(ctx context.Context, name string) (*model.Specialty, error) {
			return &model.Specialty{ID: testSpecialtyID, Name: name}, nil
		},
	}
	svc := NewDirectoryService(&mockDoctorRepo{}, specialties, testLogger())

	_, err := svc.AddSpecialty(context.Background(), &model.Specialty{Name: "Cardiology"})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}
