package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/converter"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/dto"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"
)

var ErrHospitalNotFound = errors.New("hospital not found")

// CatalogUsecase serves the hospital, department and doctor reference data
// patients browse before booking.
type CatalogUsecase struct {
	hospitalRepo repository.HospitalRepository
}

func NewCatalogUsecase(hospitalRepo repository.HospitalRepository) *CatalogUsecase {
	return &CatalogUsecase{hospitalRepo: hospitalRepo}
}

func (u *CatalogUsecase) GetHospitals(ctx context.Context) ([]dto.HospitalResponse, error) {
	hospitals, err := u.hospitalRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	return converter.HospitalsToResponses(hospitals), nil
}

func (u *CatalogUsecase) GetDepartments(ctx context.Context, hospitalID int) ([]dto.DepartmentResponse, error) {
	hospital, err := u.hospitalRepo.FindByID(ctx, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("load hospital: %w", err)
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	departments, err := u.hospitalRepo.FindDepartmentsByHospital(ctx, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return converter.DepartmentsToResponses(departments), nil
}

func (u *CatalogUsecase) GetDoctors(ctx context.Context, departmentID int) ([]dto.DoctorResponse, error) {
	doctors, err := u.hospitalRepo.FindDoctorsByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return converter.DoctorsToResponses(doctors), nil
}
