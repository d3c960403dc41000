package repository

import (
	"context"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
)

// HospitalRepository reads the static hospital → department → doctor
// hierarchy. The core never writes it.
type HospitalRepository interface {
	FindAll(ctx context.Context) ([]entity.Hospital, error)
	FindByID(ctx context.Context, id int) (*entity.Hospital, error)
	FindDepartmentsByHospital(ctx context.Context, hospitalID int) ([]entity.Department, error)
	FindDoctorsByDepartment(ctx context.Context, departmentID int) ([]entity.Doctor, error)
	FindDoctorByID(ctx context.Context, id int) (*entity.Doctor, error)
}
