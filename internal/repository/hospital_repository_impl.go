package repository

import (
	"context"
	"errors"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	domainRepo "github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"

	"gorm.io/gorm"
)

type hospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepository(db *gorm.DB) domainRepo.HospitalRepository {
	return &hospitalRepository{db: db}
}

func (r *hospitalRepository) FindAll(ctx context.Context) ([]entity.Hospital, error) {
	var hospitals []entity.Hospital
	err := r.db.WithContext(ctx).Order("id").Find(&hospitals).Error
	if err != nil {
		return nil, err
	}
	return hospitals, nil
}

func (r *hospitalRepository) FindByID(ctx context.Context, id int) (*entity.Hospital, error) {
	var hospital entity.Hospital
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&hospital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) FindDepartmentsByHospital(ctx context.Context, hospitalID int) ([]entity.Department, error) {
	var departments []entity.Department
	err := r.db.WithContext(ctx).Where("hospital_id = ?", hospitalID).Order("id").Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *hospitalRepository) FindDoctorsByDepartment(ctx context.Context, departmentID int) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := r.db.WithContext(ctx).Where("department_id = ?", departmentID).Order("id").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *hospitalRepository) FindDoctorByID(ctx context.Context, id int) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}
