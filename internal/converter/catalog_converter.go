package converter

import (
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/dto"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
)

func HospitalsToResponses(hospitals []entity.Hospital) []dto.HospitalResponse {
	responses := make([]dto.HospitalResponse, len(hospitals))
	for i, h := range hospitals {
		responses[i] = dto.HospitalResponse{
			ID:       h.ID,
			Name:     h.Name,
			Location: h.Location,
		}
	}
	return responses
}

func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(departments))
	for i, d := range departments {
		responses[i] = dto.DepartmentResponse{
			ID:         d.ID,
			HospitalID: d.HospitalID,
			Name:       d.Name,
		}
	}
	return responses
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, d := range doctors {
		responses[i] = dto.DoctorResponse{
			ID:           d.ID,
			HospitalID:   d.HospitalID,
			DepartmentID: d.DepartmentID,
			Name:         d.Name,
		}
	}
	return responses
}
