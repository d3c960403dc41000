package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	HospitalID   int    `json:"hospital_id" validate:"required,min=1"`
	DepartmentID int    `json:"department_id" validate:"required,min=1"`
	DoctorID     int    `json:"doctor_id" validate:"required,min=1"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	SlotTime     string `json:"slot_time" validate:"required"`
}

type RescheduleAppointmentRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	SlotTime string `json:"slot_time" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID             uuid.UUID `json:"id"`
	PatientID      uuid.UUID `json:"patient_id"`
	PatientEmail   string    `json:"patient_email,omitempty"`
	HospitalName   string    `json:"hospital_name,omitempty"`
	DepartmentName string    `json:"department_name,omitempty"`
	DoctorName     string    `json:"doctor_name,omitempty"`
	Date           string    `json:"date"`
	SlotTime       string    `json:"slot_time"`
	Status         string    `json:"status"`
	NoShowProb     *float64  `json:"no_show_prob,omitempty"`
	RescheduleProb *float64  `json:"reschedule_prob,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type SlotAvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type AvailableSlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type BatchRescheduleResponse struct {
	Rescheduled int `json:"rescheduled"`
}
