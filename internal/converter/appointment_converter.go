package converter

import (
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/dto"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"
)

// AppointmentToResponse converts an Appointment entity to its response DTO.
func AppointmentToResponse(appt *entity.Appointment) *dto.AppointmentResponse {
	if appt == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:             appt.ID,
		PatientID:      appt.PatientID,
		Date:           calendar.FormatDate(appt.Date),
		SlotTime:       string(appt.SlotTime),
		Status:         string(appt.Status),
		NoShowProb:     appt.NoShowProb,
		RescheduleProb: appt.RescheduleProb,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}

	if appt.Patient.Email != "" {
		response.PatientEmail = appt.Patient.Email
	}
	if appt.Hospital.ID != 0 {
		response.HospitalName = appt.Hospital.Name
	}
	if appt.Department.ID != 0 {
		response.DepartmentName = appt.Department.Name
	}
	if appt.Doctor.ID != 0 {
		response.DoctorName = appt.Doctor.Name
	}

	return response
}

func AppointmentsToResponses(appts []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appts))
	for i := range appts {
		resp := AppointmentToResponse(&appts[i])
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
