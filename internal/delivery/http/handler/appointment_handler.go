package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/dto"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/http/middleware"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/service"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/usecase"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/response"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/validator"

	"github.com/sirupsen/logrus"
)

// AppointmentHandler serves the patient-facing booking endpoints.
type AppointmentHandler struct {
	log                *logrus.Logger
	appointmentUsecase *usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(log *logrus.Logger, appointmentUsecase *usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		log:                log,
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appt, err := h.appointmentUsecase.Book(r.Context(), patientID, &req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appt)
}

func (h *AppointmentHandler) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidDateRange):
		response.BadRequest(w, "Date must be between today and one year ahead")
	case errors.Is(err, usecase.ErrInvalidSlotTime):
		response.BadRequest(w, "Invalid slot time")
	case errors.Is(err, usecase.ErrInvalidDoctor):
		response.BadRequest(w, "Doctor does not belong to the given hospital and department")
	case errors.Is(err, service.ErrInvalidHospital):
		response.BadRequest(w, "Unknown hospital")
	case errors.Is(err, usecase.ErrSlotFull):
		response.Conflict(w, "Slot is fully booked")
	case errors.Is(err, usecase.ErrPriorityTooLow):
		response.Conflict(w, "Slot unavailable: priority too low")
	case errors.Is(err, usecase.ErrCombinedRiskTooHigh):
		response.Conflict(w, "Slot unavailable: combined no-show risk too high")
	case errors.Is(err, usecase.ErrSlotConflict):
		response.Conflict(w, "Slot is already taken")
	case errors.Is(err, service.ErrSlotLocked):
		response.Conflict(w, "Slot is being booked by another request, try again")
	case errors.Is(err, service.ErrPrediction), errors.Is(err, service.ErrInvalidPrediction):
		response.BadGateway(w, "Risk prediction unavailable")
	default:
		h.log.Errorf("Booking failed: %+v", err)
		response.InternalServerError(w, "Failed to book appointment")
	}
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	sortBy := r.URL.Query().Get("sort_by")
	sortOrder := r.URL.Query().Get("sort_order")

	list, err := h.appointmentUsecase.GetMyAppointments(r.Context(), patientID, sortBy, sortOrder)
	if err != nil {
		h.log.Errorf("Failed to list appointments: %+v", err)
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", list)
}

func (h *AppointmentHandler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()
	doctorID, err := strconv.Atoi(q.Get("doctor_id"))
	if err != nil || doctorID < 1 {
		response.BadRequest(w, "doctor_id is required")
		return
	}

	result, err := h.appointmentUsecase.CheckSlot(r.Context(), patientID, doctorID, q.Get("date"), q.Get("slot_time"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDateRange):
			response.BadRequest(w, "Invalid date")
		case errors.Is(err, usecase.ErrInvalidSlotTime):
			response.BadRequest(w, "Invalid slot time")
		default:
			h.log.Errorf("Slot check failed: %+v", err)
			response.InternalServerError(w, "Failed to check slot")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slot availability checked", result)
}

func (h *AppointmentHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	q := r.URL.Query()
	doctorID, err := strconv.Atoi(q.Get("doctor_id"))
	if err != nil || doctorID < 1 {
		response.BadRequest(w, "doctor_id is required")
		return
	}

	result, err := h.appointmentUsecase.GetAvailableSlots(r.Context(), patientID, doctorID, q.Get("date"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidDateRange) {
			response.BadRequest(w, "Invalid date")
			return
		}
		h.log.Errorf("Failed to list available slots: %+v", err)
		response.InternalServerError(w, "Failed to list available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved", result)
}
