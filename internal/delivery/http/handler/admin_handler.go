package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/dto"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/service"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/usecase"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/response"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the operator endpoints: lifecycle transitions, manual
// and automatic rescheduling, and the on-demand no-show sweep.
type AdminHandler struct {
	log                *logrus.Logger
	appointmentUsecase *usecase.AppointmentUsecase
	sweep              *service.NoShowSweepService
	clock              calendar.Clock
	validator          *validator.CustomValidator
}

func NewAdminHandler(
	log *logrus.Logger,
	appointmentUsecase *usecase.AppointmentUsecase,
	sweep *service.NoShowSweepService,
	clock calendar.Clock,
	validator *validator.CustomValidator,
) *AdminHandler {
	return &AdminHandler{
		log:                log,
		appointmentUsecase: appointmentUsecase,
		sweep:              sweep,
		clock:              clock,
		validator:          validator,
	}
}

func (h *AdminHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort_by")
	sortOrder := r.URL.Query().Get("sort_order")

	list, err := h.appointmentUsecase.GetAllAppointments(r.Context(), sortBy, sortOrder)
	if err != nil {
		h.log.Errorf("Failed to list appointments: %+v", err)
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", list)
}

func (h *AdminHandler) MarkAttended(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	appt, err := h.appointmentUsecase.MarkAttended(r.Context(), id)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to mark appointment attended")
		return
	}

	response.Success(w, http.StatusOK, "Appointment marked as attended", appt)
}

func (h *AdminHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	appt, err := h.appointmentUsecase.Close(r.Context(), id)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to close appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment closed", appt)
}

func (h *AdminHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appt, err := h.appointmentUsecase.ManualReschedule(r.Context(), id, &req)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to reschedule appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment rescheduled", appt)
}

func (h *AdminHandler) AutoRescheduleSingle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}

	appt, err := h.appointmentUsecase.AutoRescheduleSingle(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrNotEligible):
			response.BadRequest(w, "Appointment is not eligible for auto-reschedule")
		case errors.Is(err, service.ErrSlotSearchExhausted):
			response.Conflict(w, "No free slot within the search window")
		case errors.Is(err, usecase.ErrSlotConflict), errors.Is(err, service.ErrSlotLocked):
			response.Conflict(w, "Slot is already taken")
		default:
			h.log.Errorf("Auto-reschedule failed: %+v", err)
			response.InternalServerError(w, "Failed to auto-reschedule appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment auto-rescheduled", appt)
}

func (h *AdminHandler) AutoRescheduleBatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.appointmentUsecase.AutoRescheduleBatch(r.Context())
	if err != nil {
		h.log.Errorf("Batch auto-reschedule failed: %+v", err)
		response.InternalServerError(w, "Failed to auto-reschedule appointments")
		return
	}

	response.Success(w, http.StatusOK, "High-risk appointments rescheduled", result)
}

// RunSweep triggers the daily no-show sweep immediately instead of waiting
// for the scheduled run.
func (h *AdminHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	if err := h.sweep.Run(r.Context(), h.clock.Today()); err != nil {
		h.log.Errorf("No-show sweep failed: %+v", err)
		response.InternalServerError(w, "No-show sweep failed")
		return
	}

	response.Success(w, http.StatusOK, "No-show sweep completed", nil)
}

func (h *AdminHandler) appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) writeLifecycleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrAlreadyAttended):
		response.Conflict(w, "Appointment was already attended")
	case errors.Is(err, usecase.ErrAppointmentClosed):
		response.Conflict(w, "Appointment is closed")
	case errors.Is(err, usecase.ErrInvalidDateRange):
		response.BadRequest(w, "Date must be between today and one year ahead")
	case errors.Is(err, usecase.ErrInvalidSlotTime):
		response.BadRequest(w, "Invalid slot time")
	case errors.Is(err, usecase.ErrSlotConflict):
		response.Conflict(w, "Slot is already taken")
	case errors.Is(err, service.ErrSlotLocked):
		response.Conflict(w, "Slot is being booked, try again")
	case errors.Is(err, service.ErrInvalidHospital):
		response.BadRequest(w, "Unknown hospital")
	case errors.Is(err, service.ErrPrediction), errors.Is(err, service.ErrInvalidPrediction):
		response.BadGateway(w, "Risk prediction unavailable")
	default:
		h.log.Errorf("%s: %+v", fallback, err)
		response.InternalServerError(w, fallback)
	}
}
