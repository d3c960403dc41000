package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/converter"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/dto"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/service"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidDateRange    = errors.New("date must be between today and one year ahead")
	ErrInvalidSlotTime     = errors.New("invalid slot time")
	ErrInvalidDoctor       = errors.New("doctor does not belong to the given hospital and department")
	ErrSlotFull            = errors.New("slot is fully booked")
	ErrPriorityTooLow      = errors.New("patient priority too low for a shared slot")
	ErrCombinedRiskTooHigh = errors.New("combined no-show risk too high for a shared slot")
	ErrSlotConflict        = errors.New("slot is already taken")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAlreadyAttended     = errors.New("appointment was already attended")
	ErrAppointmentClosed   = errors.New("appointment is closed")
	ErrNotEligible         = errors.New("appointment is not eligible for auto-reschedule")
)

// Auto-reschedule eligibility thresholds. The single-appointment path keeps
// its probability on the 0-1 scale while the batch query filters on the
// stored 0-100 representation.
const (
	AutoRescheduleSingleThreshold = 0.5
	AutoRescheduleBatchThreshold  = 50.0
)

// AppointmentUsecase drives the appointment lifecycle: booking through
// admission control, the attended/no-show/closed transitions, and the
// manual and risk-driven reschedule flows.
type AppointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	hospitalRepo    repository.HospitalRepository
	availability    *service.AvailabilityService
	features        *service.FeatureService
	search          *service.SlotSearchService
	predictor       service.RiskPredictor
	notifier        service.Notifier
	slotLock        service.SlotLocker
	clock           calendar.Clock
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	hospitalRepo repository.HospitalRepository,
	availability *service.AvailabilityService,
	features *service.FeatureService,
	search *service.SlotSearchService,
	predictor service.RiskPredictor,
	notifier service.Notifier,
	slotLock service.SlotLocker,
	clock calendar.Clock,
) *AppointmentUsecase {
	return &AppointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		hospitalRepo:    hospitalRepo,
		availability:    availability,
		features:        features,
		search:          search,
		predictor:       predictor,
		notifier:        notifier,
		slotLock:        slotLock,
		clock:           clock,
	}
}

// Book admits a new appointment. The request is validated, scored by the
// predictor, then evaluated against the slot's admission policy while the
// slot key is locked, so two concurrent bookings cannot both see a free slot.
func (u *AppointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDateRange
	}

	today := u.clock.Today()
	if !calendar.WithinBookingWindow(today, date) {
		return nil, ErrInvalidDateRange
	}

	slot := entity.SlotTime(req.SlotTime)
	if !entity.IsValidSlotTime(slot) {
		return nil, ErrInvalidSlotTime
	}

	doctor, err := u.hospitalRepo.FindDoctorByID(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("load doctor %d: %w", req.DoctorID, err)
	}
	if doctor == nil || doctor.HospitalID != req.HospitalID || doctor.DepartmentID != req.DepartmentID {
		return nil, ErrInvalidDoctor
	}

	features, err := u.features.Build(ctx, patientID, req.HospitalID, date, slot, today)
	if err != nil {
		return nil, err
	}

	noShowProb, err := u.predictor.PredictNoShow(ctx, features)
	if err != nil {
		return nil, err
	}
	rescheduleProb, err := u.predictor.PredictReschedule(ctx, features)
	if err != nil {
		return nil, err
	}
	if err := service.ValidateProbability(noShowProb); err != nil {
		return nil, err
	}
	if err := service.ValidateProbability(rescheduleProb); err != nil {
		return nil, err
	}

	key := entity.SlotKey{DoctorID: req.DoctorID, Date: date, SlotTime: slot}
	appt := &entity.Appointment{
		PatientID:      patientID,
		HospitalID:     req.HospitalID,
		DepartmentID:   req.DepartmentID,
		DoctorID:       req.DoctorID,
		Date:           date,
		SlotTime:       slot,
		Status:         entity.StatusScheduled,
		NoShowProb:     &noShowProb,
		RescheduleProb: &rescheduleProb,
	}

	err = u.slotLock.WithSlotLock(ctx, key, func() error {
		decision, err := u.availability.Evaluate(ctx, key, patientID)
		if err != nil {
			return err
		}
		if !decision.Admitted {
			return denialError(decision.Reason)
		}
		return u.appointmentRepo.Create(ctx, appt)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Booked appointment %s for patient %s at %s", appt.ID, patientID, key)

	created, err := u.appointmentRepo.FindByID(ctx, appt.ID)
	if err != nil || created == nil {
		return converter.AppointmentToResponse(appt), nil
	}
	return converter.AppointmentToResponse(created), nil
}

func denialError(reason string) error {
	switch reason {
	case service.ReasonFull:
		return ErrSlotFull
	case service.ReasonLowPriority:
		return ErrPriorityTooLow
	case service.ReasonCombinedRisk:
		return ErrCombinedRiskTooHigh
	default:
		return ErrSlotConflict
	}
}

func (u *AppointmentUsecase) GetMyAppointments(ctx context.Context, patientID uuid.UUID, sortBy, sortOrder string) (*dto.AppointmentListResponse, error) {
	appts, err := u.appointmentRepo.FindByPatientID(ctx, patientID, sortBy, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appts),
		Total:        len(appts),
	}, nil
}

func (u *AppointmentUsecase) GetAllAppointments(ctx context.Context, sortBy, sortOrder string) (*dto.AppointmentListResponse, error) {
	appts, err := u.appointmentRepo.FindAll(ctx, sortBy, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appts),
		Total:        len(appts),
	}, nil
}

// CheckSlot reports whether the patient would be admitted to the slot right
// now. It is advisory: the binding decision happens again inside Book.
func (u *AppointmentUsecase) CheckSlot(ctx context.Context, patientID uuid.UUID, doctorID int, dateStr, slotStr string) (*dto.SlotAvailabilityResponse, error) {
	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	slot := entity.SlotTime(slotStr)
	if !entity.IsValidSlotTime(slot) {
		return nil, ErrInvalidSlotTime
	}

	key := entity.SlotKey{DoctorID: doctorID, Date: date, SlotTime: slot}
	decision, err := u.availability.Evaluate(ctx, key, patientID)
	if err != nil {
		return nil, err
	}
	return &dto.SlotAvailabilityResponse{
		Available: decision.Admitted,
		Reason:    decision.Reason,
	}, nil
}

func (u *AppointmentUsecase) GetAvailableSlots(ctx context.Context, patientID uuid.UUID, doctorID int, dateStr string) (*dto.AvailableSlotsResponse, error) {
	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDateRange
	}

	slots, err := u.availability.AvailableSlots(ctx, doctorID, date, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = string(s)
	}
	return &dto.AvailableSlotsResponse{
		Date:  calendar.FormatDate(date),
		Slots: out,
	}, nil
}

// MarkAttended records that the patient showed up. Marking an already
// attended appointment again is a no-op; a closed appointment rejects.
func (u *AppointmentUsecase) MarkAttended(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appt, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}

	if appt.Status == entity.StatusAttended {
		return converter.AppointmentToResponse(appt), nil
	}
	if !appt.Status.CanTransitionTo(entity.StatusAttended) {
		return nil, ErrAppointmentClosed
	}

	if err := u.appointmentRepo.UpdateStatus(ctx, id, entity.StatusAttended); err != nil {
		return nil, fmt.Errorf("mark attended: %w", err)
	}
	appt.Status = entity.StatusAttended
	return converter.AppointmentToResponse(appt), nil
}

// Close retires the appointment. Closing twice is a no-op; an attended
// appointment cannot be reopened as closed.
func (u *AppointmentUsecase) Close(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appt, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}

	if appt.Status == entity.StatusClosed {
		return converter.AppointmentToResponse(appt), nil
	}
	if !appt.Status.CanTransitionTo(entity.StatusClosed) {
		return nil, ErrAlreadyAttended
	}

	if err := u.appointmentRepo.UpdateStatus(ctx, id, entity.StatusClosed); err != nil {
		return nil, fmt.Errorf("close appointment: %w", err)
	}
	appt.Status = entity.StatusClosed
	return converter.AppointmentToResponse(appt), nil
}

// ManualReschedule moves an appointment to an operator-chosen slot. The
// target slot must be entirely unoccupied, and the risk scores are recomputed
// against the new date.
func (u *AppointmentUsecase) ManualReschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	appt, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}

	if !appt.Status.CanTransitionTo(entity.StatusRescheduled) {
		if appt.Status == entity.StatusAttended {
			return nil, ErrAlreadyAttended
		}
		return nil, ErrAppointmentClosed
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	today := u.clock.Today()
	if !calendar.WithinBookingWindow(today, date) {
		return nil, ErrInvalidDateRange
	}
	slot := entity.SlotTime(req.SlotTime)
	if !entity.IsValidSlotTime(slot) {
		return nil, ErrInvalidSlotTime
	}

	features, err := u.features.Build(ctx, appt.PatientID, appt.HospitalID, date, slot, today)
	if err != nil {
		return nil, err
	}
	noShowProb, err := u.predictor.PredictNoShow(ctx, features)
	if err != nil {
		return nil, err
	}
	rescheduleProb, err := u.predictor.PredictReschedule(ctx, features)
	if err != nil {
		return nil, err
	}
	if err := service.ValidateProbability(noShowProb); err != nil {
		return nil, err
	}
	if err := service.ValidateProbability(rescheduleProb); err != nil {
		return nil, err
	}

	key := entity.SlotKey{DoctorID: appt.DoctorID, Date: date, SlotTime: slot}
	err = u.slotLock.WithSlotLock(ctx, key, func() error {
		occupant, err := u.appointmentRepo.FindAnyAtSlot(ctx, key, appt.ID)
		if err != nil {
			return fmt.Errorf("check slot occupancy: %w", err)
		}
		if occupant != nil {
			return ErrSlotConflict
		}
		return u.appointmentRepo.Reschedule(ctx, id, date, slot, entity.StatusRescheduled, noShowProb, rescheduleProb)
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, service.ErrSlotLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("write reschedule: %w", err)
	}

	u.notifyReschedule(appt, date, slot)

	appt.Date = date
	appt.SlotTime = slot
	appt.Status = entity.StatusRescheduled
	appt.NoShowProb = &noShowProb
	appt.RescheduleProb = &rescheduleProb
	return converter.AppointmentToResponse(appt), nil
}

// AutoRescheduleSingle moves one high-risk appointment to the next slot with
// no occupants at all. Risk scores are carried over unchanged. Occupancy is
// re-checked under the slot lock before the write, so a booking racing for
// the same slot cannot slip in between search and commit.
func (u *AppointmentUsecase) AutoRescheduleSingle(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appt, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appt.Status.IsActive() {
		return nil, ErrNotEligible
	}
	if !appt.IsNoShowAbove(AutoRescheduleSingleThreshold) {
		return nil, ErrNotEligible
	}

	date, slot, err := u.search.FindExactlyFreeSlot(ctx, appt.DoctorID, appt.Date)
	if err != nil {
		return nil, err
	}

	key := entity.SlotKey{DoctorID: appt.DoctorID, Date: date, SlotTime: slot}
	err = u.slotLock.WithSlotLock(ctx, key, func() error {
		occupants, err := u.appointmentRepo.FindBySlotKey(ctx, key)
		if err != nil {
			return fmt.Errorf("check slot occupancy: %w", err)
		}
		if len(occupants) > 0 {
			return ErrSlotConflict
		}
		return u.appointmentRepo.UpdateSlot(ctx, id, date, slot, entity.StatusRescheduled)
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, service.ErrSlotLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("write reschedule: %w", err)
	}

	u.log.Infof("Auto-rescheduled appointment %s to %s %s", id, calendar.FormatDate(date), slot)

	appt.Date = date
	appt.SlotTime = slot
	appt.Status = entity.StatusRescheduled
	return converter.AppointmentToResponse(appt), nil
}

// AutoRescheduleBatch moves every scheduled appointment whose stored no-show
// probability exceeds the batch threshold. Each appointment is handled in
// isolation so one failure does not stop the rest.
func (u *AppointmentUsecase) AutoRescheduleBatch(ctx context.Context) (*dto.BatchRescheduleResponse, error) {
	highRisk, err := u.appointmentRepo.FindHighRisk(ctx, AutoRescheduleBatchThreshold)
	if err != nil {
		return nil, fmt.Errorf("query high-risk appointments: %w", err)
	}

	today := u.clock.Today()
	rescheduled := 0
	for i := range highRisk {
		if err := u.autoRescheduleOne(ctx, &highRisk[i], today); err != nil {
			if errors.Is(err, service.ErrSlotSearchExhausted) ||
				errors.Is(err, ErrSlotConflict) || errors.Is(err, service.ErrSlotLocked) {
				u.log.Warnf("No admissible slot for appointment %s, leaving in place", highRisk[i].ID)
				continue
			}
			u.log.Errorf("Failed to auto-reschedule appointment %s: %+v", highRisk[i].ID, err)
			continue
		}
		rescheduled++
	}

	return &dto.BatchRescheduleResponse{Rescheduled: rescheduled}, nil
}

func (u *AppointmentUsecase) autoRescheduleOne(ctx context.Context, appt *entity.Appointment, today time.Time) error {
	date, slot, err := u.search.FindSlot(ctx, appt.DoctorID, appt.Date, appt.PatientID)
	if err != nil {
		return err
	}

	features, err := u.features.Build(ctx, appt.PatientID, appt.HospitalID, date, slot, today)
	if err != nil {
		return fmt.Errorf("build features: %w", err)
	}
	noShowProb, err := u.predictor.PredictNoShow(ctx, features)
	if err != nil {
		return err
	}
	rescheduleProb, err := u.predictor.PredictReschedule(ctx, features)
	if err != nil {
		return err
	}
	if err := service.ValidateProbability(noShowProb); err != nil {
		return err
	}
	if err := service.ValidateProbability(rescheduleProb); err != nil {
		return err
	}

	key := entity.SlotKey{DoctorID: appt.DoctorID, Date: date, SlotTime: slot}
	err = u.slotLock.WithSlotLock(ctx, key, func() error {
		decision, err := u.availability.Evaluate(ctx, key, appt.PatientID)
		if err != nil {
			return err
		}
		if !decision.Admitted {
			return ErrSlotConflict
		}
		return u.appointmentRepo.Reschedule(ctx, appt.ID, date, slot, entity.StatusRescheduled, noShowProb, rescheduleProb)
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, service.ErrSlotLocked) {
			return err
		}
		return fmt.Errorf("write reschedule: %w", err)
	}

	u.notifyReschedule(appt, date, slot)
	return nil
}

// notifyReschedule emails the patient about the new slot. Delivery failures
// are logged and never fail the reschedule itself.
func (u *AppointmentUsecase) notifyReschedule(appt *entity.Appointment, date time.Time, slot entity.SlotTime) {
	if appt.Patient.Email == "" {
		return
	}
	err := u.notifier.NotifyReschedule(appt.Patient.Email, service.RescheduleDetails{
		HospitalName:   appt.Hospital.Name,
		DepartmentName: appt.Department.Name,
		DoctorName:     appt.Doctor.Name,
		Date:           date,
		SlotTime:       slot,
	})
	if err != nil {
		u.log.Errorf("Failed to send reschedule notification for appointment %s: %+v", appt.ID, err)
	}
}
