package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Admission-control constants. A slot may hold a second, risk-bearing
// occupant when the requesting patient is trusted enough and the summed
// no-show probability of the current occupants leaves room under the budget.
const (
	MaxPerSlot              = 2
	CombinedNoShowThreshold = 50.0
	PriorityThreshold       = 0.7
)

// Deny reasons reported by Evaluate.
const (
	ReasonFull         = "full"
	ReasonLowPriority  = "priority too low"
	ReasonCombinedRisk = "combined risk too high"
)

// Decision is the outcome of an admission-control evaluation.
type Decision struct {
	Admitted bool
	Reason   string
}

// AvailabilityService decides whether a booking may be admitted to a slot
// key. It is a policy check only: it holds no lock between the decision and
// any subsequent write, so callers serialize evaluate+write per slot key.
type AvailabilityService struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
}

func NewAvailabilityService(log *logrus.Logger, appointmentRepo repository.AppointmentRepository) *AvailabilityService {
	return &AvailabilityService{
		log:             log,
		appointmentRepo: appointmentRepo,
	}
}

// Evaluate applies the capacity, priority and combined-risk rules to a
// request by patientID for the given slot key.
func (s *AvailabilityService) Evaluate(ctx context.Context, key entity.SlotKey, patientID uuid.UUID) (Decision, error) {
	occupants, err := s.appointmentRepo.FindBySlotKey(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("load slot occupants: %w", err)
	}
	return s.decide(ctx, occupants, key.Date, patientID)
}

// decide runs the admission rules against an already-loaded occupant list.
func (s *AvailabilityService) decide(ctx context.Context, occupants []entity.Appointment, date time.Time, patientID uuid.UUID) (Decision, error) {
	if len(occupants) == 0 {
		return Decision{Admitted: true}, nil
	}

	if len(occupants) >= MaxPerSlot {
		return Decision{Reason: ReasonFull}, nil
	}

	priority, err := s.PriorityScore(ctx, patientID, date)
	if err != nil {
		return Decision{}, err
	}
	if priority < PriorityThreshold {
		return Decision{Reason: ReasonLowPriority}, nil
	}

	combined := 0.0
	for _, appt := range occupants {
		if appt.NoShowProb != nil {
			combined += *appt.NoShowProb
		}
	}
	if combined >= CombinedNoShowThreshold {
		return Decision{Reason: ReasonCombinedRisk}, nil
	}

	return Decision{Admitted: true}, nil
}

// NoShowHistoryRatio returns the fraction of the patient's appointments
// strictly before date that ended as no-shows. No history is read as 0.0, an
// optimistic default for new patients.
func (s *AvailabilityService) NoShowHistoryRatio(ctx context.Context, patientID uuid.UUID, date time.Time) (float64, error) {
	past, err := s.appointmentRepo.FindPastByPatient(ctx, patientID, date)
	if err != nil {
		return 0, fmt.Errorf("load patient history: %w", err)
	}
	if len(past) == 0 {
		return 0.0, nil
	}

	noShows := 0
	for _, appt := range past {
		if appt.Status == entity.StatusNoShow {
			noShows++
		}
	}
	return float64(noShows) / float64(len(past)), nil
}

// PriorityScore is 1 minus the patient's no-show history ratio; higher means
// more trustworthy.
func (s *AvailabilityService) PriorityScore(ctx context.Context, patientID uuid.UUID, date time.Time) (float64, error) {
	ratio, err := s.NoShowHistoryRatio(ctx, patientID, date)
	if err != nil {
		return 0, err
	}
	return 1.0 - ratio, nil
}

// AvailableSlots returns every slot on the doctor's day the patient could
// currently be admitted to, in slot order.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, doctorID int, date time.Time, patientID uuid.UUID) ([]entity.SlotTime, error) {
	appts, err := s.appointmentRepo.FindActiveByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load doctor day: %w", err)
	}

	bySlot := make(map[entity.SlotTime][]entity.Appointment)
	for _, appt := range appts {
		bySlot[appt.SlotTime] = append(bySlot[appt.SlotTime], appt)
	}

	var available []entity.SlotTime
	for _, slot := range entity.AllSlotTimes() {
		occupants := bySlot[slot]
		if len(occupants) == 0 {
			available = append(available, slot)
			continue
		}
		decision, err := s.decide(ctx, occupants, date, patientID)
		if err != nil {
			return nil, err
		}
		if decision.Admitted {
			available = append(available, slot)
		}
	}
	return available, nil
}
