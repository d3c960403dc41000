package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSlotSearchExhausted is a normal outcome: no admissible slot exists
// within the look-ahead window. Callers must leave the appointment's prior
// state untouched when they see it.
var ErrSlotSearchExhausted = errors.New("no admissible slot within the search window")

// SearchWindowDays bounds how far ahead the search walks.
const SearchWindowDays = 7

// SlotSearchService walks forward day by day from a reference date and
// returns the first slot a patient can be admitted to. The search is greedy
// and nearest-future first; it makes no attempt to balance utilization
// across patients.
type SlotSearchService struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	availability    *AvailabilityService
}

func NewSlotSearchService(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	availability *AvailabilityService,
) *SlotSearchService {
	return &SlotSearchService{
		log:             log,
		appointmentRepo: appointmentRepo,
		availability:    availability,
	}
}

// FindSlot scans fromDate+1 .. fromDate+SearchWindowDays in slot order and
// returns the first (date, slot) the admission policy accepts for patientID:
// a free slot when the patient's priority clears the threshold, or a
// partially filled slot under the overbooking rule.
func (s *SlotSearchService) FindSlot(ctx context.Context, doctorID int, fromDate time.Time, patientID uuid.UUID) (time.Time, entity.SlotTime, error) {
	for daysAhead := 1; daysAhead <= SearchWindowDays; daysAhead++ {
		candidateDate := calendar.AddDays(fromDate, daysAhead)

		appts, err := s.appointmentRepo.FindActiveByDoctorAndDate(ctx, doctorID, candidateDate)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("load doctor day %s: %w", calendar.FormatDate(candidateDate), err)
		}

		bySlot := make(map[entity.SlotTime][]entity.Appointment)
		for _, appt := range appts {
			bySlot[appt.SlotTime] = append(bySlot[appt.SlotTime], appt)
		}

		priority, err := s.availability.PriorityScore(ctx, patientID, candidateDate)
		if err != nil {
			return time.Time{}, "", err
		}

		for _, slot := range entity.AllSlotTimes() {
			occupants := bySlot[slot]
			if len(occupants) == 0 {
				if priority >= PriorityThreshold {
					return candidateDate, slot, nil
				}
				continue
			}
			if len(occupants) >= MaxPerSlot || priority < PriorityThreshold {
				continue
			}
			combined := 0.0
			for _, appt := range occupants {
				if appt.NoShowProb != nil {
					combined += *appt.NoShowProb
				}
			}
			if combined < CombinedNoShowThreshold {
				return candidateDate, slot, nil
			}
		}
	}

	s.log.Warnf("No admissible slot for doctor %d within %d days of %s", doctorID, SearchWindowDays, calendar.FormatDate(fromDate))
	return time.Time{}, "", ErrSlotSearchExhausted
}

// FindExactlyFreeSlot scans the same window but only accepts slots with zero
// non-closed occupants. This is the stricter fast path used when a single
// appointment is auto-rescheduled without recomputing risk.
func (s *SlotSearchService) FindExactlyFreeSlot(ctx context.Context, doctorID int, fromDate time.Time) (time.Time, entity.SlotTime, error) {
	for daysAhead := 1; daysAhead <= SearchWindowDays; daysAhead++ {
		candidateDate := calendar.AddDays(fromDate, daysAhead)

		appts, err := s.appointmentRepo.FindActiveByDoctorAndDate(ctx, doctorID, candidateDate)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("load doctor day %s: %w", calendar.FormatDate(candidateDate), err)
		}

		occupied := make(map[entity.SlotTime]bool)
		for _, appt := range appts {
			occupied[appt.SlotTime] = true
		}

		for _, slot := range entity.AllSlotTimes() {
			if !occupied[slot] {
				return candidateDate, slot, nil
			}
		}
	}

	return time.Time{}, "", ErrSlotSearchExhausted
}
