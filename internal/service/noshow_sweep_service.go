package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"

	"github.com/sirupsen/logrus"
)

// NoShowSweepService is the recurring batch job that detects missed
// appointments and drives rescheduling. Every appointment dated yesterday and
// still scheduled or rescheduled is presumed missed: nobody marked it
// attended.
//
// The per-appointment protocol writes twice. The no_show flip commits first
// so the miss is durably recorded even when rescheduling then fails; the
// reschedule write follows only when a slot, features and valid predictions
// were all obtained. Failures are isolated per appointment, and the status
// filter on the selection query makes a repeated run for the same day a
// no-op.
type NoShowSweepService struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	availability    *AvailabilityService
	features        *FeatureService
	search          *SlotSearchService
	predictor       RiskPredictor
	notifier        Notifier
	slotLock        SlotLocker
	clock           calendar.Clock
	sweepHour       int

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewNoShowSweepService(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	availability *AvailabilityService,
	features *FeatureService,
	search *SlotSearchService,
	predictor RiskPredictor,
	notifier Notifier,
	slotLock SlotLocker,
	clock calendar.Clock,
	sweepHour int,
) *NoShowSweepService {
	return &NoShowSweepService{
		log:             log,
		appointmentRepo: appointmentRepo,
		availability:    availability,
		features:        features,
		search:          search,
		predictor:       predictor,
		notifier:        notifier,
		slotLock:        slotLock,
		clock:           clock,
		sweepHour:       sweepHour,
		stopChan:        make(chan struct{}),
	}
}

// Start launches the daily scheduler goroutine. The sweep fires once per day
// at the configured hour and never blocks request-serving goroutines.
func (s *NoShowSweepService) Start() {
	s.wg.Add(1)
	go s.scheduleLoop()
	s.log.Infof("No-show sweep scheduled daily at %02d:00", s.sweepHour)
}

// Stop cancels the scheduler and any in-flight run between appointments.
// Safe to call multiple times.
func (s *NoShowSweepService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("NoShowSweepService stopped")
	}
}

func (s *NoShowSweepService) scheduleLoop() {
	defer s.wg.Done()

	for {
		timer := time.NewTimer(time.Until(s.nextRun()))
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				defer close(done)
				if err := s.Run(ctx, s.clock.Today()); err != nil {
					s.log.Errorf("No-show sweep failed: %+v", err)
				}
			}()
			select {
			case <-s.stopChan:
				cancel()
				<-done
				return
			case <-done:
				cancel()
			}
		}
	}
}

func (s *NoShowSweepService) nextRun() time.Time {
	now := time.Now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.sweepHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run executes one sweep for the given day. Selection is by exact date
// (yesterday) and active status, so appointments already moved out of
// {scheduled, rescheduled} by an earlier run are not re-processed.
func (s *NoShowSweepService) Run(ctx context.Context, today time.Time) error {
	yesterday := calendar.AddDays(today, -1)

	missed, err := s.appointmentRepo.FindByDateAndStatuses(ctx, yesterday,
		[]entity.AppointmentStatus{entity.StatusScheduled, entity.StatusRescheduled})
	if err != nil {
		return fmt.Errorf("query potential no-shows for %s: %w", calendar.FormatDate(yesterday), err)
	}

	if len(missed) == 0 {
		s.log.Info("No potential no-show appointments from yesterday")
		return nil
	}

	for i := range missed {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.processAppointment(ctx, &missed[i], today); err != nil {
			// One appointment's failure must not abort its siblings.
			s.log.Errorf("Failed to process appointment %s: %+v", missed[i].ID, err)
		}
	}

	return nil
}

func (s *NoShowSweepService) processAppointment(ctx context.Context, appt *entity.Appointment, today time.Time) error {
	// Write #1: record the miss before attempting recovery.
	if err := s.appointmentRepo.UpdateStatus(ctx, appt.ID, entity.StatusNoShow); err != nil {
		return fmt.Errorf("mark no_show: %w", err)
	}
	s.log.Infof("Marked appointment %s as no_show", appt.ID)

	newDate, newSlot, err := s.search.FindSlot(ctx, appt.DoctorID, appt.Date, appt.PatientID)
	if err != nil {
		if errors.Is(err, ErrSlotSearchExhausted) {
			// The appointment stays no_show; there is no retry within this run.
			s.log.Warnf("No slot found for rescheduling appointment %s", appt.ID)
			return nil
		}
		return fmt.Errorf("slot search: %w", err)
	}

	// Slot search should not leave the window, but reject out-of-range
	// results before writing anyway.
	if !calendar.WithinBookingWindow(today, newDate) {
		s.log.Warnf("Rejecting out-of-range reschedule date %s for appointment %s", calendar.FormatDate(newDate), appt.ID)
		return nil
	}

	features, err := s.features.Build(ctx, appt.PatientID, appt.HospitalID, newDate, newSlot, today)
	if err != nil {
		return fmt.Errorf("build features: %w", err)
	}

	noShowProb, err := s.predictor.PredictNoShow(ctx, features)
	if err != nil {
		return fmt.Errorf("predict no-show: %w", err)
	}
	rescheduleProb, err := s.predictor.PredictReschedule(ctx, features)
	if err != nil {
		return fmt.Errorf("predict reschedule: %w", err)
	}
	if err := ValidateProbability(noShowProb); err != nil {
		return err
	}
	if err := ValidateProbability(rescheduleProb); err != nil {
		return err
	}

	// Write #2: the reschedule commits date, slot, status and probabilities
	// as one record update. The slot key is locked and admission re-checked
	// first, so a booking racing for the same slot cannot be admitted against
	// pre-sweep occupancy.
	key := entity.SlotKey{DoctorID: appt.DoctorID, Date: newDate, SlotTime: newSlot}
	err = s.slotLock.WithSlotLock(ctx, key, func() error {
		decision, err := s.availability.Evaluate(ctx, key, appt.PatientID)
		if err != nil {
			return err
		}
		if !decision.Admitted {
			return fmt.Errorf("%w: %s", ErrSlotSearchExhausted, decision.Reason)
		}
		return s.appointmentRepo.Reschedule(ctx, appt.ID, newDate, newSlot, entity.StatusRescheduled, noShowProb, rescheduleProb)
	})
	if err != nil {
		if errors.Is(err, ErrSlotSearchExhausted) || errors.Is(err, ErrSlotLocked) {
			// The appointment stays no_show; the slot was claimed between
			// search and write.
			s.log.Warnf("Slot %s no longer admissible for appointment %s", key, appt.ID)
			return nil
		}
		return fmt.Errorf("write reschedule: %w", err)
	}
	s.log.Infof("Rescheduled no-show appointment %s to %s at %s", appt.ID, calendar.FormatDate(newDate), newSlot)

	// Notification failure never rolls back the reschedule.
	if err := s.notifier.NotifyReschedule(appt.Patient.Email, RescheduleDetails{
		HospitalName:   appt.Hospital.Name,
		DepartmentName: appt.Department.Name,
		DoctorName:     appt.Doctor.Name,
		Date:           newDate,
		SlotTime:       newSlot,
	}); err != nil {
		s.log.Errorf("Failed to send reschedule notification for appointment %s: %+v", appt.ID, err)
	}

	return nil
}
