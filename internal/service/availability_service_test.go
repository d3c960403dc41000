package service

import (
	"context"
	"testing"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"

	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluateEmptySlotAdmits(t *testing.T) {
	repo := &memAppointmentRepo{}
	svc := NewAvailabilityService(testLogger(), repo)

	key := entity.SlotKey{DoctorID: 1, Date: day(2025, time.June, 10), SlotTime: "09:00 AM"}
	decision, err := svc.Evaluate(context.Background(), key, uuid.New())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !decision.Admitted {
		t.Errorf("empty slot should admit, got reason %q", decision.Reason)
	}
}

func TestEvaluateFullSlotDenies(t *testing.T) {
	repo := &memAppointmentRepo{}
	key := entity.SlotKey{DoctorID: 1, Date: day(2025, time.June, 10), SlotTime: "09:00 AM"}
	for i := 0; i < MaxPerSlot; i++ {
		repo.add(entity.Appointment{
			PatientID: uuid.New(), DoctorID: 1, Date: key.Date, SlotTime: key.SlotTime,
			Status: entity.StatusScheduled, NoShowProb: floatPtr(5),
		})
	}
	svc := NewAvailabilityService(testLogger(), repo)

	decision, err := svc.Evaluate(context.Background(), key, uuid.New())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if decision.Admitted || decision.Reason != ReasonFull {
		t.Errorf("full slot: got %+v, want denial with reason %q", decision, ReasonFull)
	}
}

func TestEvaluateClosedOccupantsIgnored(t *testing.T) {
	repo := &memAppointmentRepo{}
	key := entity.SlotKey{DoctorID: 1, Date: day(2025, time.June, 10), SlotTime: "09:00 AM"}
	for i := 0; i < MaxPerSlot; i++ {
		repo.add(entity.Appointment{
			PatientID: uuid.New(), DoctorID: 1, Date: key.Date, SlotTime: key.SlotTime,
			Status: entity.StatusClosed,
		})
	}
	svc := NewAvailabilityService(testLogger(), repo)

	decision, err := svc.Evaluate(context.Background(), key, uuid.New())
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !decision.Admitted {
		t.Errorf("closed occupants must not consume capacity, got reason %q", decision.Reason)
	}
}

func TestEvaluatePriorityGate(t *testing.T) {
	repo := &memAppointmentRepo{}
	key := entity.SlotKey{DoctorID: 1, Date: day(2025, time.June, 10), SlotTime: "09:00 AM"}
	repo.add(entity.Appointment{
		PatientID: uuid.New(), DoctorID: 1, Date: key.Date, SlotTime: key.SlotTime,
		Status: entity.StatusScheduled, NoShowProb: floatPtr(10),
	})

	// One past no-show out of two appointments: ratio 0.5, priority 0.5.
	patientID := uuid.New()
	repo.add(entity.Appointment{
		PatientID: patientID, DoctorID: 2, Date: day(2025, time.May, 1), SlotTime: "08:00 AM",
		Status: entity.StatusNoShow,
	})
	repo.add(entity.Appointment{
		PatientID: patientID, DoctorID: 2, Date: day(2025, time.May, 8), SlotTime: "08:00 AM",
		Status: entity.StatusAttended,
	})

	svc := NewAvailabilityService(testLogger(), repo)
	decision, err := svc.Evaluate(context.Background(), key, patientID)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if decision.Admitted || decision.Reason != ReasonLowPriority {
		t.Errorf("low-priority patient: got %+v, want denial with reason %q", decision, ReasonLowPriority)
	}
}

func TestEvaluateCombinedRiskBoundary(t *testing.T) {
	tests := []struct {
		name         string
		occupantProb float64
		wantAdmitted bool
		wantReason   string
	}{
		{"occupant risk below budget", 49.9, true, ""},
		{"occupant risk at budget", 50.0, false, ReasonCombinedRisk},
		{"occupant risk above budget", 80.0, false, ReasonCombinedRisk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memAppointmentRepo{}
			key := entity.SlotKey{DoctorID: 1, Date: day(2025, time.June, 10), SlotTime: "09:00 AM"}
			repo.add(entity.Appointment{
				PatientID: uuid.New(), DoctorID: 1, Date: key.Date, SlotTime: key.SlotTime,
				Status: entity.StatusScheduled, NoShowProb: floatPtr(tt.occupantProb),
			})
			svc := NewAvailabilityService(testLogger(), repo)

			// No history: priority 1.0, so only the risk rule can deny.
			decision, err := svc.Evaluate(context.Background(), key, uuid.New())
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if decision.Admitted != tt.wantAdmitted || decision.Reason != tt.wantReason {
				t.Errorf("got %+v, want admitted=%v reason=%q", decision, tt.wantAdmitted, tt.wantReason)
			}
		})
	}
}

func TestNoShowHistoryRatio(t *testing.T) {
	repo := &memAppointmentRepo{}
	patientID := uuid.New()
	cutoff := day(2025, time.June, 10)

	svc := NewAvailabilityService(testLogger(), repo)
	ratio, err := svc.NoShowHistoryRatio(context.Background(), patientID, cutoff)
	if err != nil {
		t.Fatalf("NoShowHistoryRatio returned error: %v", err)
	}
	if ratio != 0.0 {
		t.Errorf("no history should give ratio 0.0, got %v", ratio)
	}

	// Three past appointments, one no-show; one future appointment that must
	// not count.
	repo.add(entity.Appointment{PatientID: patientID, Date: day(2025, time.May, 1), Status: entity.StatusNoShow})
	repo.add(entity.Appointment{PatientID: patientID, Date: day(2025, time.May, 8), Status: entity.StatusAttended})
	repo.add(entity.Appointment{PatientID: patientID, Date: day(2025, time.May, 15), Status: entity.StatusAttended})
	repo.add(entity.Appointment{PatientID: patientID, Date: day(2025, time.July, 1), Status: entity.StatusNoShow})

	ratio, err = svc.NoShowHistoryRatio(context.Background(), patientID, cutoff)
	if err != nil {
		t.Fatalf("NoShowHistoryRatio returned error: %v", err)
	}
	want := 1.0 / 3.0
	if ratio != want {
		t.Errorf("ratio = %v, want %v", ratio, want)
	}
}

func TestAvailableSlots(t *testing.T) {
	repo := &memAppointmentRepo{}
	date := day(2025, time.June, 10)

	// 08:00 AM full, 09:00 AM holds one risky occupant, the rest free.
	for i := 0; i < MaxPerSlot; i++ {
		repo.add(entity.Appointment{
			PatientID: uuid.New(), DoctorID: 1, Date: date, SlotTime: "08:00 AM",
			Status: entity.StatusScheduled, NoShowProb: floatPtr(5),
		})
	}
	repo.add(entity.Appointment{
		PatientID: uuid.New(), DoctorID: 1, Date: date, SlotTime: "09:00 AM",
		Status: entity.StatusScheduled, NoShowProb: floatPtr(60),
	})

	svc := NewAvailabilityService(testLogger(), repo)
	slots, err := svc.AvailableSlots(context.Background(), 1, date, uuid.New())
	if err != nil {
		t.Fatalf("AvailableSlots returned error: %v", err)
	}

	if len(slots) != 8 {
		t.Fatalf("expected 8 available slots, got %d: %v", len(slots), slots)
	}
	for _, s := range slots {
		if s == "08:00 AM" || s == "09:00 AM" {
			t.Errorf("slot %q should not be available", s)
		}
	}
	if slots[0] != "10:00 AM" {
		t.Errorf("first available slot = %q, want %q", slots[0], "10:00 AM")
	}
}
