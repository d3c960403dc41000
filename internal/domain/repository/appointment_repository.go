package repository

import (
	"context"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository is the store abstraction the scheduling core runs
// against. Implementations must apply date+slot+status+probability updates as
// a single record write, never partially.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)

	// FindBySlotKey returns the non-closed occupants of a slot key.
	FindBySlotKey(ctx context.Context, key entity.SlotKey) ([]entity.Appointment, error)

	// FindAnyAtSlot returns any appointment other than excludeID occupying the
	// exact slot key, regardless of status. Used by the strict manual
	// reschedule conflict check.
	FindAnyAtSlot(ctx context.Context, key entity.SlotKey, excludeID uuid.UUID) (*entity.Appointment, error)

	// FindActiveByDoctorAndDate returns a doctor's non-closed appointments on
	// one day, the working set for slot search and availability listing.
	FindActiveByDoctorAndDate(ctx context.Context, doctorID int, date time.Time) ([]entity.Appointment, error)

	// FindPastByPatient returns a patient's appointments dated strictly
	// before the given date.
	FindPastByPatient(ctx context.Context, patientID uuid.UUID, before time.Time) ([]entity.Appointment, error)

	// FindByDateAndStatuses returns appointments on an exact date whose
	// status is in the given set, with patient and reference rows preloaded.
	FindByDateAndStatuses(ctx context.Context, date time.Time, statuses []entity.AppointmentStatus) ([]entity.Appointment, error)

	// FindHighRisk returns scheduled appointments whose stored no-show
	// probability exceeds the threshold.
	FindHighRisk(ctx context.Context, threshold float64) ([]entity.Appointment, error)

	FindByPatientID(ctx context.Context, patientID uuid.UUID, sortBy, sortOrder string) ([]entity.Appointment, error)
	FindAll(ctx context.Context, sortBy, sortOrder string) ([]entity.Appointment, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error

	// UpdateSlot rewrites date, slot and status without touching the stored
	// probabilities (the auto-reschedule fast path).
	UpdateSlot(ctx context.Context, id uuid.UUID, date time.Time, slot entity.SlotTime, status entity.AppointmentStatus) error

	// Reschedule atomically rewrites date, slot, status and both
	// probabilities in one record update.
	Reschedule(ctx context.Context, id uuid.UUID, date time.Time, slot entity.SlotTime, status entity.AppointmentStatus, noShowProb, rescheduleProb float64) error
}
