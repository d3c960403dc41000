package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusAttended    AppointmentStatus = "attended"
	StatusNoShow      AppointmentStatus = "no_show"
	StatusRescheduled AppointmentStatus = "rescheduled"
	StatusClosed      AppointmentStatus = "closed"
)

// IsTerminal reports whether no further status or schedule mutation is
// permitted from this state.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusAttended || s == StatusClosed
}

// IsActive reports whether the appointment still occupies its slot from the
// sweep's point of view.
func (s AppointmentStatus) IsActive() bool {
	return s == StatusScheduled || s == StatusRescheduled
}

// CanTransitionTo encodes the lifecycle state machine. Attended and closed are
// terminal; a no-show may still be marked attended (the mark corrects the
// sweep's verdict), rescheduled, or closed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StatusScheduled, StatusRescheduled:
		return next == StatusAttended || next == StatusNoShow ||
			next == StatusRescheduled || next == StatusClosed
	case StatusNoShow:
		return next == StatusAttended || next == StatusRescheduled || next == StatusClosed
	default:
		return false
	}
}

// Appointment is the central mutable record. Date and SlotTime are rewritten
// only by reschedule transitions; cancellation is modelled as StatusClosed,
// rows are never deleted.
type Appointment struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_patient_date" json:"patient_id"`
	HospitalID   int               `gorm:"not null" json:"hospital_id"`
	DepartmentID int               `gorm:"not null" json:"department_id"`
	DoctorID     int               `gorm:"not null;index:idx_appointments_slot_key" json:"doctor_id"`
	Date         time.Time         `gorm:"type:date;not null;index:idx_appointments_slot_key;index:idx_appointments_patient_date" json:"date"`
	SlotTime     SlotTime          `gorm:"type:varchar(10);not null;index:idx_appointments_slot_key" json:"slot_time"`
	Status       AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`

	// Probabilities are on a 0-100 scale and nil until first computed.
	NoShowProb     *float64 `gorm:"type:double precision" json:"no_show_prob"`
	RescheduleProb *float64 `gorm:"type:double precision" json:"reschedule_prob"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient    User       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Hospital   Hospital   `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Doctor     Doctor     `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// SlotKey returns the capacity-contention key of this appointment.
func (a *Appointment) SlotKey() SlotKey {
	return SlotKey{DoctorID: a.DoctorID, Date: a.Date, SlotTime: a.SlotTime}
}

// IsNoShowAbove reports whether the stored no-show probability exceeds the
// given threshold. A nil probability never exceeds anything.
func (a *Appointment) IsNoShowAbove(threshold float64) bool {
	return a.NoShowProb != nil && *a.NoShowProb > threshold
}
