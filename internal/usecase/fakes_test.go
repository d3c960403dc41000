package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/service"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func floatPtr(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type memAppointmentRepo struct {
	appts []entity.Appointment
}

func (m *memAppointmentRepo) add(appt entity.Appointment) uuid.UUID {
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	m.appts = append(m.appts, appt)
	return appt.ID
}

func (m *memAppointmentRepo) get(id uuid.UUID) *entity.Appointment {
	for i := range m.appts {
		if m.appts[i].ID == id {
			return &m.appts[i]
		}
	}
	return nil
}

func (m *memAppointmentRepo) Create(_ context.Context, appt *entity.Appointment) error {
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	m.appts = append(m.appts, *appt)
	return nil
}

func (m *memAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Appointment, error) {
	if appt := m.get(id); appt != nil {
		cp := *appt
		return &cp, nil
	}
	return nil, nil
}

func (m *memAppointmentRepo) FindBySlotKey(_ context.Context, key entity.SlotKey) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range m.appts {
		if a.DoctorID == key.DoctorID && a.Date.Equal(key.Date) && a.SlotTime == key.SlotTime &&
			a.Status != entity.StatusClosed {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) FindAnyAtSlot(_ context.Context, key entity.SlotKey, excludeID uuid.UUID) (*entity.Appointment, error) {
	for _, a := range m.appts {
		if a.DoctorID == key.DoctorID && a.Date.Equal(key.Date) && a.SlotTime == key.SlotTime &&
			a.ID != excludeID {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memAppointmentRepo) FindActiveByDoctorAndDate(_ context.Context, doctorID int, date time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range m.appts {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Status != entity.StatusClosed {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotTime < out[j].SlotTime })
	return out, nil
}

func (m *memAppointmentRepo) FindPastByPatient(_ context.Context, patientID uuid.UUID, before time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID && a.Date.Before(before) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) FindByDateAndStatuses(_ context.Context, date time.Time, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range m.appts {
		if !a.Date.Equal(date) {
			continue
		}
		for _, s := range statuses {
			if a.Status == s {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) FindHighRisk(_ context.Context, threshold float64) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range m.appts {
		if a.Status == entity.StatusScheduled && a.NoShowProb != nil && *a.NoShowProb > threshold {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) FindByPatientID(_ context.Context, patientID uuid.UUID, _, _ string) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAppointmentRepo) FindAll(_ context.Context, _, _ string) ([]entity.Appointment, error) {
	return append([]entity.Appointment(nil), m.appts...), nil
}

func (m *memAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.AppointmentStatus) error {
	appt := m.get(id)
	if appt == nil {
		return errors.New("not found")
	}
	appt.Status = status
	return nil
}

func (m *memAppointmentRepo) UpdateSlot(_ context.Context, id uuid.UUID, date time.Time, slot entity.SlotTime, status entity.AppointmentStatus) error {
	appt := m.get(id)
	if appt == nil {
		return errors.New("not found")
	}
	appt.Date = date
	appt.SlotTime = slot
	appt.Status = status
	return nil
}

func (m *memAppointmentRepo) Reschedule(_ context.Context, id uuid.UUID, date time.Time, slot entity.SlotTime, status entity.AppointmentStatus, noShowProb, rescheduleProb float64) error {
	appt := m.get(id)
	if appt == nil {
		return errors.New("not found")
	}
	appt.Date = date
	appt.SlotTime = slot
	appt.Status = status
	appt.NoShowProb = &noShowProb
	appt.RescheduleProb = &rescheduleProb
	return nil
}

type memHospitalRepo struct {
	hospitals []entity.Hospital
	doctors   []entity.Doctor
}

func (m *memHospitalRepo) FindAll(_ context.Context) ([]entity.Hospital, error) {
	return m.hospitals, nil
}

func (m *memHospitalRepo) FindByID(_ context.Context, id int) (*entity.Hospital, error) {
	for _, h := range m.hospitals {
		if h.ID == id {
			cp := h
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memHospitalRepo) FindDepartmentsByHospital(_ context.Context, hospitalID int) ([]entity.Department, error) {
	var out []entity.Department
	for _, h := range m.hospitals {
		if h.ID == hospitalID {
			out = append(out, h.Departments...)
		}
	}
	return out, nil
}

func (m *memHospitalRepo) FindDoctorsByDepartment(_ context.Context, departmentID int) ([]entity.Doctor, error) {
	var out []entity.Doctor
	for _, d := range m.doctors {
		if d.DepartmentID == departmentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memHospitalRepo) FindDoctorByID(_ context.Context, id int) (*entity.Doctor, error) {
	for _, d := range m.doctors {
		if d.ID == id {
			cp := d
			return &cp, nil
		}
	}
	return nil, nil
}

type stubPredictor struct {
	noShow     float64
	reschedule float64
	err        error
}

func (p *stubPredictor) PredictNoShow(_ context.Context, _ service.FeatureVector) (float64, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.noShow, nil
}

func (p *stubPredictor) PredictReschedule(_ context.Context, _ service.FeatureVector) (float64, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.reschedule, nil
}

type recordingNotifier struct {
	sent []service.RescheduleDetails
}

func (n *recordingNotifier) NotifyReschedule(_ string, details service.RescheduleDetails) error {
	n.sent = append(n.sent, details)
	return nil
}

// passthroughLocker runs the critical section without any real locking.
type passthroughLocker struct{}

func (passthroughLocker) WithSlotLock(_ context.Context, _ entity.SlotKey, fn func() error) error {
	return fn()
}

// hookLocker records every locked key and, when set, invokes hook before the
// critical section runs, standing in for a writer that committed just ahead
// of the lock acquisition.
type hookLocker struct {
	hook func(key entity.SlotKey)
	keys []entity.SlotKey
}

func (l *hookLocker) WithSlotLock(_ context.Context, key entity.SlotKey, fn func() error) error {
	l.keys = append(l.keys, key)
	if l.hook != nil {
		l.hook(key)
	}
	return fn()
}

type fixedClock struct{ today time.Time }

func (c fixedClock) Today() time.Time { return calendar.Day(c.today) }
