package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	domainRepo "github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Hospital").
		Preload("Department").
		Preload("Doctor").
		Where("id = ?", id).
		First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) FindBySlotKey(ctx context.Context, key entity.SlotKey) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND slot_time = ? AND status != ?",
			key.DoctorID, key.Date, key.SlotTime, entity.StatusClosed).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) FindAnyAtSlot(ctx context.Context, key entity.SlotKey, excludeID uuid.UUID) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND slot_time = ? AND id != ?",
			key.DoctorID, key.Date, key.SlotTime, excludeID).
		First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) FindActiveByDoctorAndDate(ctx context.Context, doctorID int, date time.Time) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND status != ?", doctorID, date, entity.StatusClosed).
		Order("slot_time").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) FindPastByPatient(ctx context.Context, patientID uuid.UUID, before time.Time) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND date < ?", patientID, before).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) FindByDateAndStatuses(ctx context.Context, date time.Time, statuses []entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Hospital").
		Preload("Department").
		Preload("Doctor").
		Where("date = ? AND status IN ?", date, statuses).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) FindHighRisk(ctx context.Context, threshold float64) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Hospital").
		Preload("Department").
		Preload("Doctor").
		Where("no_show_prob > ? AND status = ?", threshold, entity.StatusScheduled).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID, sortBy, sortOrder string) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Hospital").
		Preload("Department").
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order(orderClause(sortBy, sortOrder)).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, sortBy, sortOrder string) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Hospital").
		Preload("Department").
		Preload("Doctor").
		Order(orderClause(sortBy, sortOrder)).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *appointmentRepository) UpdateSlot(ctx context.Context, id uuid.UUID, date time.Time, slot entity.SlotTime, status entity.AppointmentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"date":      date,
			"slot_time": slot,
			"status":    status,
		}).Error
}

func (r *appointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, slot entity.SlotTime, status entity.AppointmentStatus, noShowProb, rescheduleProb float64) error {
	return r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"date":            date,
			"slot_time":       slot,
			"status":          status,
			"no_show_prob":    noShowProb,
			"reschedule_prob": rescheduleProb,
		}).Error
}

// orderClause whitelists sortable columns; anything else falls back to date.
func orderClause(sortBy, sortOrder string) string {
	switch sortBy {
	case "date", "status":
	default:
		sortBy = "date"
	}
	if sortOrder != "desc" {
		sortOrder = "asc"
	}
	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
