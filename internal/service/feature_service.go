package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/entity"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/domain/repository"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/calendar"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrInvalidHospital = errors.New("hospital does not resolve to a location")

// FeatureService derives the model input vector for a candidate appointment
// from store state and calendar facts. Building features is a pure read.
type FeatureService struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	hospitalRepo    repository.HospitalRepository
	referenceCity   string
}

func NewFeatureService(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	hospitalRepo repository.HospitalRepository,
	referenceCity string,
) *FeatureService {
	return &FeatureService{
		log:             log,
		appointmentRepo: appointmentRepo,
		hospitalRepo:    hospitalRepo,
		referenceCity:   referenceCity,
	}
}

// Build computes the feature vector for booking patientID with hospitalID on
// candidateDate at slot. Lead time is measured from referenceDate; callers
// must have rejected candidate dates before the reference date already.
func (s *FeatureService) Build(
	ctx context.Context,
	patientID uuid.UUID,
	hospitalID int,
	candidateDate time.Time,
	slot entity.SlotTime,
	referenceDate time.Time,
) (FeatureVector, error) {
	past, err := s.appointmentRepo.FindPastByPatient(ctx, patientID, candidateDate)
	if err != nil {
		return FeatureVector{}, fmt.Errorf("load past appointments: %w", err)
	}

	previousNoShows := 0
	for _, appt := range past {
		if appt.Status == entity.StatusNoShow {
			previousNoShows++
		}
	}

	hospital, err := s.hospitalRepo.FindByID(ctx, hospitalID)
	if err != nil {
		return FeatureVector{}, fmt.Errorf("load hospital %d: %w", hospitalID, err)
	}
	if hospital == nil || hospital.Location == "" {
		return FeatureVector{}, ErrInvalidHospital
	}

	distanceFar := 1
	if strings.Contains(hospital.Location, s.referenceCity) {
		distanceFar = 0
	}

	morning := 0
	if slot.IsMorning() {
		morning = 1
	}

	weekend := 0
	if calendar.IsWeekend(candidateDate) {
		weekend = 1
	}

	return FeatureVector{
		PreviousNoShows: previousNoShows,
		LeadTimeDays:    calendar.DaysBetween(referenceDate, candidateDate),
		DistanceFar:     distanceFar,
		Morning:         morning,
		Weekend:         weekend,
	}, nil
}
