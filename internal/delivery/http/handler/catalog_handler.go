package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/usecase"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	log            *logrus.Logger
	catalogUsecase *usecase.CatalogUsecase
}

func NewCatalogHandler(log *logrus.Logger, catalogUsecase *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{
		log:            log,
		catalogUsecase: catalogUsecase,
	}
}

func (h *CatalogHandler) GetHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.catalogUsecase.GetHospitals(r.Context())
	if err != nil {
		h.log.Errorf("Failed to list hospitals: %+v", err)
		response.InternalServerError(w, "Failed to list hospitals")
		return
	}

	response.Success(w, http.StatusOK, "Hospitals retrieved successfully", hospitals)
}

func (h *CatalogHandler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := strconv.Atoi(mux.Vars(r)["hospitalId"])
	if err != nil || hospitalID < 1 {
		response.BadRequest(w, "Invalid hospital ID")
		return
	}

	departments, err := h.catalogUsecase.GetDepartments(r.Context(), hospitalID)
	if err != nil {
		if errors.Is(err, usecase.ErrHospitalNotFound) {
			response.NotFound(w, "Hospital not found")
			return
		}
		h.log.Errorf("Failed to list departments: %+v", err)
		response.InternalServerError(w, "Failed to list departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *CatalogHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	departmentID, err := strconv.Atoi(mux.Vars(r)["departmentId"])
	if err != nil || departmentID < 1 {
		response.BadRequest(w, "Invalid department ID")
		return
	}

	doctors, err := h.catalogUsecase.GetDoctors(r.Context(), departmentID)
	if err != nil {
		h.log.Errorf("Failed to list doctors: %+v", err)
		response.InternalServerError(w, "Failed to list doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}
