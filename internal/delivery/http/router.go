package http

import (
	"net/http"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/http/handler"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/internal/delivery/http/middleware"
	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/pkg/response"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	AppointmentHandler *handler.AppointmentHandler
	AdminHandler       *handler.AdminHandler
	CatalogHandler     *handler.CatalogHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.CORS)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, http.StatusOK, "OK", nil)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", cfg.AuthHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", cfg.AuthHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", cfg.AuthHandler.RefreshToken).Methods(http.MethodPost)

	// Authenticated
	protected := api.PathPrefix("").Subrouter()
	protected.Use(cfg.AuthMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", cfg.AuthHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", cfg.AuthHandler.Me).Methods(http.MethodGet)

	protected.HandleFunc("/hospitals", cfg.CatalogHandler.GetHospitals).Methods(http.MethodGet)
	protected.HandleFunc("/hospitals/{hospitalId}/departments", cfg.CatalogHandler.GetDepartments).Methods(http.MethodGet)
	protected.HandleFunc("/departments/{departmentId}/doctors", cfg.CatalogHandler.GetDoctors).Methods(http.MethodGet)

	// Patient
	patient := protected.PathPrefix("/appointments").Subrouter()
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("", cfg.AppointmentHandler.Book).Methods(http.MethodPost)
	patient.HandleFunc("/my", cfg.AppointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/check-slot", cfg.AppointmentHandler.CheckSlot).Methods(http.MethodGet)
	patient.HandleFunc("/available-slots", cfg.AppointmentHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Admin
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/appointments", cfg.AdminHandler.GetAllAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}/attend", cfg.AdminHandler.MarkAttended).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{id}/close", cfg.AdminHandler.Close).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{id}/reschedule", cfg.AdminHandler.Reschedule).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{id}/auto-reschedule", cfg.AdminHandler.AutoRescheduleSingle).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/auto-reschedule", cfg.AdminHandler.AutoRescheduleBatch).Methods(http.MethodPost)
	admin.HandleFunc("/sweep/run", cfg.AdminHandler.RunSweep).Methods(http.MethodPost)

	return r
}
