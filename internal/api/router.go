// Package api exposes a store.Appointments backend over HTTP.
package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tidewell/scheduler/internal/api/recovery"
	"github.com/tidewell/scheduler/internal/api/requestid"
	"github.com/tidewell/scheduler/internal/store"
)

// NewRouter wires the appointment, health and metrics routes.
func NewRouter(st store.Appointments, health *HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(requestid.Middleware, recovery.Middleware, Metrics)

	appointments := NewAppointmentHandler(st)

	router.HandleFunc("/api/health", health.CheckHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/api/appointments", appointments.ListAppointments).Methods("GET")
	router.HandleFunc("/api/appointments", appointments.CreateAppointment).Methods("POST")
	router.HandleFunc("/api/appointments.ics", appointments.ExportCalendar).Methods("GET")
	router.HandleFunc("/api/appointments/{id}", appointments.UpdateAppointment).Methods("PATCH")
	router.HandleFunc("/api/appointments/{id}", appointments.DeleteAppointment).Methods("DELETE")

	return router
}
