package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tidewell/scheduler/internal/api/respond"
	"github.com/tidewell/scheduler/internal/api/validate"
	"github.com/tidewell/scheduler/internal/ics"
	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/store"
)

const maxBodyBytes = 1 << 20

// AppointmentHandler serves the appointment collection of one store.
type AppointmentHandler struct {
	store  store.Appointments
	prodID string
	now    func() time.Time
}

func NewAppointmentHandler(s store.Appointments) *AppointmentHandler {
	return &AppointmentHandler{store: s, prodID: ics.DefaultProdID, now: time.Now}
}

type createResponse struct {
	ID string `json:"id"`
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "list appointments")
		return
	}
	if docs == nil {
		docs = []model.StoredDocument{}
	}
	respond.WriteJSON(w, http.StatusOK, docs)
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if err := decode(w, r, &doc); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Document(doc); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	id, err := h.store.Create(r.Context(), doc)
	if err != nil {
		writeStoreError(w, r, err, "create appointment")
		return
	}
	zerolog.Ctx(r.Context()).Debug().Str("id", id).Msg("appointment created")
	respond.WriteJSON(w, http.StatusCreated, createResponse{ID: id})
}

// UpdateAppointment handles PATCH /api/appointments/{id}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var changes model.Changes
	if err := decode(w, r, &changes); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Changes(changes); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.store.Update(r.Context(), id, changes); err != nil {
		writeStoreError(w, r, err, "update appointment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "delete appointment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportCalendar handles GET /api/appointments.ics
func (h *AppointmentHandler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "export appointments")
		return
	}
	appts := make([]model.Appointment, 0, len(docs))
	for i, d := range docs {
		appts = append(appts, model.Appointment{
			Key:       i,
			ID:        model.ConfirmedID(d.ID),
			Title:     d.Title,
			Location:  d.Location,
			Notes:     d.Notes,
			StartDate: d.StartDate,
			EndDate:   d.EndDate,
		})
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="appointments.ics"`)
	if err := ics.Export(w, appts, h.prodID, h.now()); err != nil {
		zerolog.Ctx(r.Context()).Error().Stack().Err(err).Msg("calendar export failed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "invalid json")
	}
	return nil
}

// writeStoreError maps model sentinels to status codes; anything else is a 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteConflict(w, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Stack().Err(err).Str("op", op).Msg("store failure")
		respond.WriteInternalError(w)
	}
}
