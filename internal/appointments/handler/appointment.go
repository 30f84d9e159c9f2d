package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"medbook/internal/appointments/service"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"
	"medbook/pkg/model"
	"medbook/pkg/slot"

	"github.com/julienschmidt/httprouter"
)

type AppointmentHandler struct {
	service service.AppointmentService
	log     *logger.Logger
}

func NewAppointmentHandler(service service.AppointmentService, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log,
	}
}

type createAppointmentRequest struct {
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`
	TimeOfDay string `json:"time_of_day"`
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	date, err := slot.ParseDate(req.Date)
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid date, must be YYYY-MM-DD",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	appt := &model.Appointment{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      date,
		TimeOfDay: req.TimeOfDay,
	}

	created, err := h.service.Create(r.Context(), appt, time.Now())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Cancel(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AppointmentHandler) OccupiedTimes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	doctorID := ps.ByName("doctorId")

	date, err := slot.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Query parameter 'date' is required, must be YYYY-MM-DD",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "OccupiedTimes", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	times, err := h.service.OccupiedTimes(r.Context(), doctorID, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "OccupiedTimes", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, times); err != nil {
		h.log.Error("failed to write success response", "handler", "OccupiedTimes", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) AvailableTimes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	doctorID := ps.ByName("doctorId")
	patientID := r.URL.Query().Get("patient_id")

	date, err := slot.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Query parameter 'date' is required, must be YYYY-MM-DD",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AvailableTimes", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	times, err := h.service.AvailableTimes(r.Context(), doctorID, patientID, date, time.Now())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AvailableTimes", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, times); err != nil {
		h.log.Error("failed to write success response", "handler", "AvailableTimes", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) ListByPatient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	patientID := ps.ByName("patientId")

	details, err := h.service.ListByPatient(r.Context(), patientID, time.Now())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByPatient", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, details); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByPatient", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) DayStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stats, err := h.service.DayStats(r.Context(), ps.ByName("doctorRef"), time.Now())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DayStats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "DayStats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) WeeklyStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stats, err := h.service.WeeklyStats(r.Context(), ps.ByName("doctorRef"), time.Now())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "WeeklyStats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "WeeklyStats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/appointments", h.Create)
	router.DELETE("/api/v1/appointments/id/:id", h.Cancel)
	router.GET("/api/v1/appointments/occupied/:doctorId", h.OccupiedTimes)
	router.GET("/api/v1/appointments/available/:doctorId", h.AvailableTimes)
	router.GET("/api/v1/appointments/patient/:patientId", h.ListByPatient)
	router.GET("/api/v1/appointments/stats/day/:doctorRef", h.DayStats)
	router.GET("/api/v1/appointments/stats/week/:doctorRef", h.WeeklyStats)
}
