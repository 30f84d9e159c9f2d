package handler

import (
	"encoding/json"
	"net/http"

	"medbook/internal/doctors/service"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"
	"medbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DirectoryHandler struct {
	service service.DirectoryService
	log     *logger.Logger
}

func NewDirectoryHandler(service service.DirectoryService, log *logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
		log:     log,
	}
}

func (h *DirectoryHandler) ListSpecialties(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	specialties, err := h.service.ListSpecialtiesWithDoctors(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSpecialties", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, specialties); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSpecialties", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DirectoryHandler) AddDoctor(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var doctor model.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddDoctor", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	created, err := h.service.AddDoctor(r.Context(), &doctor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddDoctor", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "AddDoctor", "operation", "WriteCreated", "error", err)
	}
}

func (h *DirectoryHandler) RemoveDoctor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.RemoveDoctor(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveDoctor", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DirectoryHandler) AddSpecialty(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var specialty model.Specialty
	if err := json.NewDecoder(r.Body).Decode(&specialty); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddSpecialty", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	created, err := h.service.AddSpecialty(r.Context(), &specialty)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddSpecialty", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "AddSpecialty", "operation", "WriteCreated", "error", err)
	}
}

func (h *DirectoryHandler) RemoveSpecialty(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.RemoveSpecialty(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveSpecialty", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DirectoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/specialties", h.ListSpecialties)
	router.POST("/api/v1/specialties", h.AddSpecialty)
	router.DELETE("/api/v1/specialties/id/:id", h.RemoveSpecialty)
	router.POST("/api/v1/doctors", h.AddDoctor)
	router.DELETE("/api/v1/doctors/id/:id", h.RemoveDoctor)
}
