package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"medbook/internal/blocks/service"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"
	"medbook/pkg/slot"

	"github.com/julienschmidt/httprouter"
)

type BlockHandler struct {
	service service.BlockService
	log     *logger.Logger
}

func NewBlockHandler(service service.BlockService, log *logger.Logger) *BlockHandler {
	return &BlockHandler{
		service: service,
		log:     log,
	}
}

type blockRequest struct {
	DoctorRef string `json:"doctor_ref"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type blockResponse struct {
	Displaced int `json:"displaced"`
}

type unblockResponse struct {
	Freed int `json:"freed"`
}

func (h *BlockHandler) decodeRequest(w http.ResponseWriter, r *http.Request, handler string) (*blockRequest, time.Time, bool) {
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
		}
		return nil, time.Time{}, false
	}

	date, err := slot.ParseDate(req.Date)
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid date, must be YYYY-MM-DD",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
		}
		return nil, time.Time{}, false
	}

	return &req, date, true
}

func (h *BlockHandler) Block(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, date, ok := h.decodeRequest(w, r, "Block")
	if !ok {
		return
	}

	displaced, err := h.service.BlockRange(r.Context(), req.DoctorRef, date, req.Start, req.End, time.Now())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Block", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, blockResponse{Displaced: displaced}); err != nil {
		h.log.Error("failed to write success response", "handler", "Block", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlockHandler) BlockAfternoon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	doctorRef := ps.ByName("doctorRef")

	displaced, err := h.service.BlockAfternoon(r.Context(), doctorRef, time.Now())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "BlockAfternoon", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, blockResponse{Displaced: displaced}); err != nil {
		h.log.Error("failed to write success response", "handler", "BlockAfternoon", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlockHandler) Unblock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, date, ok := h.decodeRequest(w, r, "Unblock")
	if !ok {
		return
	}

	freed, err := h.service.Unblock(r.Context(), req.DoctorRef, date, req.Start, req.End)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Unblock", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, unblockResponse{Freed: freed}); err != nil {
		h.log.Error("failed to write success response", "handler", "Unblock", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlockHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/schedule/block", h.Block)
	router.POST("/api/v1/schedule/block-afternoon/:doctorRef", h.BlockAfternoon)
	router.POST("/api/v1/schedule/unblock", h.Unblock)
}
