package handler

import (
	"net/http"
	"time"

	"medbook/internal/suggestions/service"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type SuggestionHandler struct {
	service service.SuggestionService
	log     *logger.Logger
}

func NewSuggestionHandler(service service.SuggestionService, log *logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		service: service,
		log:     log,
	}
}

func (h *SuggestionHandler) Suggest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	specialty := r.URL.Query().Get("specialty")
	if specialty == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Query parameter 'specialty' is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Suggest", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	suggestions, err := h.service.Suggest(r.Context(), specialty, time.Now())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Suggest", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, suggestions); err != nil {
		h.log.Error("failed to write success response", "handler", "Suggest", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SuggestionHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/suggestions", h.Suggest)
}
