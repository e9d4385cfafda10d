// internal/interaction/handlers.go

package interaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sparkmatch/sparkmatch-backend/internal/common/utils"
	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req RecordInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.RecordInteraction(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfInteraction), errors.Is(err, ErrInvalidAction):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, profile.ErrProfileNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record interaction")
		}
		return
	}

	status := http.StatusOK
	if result.MatchCreated {
		status = http.StatusCreated
	}
	utils.RespondWithData(w, status, result)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit, offset := 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	matches, err := h.service.ListMatches(r.Context(), userID, limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list matches")
		return
	}

	utils.RespondWithData(w, http.StatusOK, matches)
}
