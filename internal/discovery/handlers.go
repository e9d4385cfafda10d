// internal/discovery/handlers.go

package discovery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sparkmatch/sparkmatch-backend/internal/common/utils"
	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SearchCandidates(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	q := &SearchQuery{Limit: 20}

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Offset = n
		}
	}
	if v := r.URL.Query().Get("min_age"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.MinAge = &n
		}
	}
	if v := r.URL.Query().Get("max_age"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.MaxAge = &n
		}
	}
	if v := r.URL.Query().Get("max_distance_km"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MaxDistanceKm = &f
		}
	}

	if err := utils.ValidateStruct(q); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	candidates, err := h.service.SearchCandidates(r.Context(), userID, q)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrProfileNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidAgeRange):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrStoreUnavailable):
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Candidate search temporarily unavailable")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search candidates")
		}
		return
	}

	utils.RespondWithData(w, http.StatusOK, candidates)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	otherID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	score, err := h.service.ComputeCompatibility(r.Context(), userID, otherID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute compatibility")
		return
	}

	utils.RespondWithData(w, http.StatusOK, map[string]float64{"score": score})
}
