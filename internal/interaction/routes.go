package interaction

import (
	"github.com/gorilla/mux"
	"github.com/sparkmatch/sparkmatch-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/interactions").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.RecordInteraction).Methods("POST")
	api.HandleFunc("/matches", handler.ListMatches).Methods("GET")
}
