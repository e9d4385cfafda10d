package profile

import (
	"github.com/gorilla/mux"
	"github.com/sparkmatch/sparkmatch-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/profiles").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/me", handler.CreateProfile).Methods("POST")
	api.HandleFunc("/me", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/me", handler.UpdateProfile).Methods("PATCH")
	api.HandleFunc("/me", handler.DeleteAccount).Methods("DELETE")
	api.HandleFunc("/me/location", handler.UpdateLocation).Methods("PUT")
	api.HandleFunc("/me/visibility", handler.SetVisibility).Methods("PUT")

	api.HandleFunc("/me/photos", handler.UploadPhoto).Methods("POST")
	api.HandleFunc("/me/photos/{photoId}", handler.DeletePhoto).Methods("DELETE")

	api.HandleFunc("/{userId}", handler.GetProfile).Methods("GET")
}
