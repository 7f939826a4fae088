package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jask/jaskcontacts/internal/domain"
)

// Prefix is where the people API is mounted.
const Prefix = "/api/v1.0"

// Server exposes a PeopleRepository over HTTP.
type Server struct {
	People domain.PeopleRepository
	Logger *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// NewRouter wires the people endpoints.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods("GET")

	api := r.PathPrefix(Prefix).Subrouter()
	api.HandleFunc("/people", s.ListPeopleHandler).Methods("GET")
	api.HandleFunc("/people/count", s.CountPeopleHandler).Methods("GET")
	api.HandleFunc("/people/batch", s.AddPeopleHandler).Methods("POST")
	api.HandleFunc("/people/{id}", s.GetPersonHandler).Methods("GET")
	api.HandleFunc("/people", s.AddPersonHandler).Methods("POST")
	api.HandleFunc("/people/{id}", s.UpdatePersonHandler).Methods("PUT")
	api.HandleFunc("/people/{id}", s.RemovePersonHandler).Methods("DELETE")
	api.Use(s.logRequests)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger().Debug("api request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
