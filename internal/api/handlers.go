package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/validation"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// CountResponse is the body of GET /people/count.
type CountResponse struct {
	Count int `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) fault(w http.ResponseWriter, r *http.Request, err error) {
	s.logger().Error("repository fault", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return uuid.Nil, false
	}
	return id, true
}

// checkPerson rejects people that fail field validation with 422.
func checkPerson(w http.ResponseWriter, p domain.Person) bool {
	errs := validation.Validate(validation.Fields{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     domain.Deref(p.Email),
		Phone:     domain.Deref(p.Phone),
		ImagePath: domain.Deref(p.ImagePath),
	})
	if errs.Valid() {
		return true
	}
	body := ErrorResponse{Error: errs.Joined(), Fields: map[string]string{}}
	for f, msg := range errs {
		body.Fields[f.String()] = msg
	}
	writeJSON(w, http.StatusUnprocessableEntity, body)
	return false
}

// ListPeopleHandler returns the full list.
func (s *Server) ListPeopleHandler(w http.ResponseWriter, r *http.Request) {
	people, err := domain.Snapshot(r.Context(), s.People)
	if err != nil {
		s.fault(w, r, err)
		return
	}
	if people == nil {
		people = []domain.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

func (s *Server) CountPeopleHandler(w http.ResponseWriter, r *http.Request) {
	n, err := s.People.Count(r.Context())
	if err != nil {
		s.fault(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// GetPersonHandler returns one person or 404.
func (s *Server) GetPersonHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.People.FindByID(r.Context(), id)
	if err != nil {
		s.fault(w, r, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AddPersonHandler creates a person. A missing id is generated.
func (s *Server) AddPersonHandler(w http.ResponseWriter, r *http.Request) {
	var p domain.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if !checkPerson(w, p) {
		return
	}
	ok, err := s.People.Add(r.Context(), p)
	if err != nil {
		s.fault(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "person not added")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// AddPeopleHandler creates a batch, all or nothing.
func (s *Server) AddPeopleHandler(w http.ResponseWriter, r *http.Request) {
	var people []domain.Person
	if err := json.NewDecoder(r.Body).Decode(&people); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	for i := range people {
		if people[i].ID == uuid.Nil {
			people[i].ID = uuid.New()
		}
		if !checkPerson(w, people[i]) {
			return
		}
	}
	ok, err := s.People.AddAll(r.Context(), people)
	if err != nil {
		s.fault(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "people not added")
		return
	}
	writeJSON(w, http.StatusCreated, people)
}

// UpdatePersonHandler replaces the person at the path id.
func (s *Server) UpdatePersonHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p domain.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	p.ID = id
	if !checkPerson(w, p) {
		return
	}
	updated, err := s.People.Update(r.Context(), p)
	if err != nil {
		s.fault(w, r, err)
		return
	}
	if !updated {
		writeError(w, http.StatusConflict, "person not updated")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) RemovePersonHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	removed, err := s.People.Remove(r.Context(), domain.Person{ID: id})
	if err != nil {
		s.fault(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusConflict, "person not removed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
