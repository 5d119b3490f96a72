package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/familyring/models"
	"github.com/camden-git/familyring/workspace"
)

type PersonHandler struct {
	WS *workspace.Workspace
}

func decodeFields(w http.ResponseWriter, r *http.Request) (models.PersonFields, bool) {
	var fields models.PersonFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return fields, false
	}
	return fields, true
}

// CreateRoot handles POST /api/people/root
func (ph *PersonHandler) CreateRoot(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	person, err := ph.WS.CreateRoot(fields)
	if err != nil {
		writeDomainError(w, "create root", err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

// CreatePartner handles POST /api/people/{code}/partner
func (ph *PersonHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	person, err := ph.WS.CreatePartner(chi.URLParam(r, "code"), fields)
	if err != nil {
		writeDomainError(w, "create partner", err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

// CreateChild handles POST /api/people/{code}/children
func (ph *PersonHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	person, err := ph.WS.CreateChild(chi.URLParam(r, "code"), fields)
	if err != nil {
		writeDomainError(w, "create child", err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

// ListPeople handles GET /api/people, optionally filtered by ?q=
func (ph *PersonHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	var people []*models.Person
	if q := r.URL.Query().Get("q"); q != "" {
		people = ph.WS.Search(q)
	} else {
		people = ph.WS.List()
	}
	if people == nil {
		people = []*models.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

func (ph *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := ph.WS.Find(chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, "retrieve person", err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// UpdatePerson replaces the editable fields of a person. The response carries
// the person under their possibly new code.
func (ph *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}
	person, err := ph.WS.UpdatePerson(chi.URLParam(r, "code"), fields)
	if err != nil {
		writeDomainError(w, "update person", err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (ph *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := ph.WS.DeletePerson(chi.URLParam(r, "code")); err != nil {
		writeDomainError(w, "delete person", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
