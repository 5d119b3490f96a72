package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/camden-git/familyring/models"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	writeAPIErrors(w, httpStatus, APIErrorDetail{Code: code, Detail: detail})
}

func writeAPIErrors(w http.ResponseWriter, httpStatus int, details ...APIErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	for i := range details {
		details[i].Status = strconv.Itoa(httpStatus)
	}
	_ = json.NewEncoder(w).Encode(APIErrorResponse{Errors: details})
}

// writeDomainError maps the family error kinds onto HTTP statuses. Anything
// else is logged and reported as an internal error.
func writeDomainError(w http.ResponseWriter, action string, err error) {
	var (
		validation *models.ValidationError
		duplicate  *models.DuplicateCodeError
		parent     *models.ParentNotFoundError
		partner    *models.PartnerNotFoundError
		person     *models.PersonNotFoundError
	)
	switch {
	case errors.As(err, &validation):
		writeAPIErrors(w, http.StatusBadRequest, APIErrorDetail{Code: "validation_failed", Detail: validation.Error(), Field: validation.Field})
	case errors.As(err, &duplicate):
		WriteAPIError(w, http.StatusConflict, "duplicate_code", duplicate.Error())
	case errors.As(err, &parent):
		WriteAPIError(w, http.StatusNotFound, "parent_not_found", parent.Error())
	case errors.As(err, &partner):
		WriteAPIError(w, http.StatusNotFound, "partner_not_found", partner.Error())
	case errors.As(err, &person):
		WriteAPIError(w, http.StatusNotFound, "person_not_found", person.Error())
	default:
		log.Printf("Error %s: %v", action, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to "+action)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}
