package gateway

import (
	"encoding/json"
	stderrors "errors"
	"group-chat/errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Success bool        `json:"success"`
	Kind    errors.Kind `json:"kind,omitempty"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusOf maps a failure kind to its HTTP status. Unknown failures are internal errors.
func statusOf(kind errors.Kind) int {
	switch kind {
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindForbidden:
		return http.StatusForbidden
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindInvariant:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errors.KindOf(err)
	status := statusOf(kind)
	message := errors.MessageOf(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "Internal server error"
	}
	writeJSON(w, status, errorResponse{Kind: kind, Message: message})
}

// decode reads a JSON body into dst and validates its tags.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Validation("Malformed request body")
	}
	return s.check(dst)
}

func (s *Server) check(dst any) error {
	err := s.validate.Struct(dst)
	var invalid validator.ValidationErrors
	if stderrors.As(err, &invalid) && len(invalid) > 0 {
		return errors.Validation("Invalid field " + invalid[0].Field() + ": " + invalid[0].Tag())
	}
	return err
}
