package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"neuroassess/internal/assessment"
	"neuroassess/internal/platform/logger"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// An empty body leaves dst at its zero value.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return validate.Struct(dst)
}

// statusFor maps session and service errors to HTTP status codes
func statusFor(err error) int {
	var verr *assessment.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, assessment.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, assessment.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, assessment.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, assessment.ErrNoQuestions):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
