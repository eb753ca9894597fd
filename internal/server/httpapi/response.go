package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/joseph-ayodele/po-tracker/internal/async"
	"github.com/joseph-ayodele/po-tracker/internal/common"
)

// Envelope statuses.
const (
	StatusSuccess    = "success"
	StatusProcessing = "processing"
	StatusError      = "error"
)

// Response is the body of every JSON endpoint.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, r *http.Request, code int, resp Response) {
	render.Status(r, code)
	render.JSON(w, r, resp)
}

func ok(w http.ResponseWriter, r *http.Request, msg string, data any) {
	respond(w, r, http.StatusOK, Response{Status: StatusSuccess, Message: msg, Data: data})
}

func fail(w http.ResponseWriter, r *http.Request, code int, msg string) {
	respond(w, r, code, Response{Status: StatusError, Message: msg})
}

// statusFor maps domain errors onto HTTP codes; anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnsupportedMedia):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrNotReady):
		return http.StatusAccepted
	case errors.Is(err, async.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// failErr writes err with its mapped status. Internal errors are logged and
// their detail hidden from the client.
func (s *Server) failErr(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		common.LoggerFrom(r.Context(), s.logger).Error("http.internal_error", "path", r.URL.Path, "error", err)
		fail(w, r, code, "internal server error")
		return
	}
	fail(w, r, code, err.Error())
}
