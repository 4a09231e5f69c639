package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jobly/jobly/jobly"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(code jobly.ErrorCode) int {
	switch code {
	case jobly.ErrBadRequest:
		return http.StatusBadRequest
	case jobly.ErrUnauthorized:
		return http.StatusUnauthorized
	case jobly.ErrForbidden:
		return http.StatusForbidden
	case jobly.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": {"message", "status"}}. Backend
// failures are logged and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(jobly.CodeOf(err))

	msg := err.Error()
	var je *jobly.Error
	if errors.As(err, &je) {
		msg = je.Msg
	}
	if status == http.StatusInternalServerError {
		s.log.Errorw("request failed", "requestID", RequestID(r.Context()), "error", err)
		msg = http.StatusText(status)
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Message: msg, Status: status}})
}

// decodeBody reads a single JSON value from the request into v. Unknown
// object keys are rejected.
func decodeBody(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return jobly.NewError(jobly.ErrBadRequest, "request body is empty")
		}
		return jobly.NewError(jobly.ErrBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
	}
	if dec.More() {
		return jobly.NewError(jobly.ErrBadRequest, "request body must hold a single JSON value")
	}
	return nil
}
