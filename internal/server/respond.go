package server

import (
	"encoding/json"
	"net/http"

	charmlog "github.com/charmbracelet/log"

	dagerrors "github.com/dagboard/dagboard/pkg/errors"
)

// errorResponse is the JSON error body: a machine-readable code and a
// human-readable message.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses and writes the
// error body. Unknown errors are 500s with a generic message; the cause
// is logged, not leaked.
func writeError(w http.ResponseWriter, logger *charmlog.Logger, err error) {
	code := dagerrors.GetCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "err", err)
		writeJSON(w, status, errorResponse{Code: string(dagerrors.ErrCodeInternal), Message: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: dagerrors.UserMessage(err)})
}

func statusFor(code dagerrors.Code) int {
	switch code {
	case dagerrors.ErrCodeEdgeRejected:
		return http.StatusUnprocessableEntity
	case dagerrors.ErrCodeInvalidFormat, dagerrors.ErrCodeInvalidInput,
		dagerrors.ErrCodeInvalidLabel, dagerrors.ErrCodeInvalidGraph:
		return http.StatusBadRequest
	case dagerrors.ErrCodeNotFound, dagerrors.ErrCodeNodeNotFound,
		dagerrors.ErrCodeEdgeNotFound, dagerrors.ErrCodeGraphNotFound:
		return http.StatusNotFound
	case dagerrors.ErrCodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body, rejecting unknown fields so
// client typos surface as 400s instead of silently dropped data.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dagerrors.Wrap(dagerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
