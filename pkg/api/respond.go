package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
)

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError responds with the error's code and status. Errors without a
// code are logged and reported as INTERNAL_ERROR without their message.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	body := errorBody{Code: apperrors.GetCode(err), Message: apperrors.UserMessage(err)}
	if body.Code == "" || body.Code == apperrors.ErrCodeInternal || body.Code == apperrors.ErrCodeStorage {
		logger.Error("request failed", "err", err)
	}
	if body.Code == "" {
		body = errorBody{Code: apperrors.ErrCodeInternal, Message: "internal error"}
	}
	writeJSON(w, status, body)
}

// decode reads a JSON body into v, rejecting unknown fields and trailing
// data. An empty body leaves v untouched when allowEmpty is set.
func decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode request body")
	}
	if dec.More() {
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "request body has trailing data")
	}
	return nil
}

func notFoundError(r *http.Request) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
