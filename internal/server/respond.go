package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"inspections/pkg/types"

	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// WriteError renders err as {"error", "details"}. Errors that are not a
// *types.Error are treated as unhandled.
func WriteError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	var apiErr *types.Error
	if !errors.As(err, &apiErr) {
		apiErr = &types.Error{Kind: types.KindUnhandled, Message: "Internal server error", Err: err}
	}

	body := errorBody{Error: apiErr.Message, Details: apiErr.Details}

	status := apiErr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		if body.Error == "" {
			body.Error = "Internal server error"
		}
		if body.Details == nil && apiErr.Err != nil {
			body.Details = apiErr.Err.Error()
		}
		logger.WithError(err).WithField("kind", apiErr.Kind.String()).Error("request failed")
	}

	WriteJSON(w, status, body)
}

// DecodeJSON reads a JSON request body into v. Missing, malformed or
// oversized bodies are validation errors.
func DecodeJSON(r *http.Request, v any) error {
	return decodeJSON(r, v, false)
}

// DecodeOptionalJSON is DecodeJSON but leaves v untouched when the body is
// empty.
func DecodeOptionalJSON(r *http.Request, v any) error {
	return decodeJSON(r, v, true)
}

func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return types.ValidationError("Request body is required")
		}
		return &types.Error{Kind: types.KindValidation, Message: "Invalid JSON body", Details: err.Error(), Err: err}
	}
	return nil
}
