package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// httpBody is the JSON shape written for error responses
type httpBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// WriteHTTP writes an error as a JSON response with the status mapped
// from its code. Internal errors are logged with their cause but only
// the message is exposed to the client.
func WriteHTTP(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	code := GetCode(err)
	body := httpBody{
		Code:    code.String(),
		Message: GetMessage(err),
		Meta:    GetMeta(err),
	}

	if code == CodeInternal || code == CodeDataLoss {
		slog.ErrorContext(r.Context(), "internal error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
		body.Message = "internal error"
		body.Meta = nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			"error", encodeErr.Error())
	}
}
