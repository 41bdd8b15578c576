// Package httpjson holds the request/response conventions for the JSON
// API: body decoding with a size cap, success envelopes, and the error
// body shape derived from the apperr taxonomy.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/agorahub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// MaxBodyBytes caps JSON request bodies. Discussion bodies are the
// largest payloads this API accepts.
const MaxBodyBytes = 1 << 20 // 1 MiB

// Decode reads a JSON body into dst, rejecting unknown fields and
// oversized payloads. Returns an InvalidArgument apperr on any client
// fault so handlers can pass it straight to WriteError.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.InvalidArgument, "Request body is required.")
		}
		return apperr.Wrap(apperr.InvalidArgument, "Request body is not valid JSON.", err)
	}
	// trailing garbage after the object
	if dec.More() {
		return apperr.New(apperr.InvalidArgument, "Request body must contain a single JSON object.")
	}
	return nil
}

// Write encodes v with the given status. Encoding failures are logged by
// the caller's recovery middleware; the header is already committed.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Kind `json:"code"`
	Message string      `json:"message"`
}

// WriteError classifies err via the apperr taxonomy and writes the
// standard error body. Internal errors are logged with their cause;
// expected client faults are not logged.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	Write(w, apperr.Status(kind), errorBody{
		Error: errorDetail{Code: kind, Message: apperr.MessageOf(err)},
	})
}
