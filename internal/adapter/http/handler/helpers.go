package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	"github.com/Harish01234/vahanseva/internal/service/auth"
	"github.com/Harish01234/vahanseva/internal/service/ride"

	t "github.com/Harish01234/vahanseva/internal/domain/types"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	// Limit request bodies to 1MB.
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			return fmt.Errorf("invalid unmarshal error: %w", err)
		default:
			return err
		}
	}

	// A second Decode() call must hit io.EOF, otherwise the body held
	// more than a single JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// GetCode maps service errors to HTTP status codes.
func GetCode(err error) int {
	switch {
	case IsOneOf(err, t.ErrRideNotFound, t.ErrNoAvailableRiders, t.ErrUserNotFound,
		ride.ErrCustomerNotFound, auth.ErrUserWithEmailNotFound):
		return http.StatusNotFound
	case IsOneOf(err, t.ErrRideNotPending, t.ErrInvalidTransition, t.ErrInvalidCoordinates):
		return http.StatusBadRequest
	case IsOneOf(err, t.ErrRideAlreadyAssigned, t.ErrEmailTaken, auth.ErrNotUniqueEmail):
		return http.StatusConflict
	case IsOneOf(err, auth.ErrInvalidCredentials, auth.ErrInvalidToken, auth.ErrExpToken):
		return http.StatusUnauthorized
	case IsOneOf(err, t.ErrGeocodeFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// clientSafeErrors are the sentinel kinds whose own text may appear in
// a response body. Anything outside this set collapses to a generic
// message so wrapped internals never reach the caller.
var clientSafeErrors = []error{
	t.ErrRideNotFound, t.ErrRideNotPending, t.ErrRideAlreadyAssigned,
	t.ErrNoAvailableRiders, t.ErrGeocodeFailed, t.ErrInvalidTransition,
	t.ErrInvalidCoordinates, t.ErrUserNotFound, t.ErrEmailTaken,
	ride.ErrCustomerNotFound,
	auth.ErrInvalidCredentials, auth.ErrNotUniqueEmail, auth.ErrInvalidToken,
	auth.ErrExpToken, auth.ErrUserWithEmailNotFound,
}

// ClientMessage returns the fixed text to send to the caller for err.
func ClientMessage(err error) string {
	for _, target := range clientSafeErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "the server encountered a problem and could not process your request"
}

func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
