package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/boutiquehq/boutique-pos/internal/repo"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps the ledger's error kinds to HTTP statuses. Unknown
// errors surface as 500 without leaking internals.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrProductNotFound),
		errors.Is(err, repo.ErrSaleNotFound),
		errors.Is(err, repo.ErrSessionNotFound),
		errors.Is(err, repo.ErrCustomerNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, repo.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, repo.ErrInsufficientStock),
		errors.Is(err, repo.ErrInsufficientPayment),
		errors.Is(err, repo.ErrNoOpenSession),
		errors.Is(err, repo.ErrSessionAlreadyOpen),
		errors.Is(err, repo.ErrSessionNotOpen),
		errors.Is(err, repo.ErrDuplicatedValueUnique):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, repo.ErrConsistencyViolation):
		log.Printf("consistency violation: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
