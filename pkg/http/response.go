package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// StatusError is returned when a response carries a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface. Status already carries the code,
// e.g. "404 Not Found".
func (e *StatusError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return "unexpected status code: " + e.Status
}

// ReadResponseBody reads and closes HTTP response body
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	defer closeBody(resp)
	return io.ReadAll(resp.Body)
}

// DecodeJSONResponse checks for a 2xx status and decodes the JSON body into
// target. The body is always closed.
func DecodeJSONResponse(resp *http.Response, target any) error {
	defer closeBody(resp)

	if err := EnsureSuccess(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode json response: %w", err)
	}
	return nil
}

// EnsureSuccess checks that the response status is in the 2xx range
func EnsureSuccess(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// EnsureStatusOK checks if the response status is 200 OK
func EnsureStatusOK(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func closeBody(resp *http.Response) {
	if closeErr := resp.Body.Close(); closeErr != nil {
		slog.Error("Failed to close response body", "error", closeErr)
	}
}
