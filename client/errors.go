package client

import (
	"errors"
	"fmt"
)

// ErrUnknownEndpoint matches errors for ids missing from the registry.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

type unknownEndpointError string

func (e unknownEndpointError) Error() string {
	return fmt.Sprintf("API Endpoint '%s' not found.", string(e))
}

func (e unknownEndpointError) Is(target error) bool {
	return target == ErrUnknownEndpoint
}

// UpstreamError is a non-2xx reply from the API. Name and Message come
// from the {"error": {"name", "message"}} envelope when the body has one.
type UpstreamError struct {
	Endpoint string
	Status   int
	Name     string
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Name != "" || e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

type errorEnvelope struct {
	Error *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}
