package client

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fewlinesco/rampsdk/endpoints"
)

type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *zap.Logger
	registry   *endpoints.Registry
	metrics    *Metrics
	baseURL    string
	traceID    string
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegistry replaces the embedded endpoint tables.
func WithRegistry(r *endpoints.Registry) Option {
	return func(o *options) { o.registry = r }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithBaseURL overrides the gateway selected by the configured environment.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithTraceID fixes the x-trace-id header instead of generating one.
func WithTraceID(id string) Option {
	return func(o *options) { o.traceID = id }
}
