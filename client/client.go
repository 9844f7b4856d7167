// Package client dispatches endpoint calls to the ramp API. Each call is
// checked against its endpoint schema before it is sent, and the reply is
// reshaped into the endpoint's canonical output.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fewlinesco/rampsdk/config"
	"github.com/fewlinesco/rampsdk/contract"
	"github.com/fewlinesco/rampsdk/endpoints"
	"github.com/fewlinesco/rampsdk/internal/httpclient"
	"github.com/fewlinesco/rampsdk/internal/logging"
	"github.com/fewlinesco/rampsdk/schema"
)

const maxBodyBytes = 4 << 20

// Call is one invocation of a registered endpoint.
type Call struct {
	Endpoint   string
	Query      map[string]interface{}
	Body       map[string]interface{}
	PathParams map[string]string
	// Headers are applied last and override every other header.
	Headers map[string]string
}

type Client struct {
	httpClient    *http.Client
	logger        *zap.Logger
	registry      *endpoints.Registry
	metrics       *Metrics
	limiter       *rate.Limiter
	baseURL       string
	traceID       string
	partnerAPIKey string

	mu          sync.RWMutex
	accessToken string
	userData    map[string]interface{}
}

// New validates cfg and builds a client for its environment.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.New(httpclient.WithTimeout(cfg.Timeout))
	}
	if o.registry == nil {
		o.registry = endpoints.Default()
	}
	if o.baseURL == "" {
		o.baseURL = cfg.BaseURL()
	}
	if o.traceID == "" {
		o.traceID = uuid.NewString()
	}

	c := &Client{
		httpClient:    o.httpClient,
		logger:        logging.OrNop(o.logger),
		registry:      o.registry,
		metrics:       o.metrics,
		baseURL:       o.baseURL,
		traceID:       o.traceID,
		partnerAPIKey: cfg.PartnerAPIKey,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

func (c *Client) PartnerAPIKey() string { return c.partnerAPIKey }

func (c *Client) TraceID() string { return c.traceID }

func (c *Client) Registry() *endpoints.Registry { return c.registry }

// SetAccessToken stores the token sent as Authorization on later calls.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Client) SetUserData(user map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userData = user
}

func (c *Client) UserData() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userData
}

// Do validates call against its endpoint schema, sends it and returns the
// formatted result. Contract violations are returned before any network
// traffic.
func (c *Client) Do(ctx context.Context, call Call) (interface{}, error) {
	ep, ok := c.registry.Lookup(call.Endpoint)
	if !ok {
		return nil, unknownEndpointError(call.Endpoint)
	}
	log := c.logger.With(zap.String("endpoint", ep.ID))

	if err := contract.ValidateRequest(ep.Method, ep.URL, call.Body, call.Query, ep); err != nil {
		log.Warn("request rejected", zap.Error(err))
		c.metrics.violation(ep.ID, string(contract.StageRequest))
		c.metrics.observe(ep.ID, outcomeViolation, time.Time{})
		return nil, err
	}

	req, err := c.newRequest(ctx, ep, call)
	if err != nil {
		c.metrics.observe(ep.ID, outcomeError, time.Time{})
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.observe(ep.ID, outcomeError, time.Time{})
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	log.Debug("dispatching request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	started := time.Now()
	payload, err := c.roundTrip(req, ep)
	if err != nil {
		outcome := outcomeError
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			outcome = outcomeUpstream
		}
		log.Warn("request failed", zap.Error(err))
		c.metrics.observe(ep.ID, outcome, started)
		return nil, err
	}

	result, err := contract.FormatResponse(payload, ep)
	if err != nil {
		var conflict *contract.ConflictError
		switch {
		case errors.As(err, &conflict):
			log.Info("entity already exists", zap.String("entity", conflict.Entity), zap.String("id", conflict.EntityID))
			c.metrics.observe(ep.ID, outcomeConflict, started)
		default:
			log.Warn("response rejected", zap.Error(err))
			c.metrics.violation(ep.ID, string(contract.StageResponse))
			c.metrics.observe(ep.ID, outcomeViolation, started)
		}
		return nil, err
	}

	c.metrics.observe(ep.ID, outcomeOK, started)
	return result, nil
}

func (c *Client) newRequest(ctx context.Context, ep *schema.Endpoint, call Call) (*http.Request, error) {
	path, err := expandPath(ep, call.PathParams)
	if err != nil {
		return nil, err
	}
	query, err := encodeQuery(call.Query)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(ep.Method)
	var body io.Reader
	if schema.Mutating(method) && len(call.Body) > 0 {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, joinURL(c.baseURL, path, query), body)
	if err != nil {
		return nil, err
	}

	for k, v := range ep.Headers {
		if v != schema.HeaderPlaceholder {
			req.Header.Set(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-trace-id", c.traceID)
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", token)
	}
	for k, v := range call.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (c *Client) roundTrip(req *http.Request, ep *schema.Endpoint) (interface{}, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", ep.ID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream := &UpstreamError{Endpoint: ep.ID, Status: resp.StatusCode}
		var env errorEnvelope
		if json.Unmarshal(data, &env) == nil && env.Error != nil {
			upstream.Name = env.Error.Name
			upstream.Message = env.Error.Message
		}
		return nil, upstream
	}

	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", ep.ID, err)
	}
	return payload, nil
}
