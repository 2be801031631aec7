package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/cart"
	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/infrastructure/config"
	"github.com/storefront/cart/internal/infrastructure/telemetry"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 4 * 1024 * 1024

var (
	// ErrUnavailable is returned when the cart service cannot be reached
	ErrUnavailable = errors.New("gateway: cart service unavailable")
	// ErrRequestFailed is returned for a non-2xx status or an unsuccessful envelope
	ErrRequestFailed = errors.New("gateway: cart request failed")
	// ErrNoCredential is returned when a call is made without a stored credential
	ErrNoCredential = errors.New("gateway: no credential")
)

// envelope is the response wrapper used by the cart service
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// HTTPGateway talks to the authoritative server-side cart over REST
type HTTPGateway struct {
	baseURL     string
	httpClient  *http.Client
	credentials identity.CredentialSource
	logger      *zap.Logger
}

// Option configures an HTTPGateway
type Option func(*HTTPGateway)

// WithHTTPClient replaces the default client
func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) {
		g.httpClient = client
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *HTTPGateway) {
		g.logger = logger
	}
}

// NewHTTPGateway creates a gateway for cfg.BaseURL. Every request carries the
// credential read from credentials as a bearer token.
func NewHTTPGateway(cfg config.GatewayConfig, credentials identity.CredentialSource, opts ...Option) (*HTTPGateway, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("gateway: base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("gateway: invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	g := &HTTPGateway{
		baseURL:     base,
		httpClient:  &http.Client{Timeout: timeout},
		credentials: credentials,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// List fetches the remote cart. Data is returned undecoded.
func (g *HTTPGateway) List(ctx context.Context) (*cart.ListResponse, error) {
	env, err := g.do(ctx, http.MethodGet, "/cart", nil)
	if err != nil {
		return nil, err
	}
	return &cart.ListResponse{Success: env.Success, Data: env.Data}, nil
}

// Add adds quantity of a variant to the remote cart
func (g *HTTPGateway) Add(ctx context.Context, req cart.AddRequest) error {
	_, err := g.do(ctx, http.MethodPost, "/cart/items", req)
	return err
}

// Update sets the remote quantity of a variant
func (g *HTTPGateway) Update(ctx context.Context, productVariantID string, req cart.UpdateRequest) error {
	_, err := g.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(productVariantID), req)
	return err
}

// RemoveByID removes one remote cart entry by its server id
func (g *HTTPGateway) RemoveByID(ctx context.Context, lineItemID string) error {
	_, err := g.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(lineItemID), nil)
	return err
}

// Clear empties the remote cart
func (g *HTTPGateway) Clear(ctx context.Context) error {
	_, err := g.do(ctx, http.MethodDelete, "/cart", nil)
	return err
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	ctx, span := telemetry.StartSpan(ctx, "cart.gateway "+method, trace.SpanKindClient,
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)
	defer span.End()

	env, err := g.roundTrip(ctx, method, path, payload)
	telemetry.RecordError(span, err)
	return env, err
}

func (g *HTTPGateway) roundTrip(ctx context.Context, method, path string, payload any) (*envelope, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("gateway: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to read response: %w", err)
	}
	g.logger.Debug("cart gateway call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	env := &envelope{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("gateway: failed to decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if env.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRequestFailed, resp.StatusCode, env.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}
	// writes with a body must report success; list replies pass through
	if method != http.MethodGet && len(raw) > 0 && !env.Success {
		if env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrRequestFailed, env.Message)
		}
		return nil, ErrRequestFailed
	}
	return env, nil
}

func (g *HTTPGateway) token(ctx context.Context) (string, error) {
	if g.credentials == nil {
		return "", ErrNoCredential
	}
	token, err := g.credentials.Credential(ctx)
	if err != nil {
		return "", fmt.Errorf("gateway: failed to read credential: %w", err)
	}
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

var _ cart.Gateway = (*HTTPGateway)(nil)
