// Package upstream is the HTTP client for the Immich photo service. It injects
// the API key, classifies failures and, when configured, retries them.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sternrassler/album-proxy/pkg/album"
	"github.com/Sternrassler/album-proxy/pkg/identifier"
	"github.com/Sternrassler/album-proxy/pkg/media"
)

// APIKeyHeader carries the upstream credential.
const APIKeyHeader = "x-api-key"

// labelAlbumList is the metric label for the album index call.
const labelAlbumList = "album-list"

// Prometheus metrics for upstream operations.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "albumproxy_upstream_requests_total",
		Help: "Total upstream requests by media kind and status",
	}, []string{"kind", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "albumproxy_upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds by media kind",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"kind"})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "albumproxy_upstream_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the photo service API root, e.g. "https://photos.example.com/api".
	BaseURL string

	// APIKey is sent as x-api-key on every request. It is never logged.
	APIKey string

	// Timeout bounds a single attempt including the body read.
	Timeout time.Duration

	// Retry controls retries of server and network failures.
	Retry RetryConfig
}

// DefaultConfig returns a configuration with a 30s timeout and no retries.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
		Retry:   DefaultRetryConfig(),
	}
}

// Media is a buffered upstream response body.
type Media struct {
	Data        []byte
	ContentType string
	StatusCode  int
}

// Client talks to the photo service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	config     Config
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// New creates a new upstream client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url has no host")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("max_attempts must be >= 1 (got %d)", cfg.Retry.MaxAttempts)
	}

	logger := log.With().Str("component", "upstream").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		config:  cfg,
		logger:  logger,
		tracer:  otel.Tracer("github.com/Sternrassler/album-proxy/pkg/upstream"),
	}, nil
}

// FetchAlbums returns every album visible to the API key.
func (c *Client) FetchAlbums(ctx context.Context) ([]album.Album, error) {
	m, err := c.get(ctx, labelAlbumList, "/albums", nil, "application/json")
	if err != nil {
		return nil, err
	}

	var albums []album.Album
	if err := json.Unmarshal(m.Data, &albums); err != nil {
		return nil, fmt.Errorf("decode album list: %w", err)
	}
	return albums, nil
}

// FetchAlbum returns one album including its assets.
func (c *Client) FetchAlbum(ctx context.Context, id identifier.ID) (*album.Album, error) {
	m, err := c.FetchMedia(ctx, media.KindAlbum, id, "")
	if err != nil {
		return nil, err
	}

	var a album.Album
	if err := json.Unmarshal(m.Data, &a); err != nil {
		return nil, fmt.Errorf("decode album %s: %w", id, err)
	}
	return &a, nil
}

// FetchMedia fetches the raw body for kind and id. size selects the thumbnail
// variant and is ignored for other kinds.
func (c *Client) FetchMedia(ctx context.Context, kind media.Kind, id identifier.ID, size media.Size) (*Media, error) {
	path, query, err := mediaPath(kind, id, size)
	if err != nil {
		return nil, err
	}

	accept := "application/json"
	if kind.Binary() {
		accept = "application/octet-stream"
	}

	return c.get(ctx, string(kind), path, query, accept)
}

// mediaPath maps a kind to its upstream path relative to the base URL.
func mediaPath(kind media.Kind, id identifier.ID, size media.Size) (string, url.Values, error) {
	escaped := url.PathEscape(id.String())

	switch kind {
	case media.KindAlbum:
		return "/albums/" + escaped, nil, nil
	case media.KindOriginal:
		return "/assets/" + escaped + "/original", nil, nil
	case media.KindThumbnail:
		var query url.Values
		if size == media.SizePreview {
			query = url.Values{"size": []string{string(media.SizePreview)}}
		}
		return "/assets/" + escaped + "/thumbnail", query, nil
	default:
		return "", nil, fmt.Errorf("unsupported media kind %q", kind)
	}
}

// get performs a GET against the photo service, retrying per the config.
func (c *Client) get(ctx context.Context, label, path string, query url.Values, accept string) (*Media, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "upstream "+label,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPRequestMethodGet,
			attribute.String("albumproxy.media_kind", label),
		),
	)
	defer span.End()

	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(label).Observe(time.Since(startTime).Seconds())
	}()

	var result *Media
	err := retryWithBackoff(ctx, c.config.Retry, c.logger, func() error {
		m, err := c.attempt(ctx, label, endpoint, accept)
		if err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream request failed")
		return nil, err
	}

	span.SetAttributes(semconv.HTTPResponseStatusCode(result.StatusCode))
	return result, nil
}

// attempt issues one request and buffers the body.
func (c *Client) attempt(ctx context.Context, label, endpoint, accept string) (*Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(APIKeyHeader, c.config.APIKey)
	req.Header.Set("Accept", accept)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.logger.Debug().
		Str("kind", label).
		Str("path", req.URL.Path).
		Msg("Executing upstream request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		upstreamRequestsTotal.WithLabelValues(label, "network_error").Inc()
		c.logger.Warn().
			Err(err).
			Str("kind", label).
			Str("path", req.URL.Path).
			Msg("Upstream request failed")
		return nil, &Error{
			Class:   ErrorClassNetwork,
			Message: "request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(label, strconv.Itoa(resp.StatusCode)).Inc()

	if class := classify(resp.StatusCode, nil); class != "" {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)

		upstreamErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("kind", label).
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Upstream request error")
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassNetwork,
			Message:    "read body",
			Err:        err,
		}
	}

	return &Media{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
