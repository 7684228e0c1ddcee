// Package prom provides a client for the Prometheus HTTP query API.
package prom

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"promcheck/internal/config"
	"promcheck/internal/model"
)

const (
	defaultConnectTimeout = 3 * time.Second
	defaultTimeout        = 3 * time.Second
)

// Client is a client for the Prometheus HTTP query API.
// It never retries: a failed query simply removes that check from the run.
type Client struct {
	endpoint       string        // API endpoint
	connectTimeout time.Duration // TCP connect timeout
	timeout        time.Duration // Request timeout
	httpClient     *resty.Client // HTTP client
	logger         zerolog.Logger
}

// NewClient creates a new Prometheus API client.
func NewClient(cfg *config.PrometheusConfig, logger zerolog.Logger) *Client {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout == 0 {
		connectTimeout = defaultConnectTimeout
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       30 * time.Second,
	}

	httpClient := resty.New().
		SetTransport(transport).
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &Client{
		endpoint:       cfg.Endpoint,
		connectTimeout: connectTimeout,
		timeout:        timeout,
		httpClient:     httpClient,
		logger:         logger.With().Str("component", "prom-client").Logger(),
	}
}

// Query executes an instant query at the /api/v1/query endpoint.
// Errors match ErrBackendUnreachable, ErrBackendMalformed or ErrBackendQueryError.
func (c *Client) Query(ctx context.Context, query string) (*QueryResponse, error) {
	c.logger.Debug().
		Str("query", query).
		Msg("executing PromQL query")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		Get("/api/v1/query")
	if err != nil {
		c.logger.Error().Err(err).Str("query", query).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}

	var result QueryResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		if resp.StatusCode() != http.StatusOK {
			c.logger.Error().
				Int("status_code", resp.StatusCode()).
				Str("body", string(resp.Body())).
				Str("query", query).
				Msg("Prometheus API returned non-200 status")
			return nil, fmt.Errorf("%w: status %d: %s", ErrBackendQueryError, resp.StatusCode(), string(resp.Body()))
		}
		c.logger.Error().Err(err).Str("query", query).Msg("failed to decode response")
		return nil, fmt.Errorf("%w: %v", ErrBackendMalformed, err)
	}

	// Query evaluation errors come back as 400/422 with an error payload
	if result.IsError() {
		c.logger.Error().
			Str("error_type", result.ErrorType).
			Str("error", result.Error).
			Str("query", query).
			Msg("Prometheus API returned error")
		return nil, fmt.Errorf("%w [%s]: %s", ErrBackendQueryError, result.ErrorType, result.Error)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("query", query).
			Msg("Prometheus API returned non-200 status")
		return nil, fmt.Errorf("%w: status %d", ErrBackendQueryError, resp.StatusCode())
	}

	if !result.IsSuccess() {
		return nil, fmt.Errorf("%w: unknown response status %q", ErrBackendMalformed, result.Status)
	}

	if len(result.Warnings) > 0 {
		c.logger.Warn().
			Strs("warnings", result.Warnings).
			Str("query", query).
			Msg("Prometheus API returned warnings")
	}

	c.logger.Debug().
		Str("result_type", result.Data.ResultType).
		Int("result_count", len(result.Data.Result)).
		Msg("query executed successfully")

	return &result, nil
}

// QueryRows executes an instant query and returns the result rows verbatim.
func (c *Client) QueryRows(ctx context.Context, query string) ([]model.MetricRow, error) {
	resp, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return ParseRows(resp)
}
