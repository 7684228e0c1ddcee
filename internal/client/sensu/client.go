// Package sensu provides a client for the Sensu client socket.
package sensu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"promcheck/internal/config"
	"promcheck/internal/model"
)

// ErrDispatchUnreachable is returned when the event backend cannot be reached.
var ErrDispatchUnreachable = errors.New("event backend unreachable")

const defaultTimeout = 3 * time.Second

// Client writes events to the Sensu client socket.
// Each event uses its own connection; nothing is read back.
type Client struct {
	address string        // host:port
	timeout time.Duration // Dial and write timeout
	dialer  *net.Dialer
	logger  zerolog.Logger
}

// NewClient creates a new Sensu socket client.
func NewClient(cfg *config.SensuConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		address: net.JoinHostPort(cfg.Address, strconv.Itoa(cfg.Port)),
		timeout: timeout,
		dialer:  &net.Dialer{Timeout: timeout},
		logger:  logger.With().Str("component", "sensu-client").Logger(),
	}
}

// Address returns the host:port the client writes to.
func (c *Client) Address() string {
	return c.address
}

// Dispatch sends one event as a newline-terminated JSON object.
func (c *Client) Dispatch(ctx context.Context, event *model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	payload = append(payload, '\n')

	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		c.logger.Error().Err(err).Str("address", c.address).Msg("failed to connect to sensu socket")
		return fmt.Errorf("%w: %v", ErrDispatchUnreachable, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchUnreachable, err)
	}
	if _, err := conn.Write(payload); err != nil {
		c.logger.Error().Err(err).Str("address", c.address).Msg("failed to write event")
		return fmt.Errorf("%w: %v", ErrDispatchUnreachable, err)
	}

	c.logger.Debug().
		Str("source", event.Source).
		Str("name", event.Name).
		Int("status", int(event.Status)).
		Msg("event dispatched")

	return nil
}
