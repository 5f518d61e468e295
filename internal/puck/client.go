package puck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-alert-relay/internal/weather"
)

// Client posts LED and LCD directives to a Puck. The firmware reads the raw
// request body, so directives go out as JSON with a text/plain content type.
type Client struct {
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates a Client for the Puck at baseURL (e.g. "http://192.168.1.178").
func NewClient(baseURL string, httpClient *http.Client) *Client {
	// An unplugged Puck should not cost every request a full timeout.
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "puck",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		circuit:    cb,
	}
}

// PushLED sends an LED directive to /led.
func (c *Client) PushLED(ctx context.Context, led weather.LEDDirective) error {
	return c.post(ctx, "/led", led)
}

// PushText sends a text directive to /lcd.
func (c *Client) PushText(ctx context.Context, text weather.TextDirective) error {
	return c.post(ctx, "/lcd", text)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", weather.ErrDevicePush, path, err)
	}

	_, err = c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "text/plain")
		req.Header.Set("Accept", "application/json, text/plain, */*")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return fmt.Errorf("%w: %s: puck unreachable: %w", weather.ErrDevicePush, path, err)
		}
		return fmt.Errorf("%w: %s: %w", weather.ErrDevicePush, path, err)
	}
	return nil
}
