// Package proxy relays gateway requests to the backing services.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// UpstreamHeader names the service that produced a relayed response.
const UpstreamHeader = "X-Upstream-Service"

// Request headers copied to the upstream as-is.
var forwardedHeaders = []string{"Accept", "Authorization", "X-Request-ID"}

// Response headers that describe the upstream connection, not the payload.
var hopByHop = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

// Upstream is a backing service the gateway routes to.
type Upstream struct {
	Name    string
	BaseURL string
}

// ServiceProxy relays requests to upstream services over a shared client.
type ServiceProxy struct {
	client *http.Client
}

// NewServiceProxy creates a proxy whose upstream calls time out after timeout.
func NewServiceProxy(timeout time.Duration) *ServiceProxy {
	return &ServiceProxy{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Forward returns a handler relaying the request path and query unchanged to
// u. An unreachable upstream is a 502; a slow one is a 504.
func (p *ServiceProxy) Forward(u Upstream) fiber.Handler {
	base := strings.TrimRight(u.BaseURL, "/")

	return func(c fiber.Ctx) error {
		target := base + c.Path()
		if q := c.Request().URI().QueryString(); len(q) > 0 {
			target += "?" + string(q)
		}

		req, err := newUpstreamRequest(c, target)
		if err != nil {
			return upstreamError(c, u, fiber.StatusBadGateway, "could not build request")
		}

		slog.Debug("relaying request", "upstream", u.Name, "method", c.Method(), "target", target)
		resp, err := p.client.Do(req)
		if err != nil {
			slog.Error("upstream request failed", "upstream", u.Name, "target", target, "error", err)
			if isTimeout(err) {
				return upstreamError(c, u, fiber.StatusGatewayTimeout, u.Name+" timed out")
			}
			return upstreamError(c, u, fiber.StatusBadGateway, u.Name+" unavailable")
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return upstreamError(c, u, fiber.StatusBadGateway, "could not read "+u.Name+" response")
		}

		for key, vals := range resp.Header {
			if hopByHop[http.CanonicalHeaderKey(key)] {
				continue
			}
			for _, val := range vals {
				c.Set(key, val)
			}
		}
		c.Set(UpstreamHeader, u.Name)
		return c.Status(resp.StatusCode).Send(body)
	}
}

func newUpstreamRequest(c fiber.Ctx, target string) (*http.Request, error) {
	var body io.Reader
	if b := c.Body(); len(b) > 0 {
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", c.Get("Content-Type", fiber.MIMEApplicationJSON))
	for _, h := range forwardedHeaders {
		if v := c.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}
	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
	return req, nil
}

func upstreamError(c fiber.Ctx, u Upstream, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":      msg,
		"service":    u.Name,
		"retryable":  true,
		"request_id": c.Locals("request_id"),
	})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
