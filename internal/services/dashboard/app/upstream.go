package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Upstream posts JSON to a single endpoint behind a circuit breaker.
type Upstream struct {
	name     string
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
}

// NewUpstream builds a client for endpoint. A zero timeout leaves the request
// bounded only by the caller's context.
func NewUpstream(name, endpoint string, timeout time.Duration, breaker *gobreaker.CircuitBreaker) *Upstream {
	return &Upstream{
		name:     name,
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
	}
}

// BreakerState is "closed" when the upstream has no breaker.
func (u *Upstream) BreakerState() gobreaker.State {
	if u.breaker == nil {
		return gobreaker.StateClosed
	}
	return u.breaker.State()
}

// PostJSON sends body and decodes the response into out. Transport errors,
// non-2xx statuses and undecodable bodies all count as breaker failures.
func (u *Upstream) PostJSON(ctx context.Context, body, out any) error {
	if u.endpoint == "" {
		return fmt.Errorf("%s: no endpoint configured", u.name)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s encode error: %w", u.name, err)
	}

	call := func() (any, error) {
		return nil, u.do(ctx, payload, out)
	}
	if u.breaker == nil {
		_, err = call()
		return err
	}
	if _, err = u.breaker.Execute(call); err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("%s breaker %s: %w", u.name, u.breaker.State(), err)
		}
		return err
	}
	return nil
}

func (u *Upstream) do(ctx context.Context, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s request error: %w", u.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request error: %w", u.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s upstream status %d", u.name, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode error: %w", u.name, err)
	}
	return nil
}
