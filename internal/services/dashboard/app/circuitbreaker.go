package app

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// NewCircuitBreaker trips after fails consecutive failures and stays open for openFor.
// In closed state the counts reset every interval (0 keeps them until a success).
// A call abandoned through context cancellation is not an upstream failure.
func NewCircuitBreaker(name string, fails int, openFor, interval time.Duration,
	onChange func(name string, from, to gobreaker.State)) *gobreaker.CircuitBreaker {
	if fails < 1 {
		fails = 1
	}
	if openFor <= 0 {
		openFor = 10 * time.Second
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: interval,
		Timeout:  openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: onChange,
	})
}
