// Package dispatch invokes specialist capabilities with bounded retry and
// exponential backoff. It is the only component allowed to sleep; callers
// treat Dispatch as a single blocking call that always returns a structured
// result.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maitred/internal/logging"
	"maitred/internal/types"
)

// ErrBadOutput marks a capability failure as non-retryable: the capability
// produced malformed or uninterpretable output, so retrying the same input
// would fail the same way. Wrap with fmt.Errorf("...: %w", ErrBadOutput).
var ErrBadOutput = errors.New("capability produced uninterpretable output")

// Capability executes one business task for a ready message.
type Capability func(ctx context.Context, canonicalMessage string, turnCtx types.TurnContext) (types.SpecialistResult, error)

// Config bounds the retry budget.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the wait before the first retry; it doubles each attempt.
	BaseDelay time.Duration
}

// DefaultConfig returns the default retry policy: 3 attempts total, backoff
// 1s then 2s.
func DefaultConfig() Config {
	return Config{MaxRetries: 2, BaseDelay: time.Second}
}

// Dispatcher binds one capability per route tag.
type Dispatcher struct {
	capabilities map[types.RouteTag]Capability
	config       Config
	sleep        func(context.Context, time.Duration) error // injectable for tests
}

// New creates a dispatcher with the given capability bindings.
func New(capabilities map[types.RouteTag]Capability, config Config) *Dispatcher {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = time.Second
	}
	return &Dispatcher{
		capabilities: capabilities,
		config:       config,
		sleep:        sleepContext,
	}
}

// sleepContext waits out the backoff delay but wakes early on cancellation.
func sleepContext(ctx context.Context, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// SetSleep replaces the backoff sleep function. Tests use this to observe
// delays without waiting.
func (d *Dispatcher) SetSleep(fn func(time.Duration)) {
	d.sleep = func(_ context.Context, delay time.Duration) error {
		fn(delay)
		return nil
	}
}

// Dispatch invokes the capability bound to the route tag. It never returns an
// error: transient failures are retried up to the budget, then degraded to a
// typed error result so the turn always completes.
func (d *Dispatcher) Dispatch(ctx context.Context, tag types.RouteTag, canonicalMessage string, turnCtx types.TurnContext) types.SpecialistResult {
	capability, ok := d.capabilities[tag]
	if !ok {
		logging.Get(logging.CategoryDispatch).Error("no capability bound for route %s", tag)
		return degradedResult(tag, fmt.Errorf("no capability for route %s", tag))
	}

	attempts := d.config.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			// Delay doubles each attempt: base, 2*base, 4*base, ...
			delay := d.config.BaseDelay << uint(attempt-2)
			logging.Dispatch("route=%s attempt=%d backing off %v", tag, attempt, delay)
			if err := d.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		result, err := capability(ctx, canonicalMessage, turnCtx)
		if err == nil {
			logging.Dispatch("route=%s succeeded on attempt %d", tag, attempt)
			return result
		}
		lastErr = err

		if errors.Is(err, ErrBadOutput) {
			logging.Get(logging.CategoryDispatch).Warn("route=%s non-retryable failure: %v", tag, err)
			break
		}
		logging.Get(logging.CategoryDispatch).Warn("route=%s attempt %d failed: %v", tag, attempt, err)
	}

	logging.Get(logging.CategoryDispatch).Error("route=%s degraded after retries: %v", tag, lastErr)
	return degradedResult(tag, lastErr)
}

// degradedResult synthesizes the typed error variant for a route so callers
// always receive a populated SpecialistResult.
func degradedResult(tag types.RouteTag, cause error) types.SpecialistResult {
	const status = "error - unable to process request"
	switch tag {
	case types.RouteMenu:
		return types.SpecialistResult{Menu: &types.MenuResult{Items: []string{}, Prices: []float64{}}}
	case types.RouteOrder:
		return types.SpecialistResult{Order: &types.OrderResult{Status: status, Items: []types.OrderLine{}}}
	case types.RouteReservation:
		return types.SpecialistResult{Reservation: &types.ReservationResult{Status: status}}
	default:
		return types.SpecialistResult{Final: &types.FinalText{
			Summary: "request could not be processed",
			Text:    "I'm sorry, we're having trouble processing your request right now. Please try again in a moment.",
		}}
	}
}
