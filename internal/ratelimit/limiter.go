package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIAlphaVantage represents the AlphaVantage API
	APIAlphaVantage API = "alphavantage"
	// APIFred represents the FRED API
	APIFred API = "fred"
	// APISecEdgar represents the SEC EDGAR endpoints
	APISecEdgar API = "secedgar"
)

// Limiter holds one client-side rate limiter per API. It is built once at
// startup and injected into the components that need it; the map is never
// mutated afterwards, so reads need no locking.
type Limiter struct {
	limiters map[API]*rate.Limiter
}

// New creates a Limiter from per-API request rates (events per second).
// APIs without an entry are not limited.
func New(limits map[API]rate.Limit) *Limiter {
	l := &Limiter{
		limiters: make(map[API]*rate.Limiter, len(limits)),
	}
	for api, limit := range limits {
		l.limiters[api] = rate.NewLimiter(limit, 1)
	}
	return l
}

// Wait blocks until the rate limiter permits an event for the given API.
// It returns an error if the context is canceled before the event can proceed.
func (l *Limiter) Wait(ctx context.Context, api API) error {
	limiter, exists := l.limiters[api]
	if !exists {
		// No limiter configured for this API, allow the request.
		return nil
	}
	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now
func (l *Limiter) Allow(api API) bool {
	limiter, exists := l.limiters[api]
	if !exists {
		return true
	}
	return limiter.Allow()
}
