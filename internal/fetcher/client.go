package fetcher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"resty.dev/v3"

	"bronzeingest/internal/ratelimit"
)

// DefaultTimeout bounds every request issued by a Client. There is no retry:
// a single attempt within this window is the whole contract.
const DefaultTimeout = 10 * time.Second

// Client issues the one GET call per fetch and aggregates per-identifier
// results for a Source. All transport failures (connection errors, non-2xx
// statuses, undecodable bodies) are logged at error level and surfaced to
// the batch layer as absence markers.
type Client struct {
	http    *resty.Client
	baseURL string
	log     *slog.Logger
	limiter *ratelimit.Limiter
	api     ratelimit.API
}

// NewClient creates a fetch client for one API base URL.
func NewClient(baseURL string, log *slog.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(DefaultTimeout)

	return &Client{
		http:    client,
		baseURL: baseURL,
		log:     log,
	}
}

// SetLimiter installs a client-side rate limiter consulted before each
// request. Without one, requests go out immediately.
func (c *Client) SetLimiter(l *ratelimit.Limiter, api ratelimit.API) {
	c.limiter = l
	c.api = api
}

// Fetch issues exactly one GET with the given query parameters and decodes
// the JSON body. The decoded payload is returned as-is; classification of
// its content is the caller's job (see Validate).
func (c *Client) Fetch(ctx context.Context, params map[string]string) (Payload, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.api); err != nil {
			return nil, NewNetworkError(err)
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("")

	if err != nil {
		c.log.Error("request failed", "url", c.baseURL, "error", err)
		return nil, NewNetworkError(err)
	}

	if !resp.IsSuccess() {
		c.log.Error("request failed", "url", c.baseURL, "status", resp.StatusCode())
		return nil, NewStatusError(resp.StatusCode())
	}

	var payload Payload
	if err := json.Unmarshal(resp.Bytes(), &payload); err != nil {
		c.log.Error("request returned malformed JSON", "url", c.baseURL, "error", err)
		return nil, NewDecodeError(err)
	}

	return payload, nil
}

// FetchOne builds parameters for one identifier, performs the single fetch
// and classifies the response. The returned payload is nil (the absence
// marker) for transport failures and for payloads carrying a sentinel key.
// The only error returned is the source's *MissingCredentialError, which
// happens before any network call.
func (c *Client) FetchOne(ctx context.Context, src Source, id string) (Payload, error) {
	params, err := src.BuildParams(id)
	if err != nil {
		return nil, err
	}

	payload, err := c.Fetch(ctx, params)
	if err != nil {
		// Already logged at error level by Fetch.
		return nil, nil
	}

	return Validate(c.log, payload, id), nil
}

// FetchBatch runs FetchOne for every identifier in input order and collects
// the outcomes. Every identifier appears in the result exactly once, with a
// nil payload for items that failed; an individual item's failure never
// aborts the batch. A missing credential does abort it, before any request.
func (c *Client) FetchBatch(ctx context.Context, src Source, ids []string) (map[string]Payload, error) {
	results := make(map[string]Payload, len(ids))
	for _, id := range ids {
		c.log.Info("fetching data", "source", src.Name(), "id", id)
		payload, err := c.FetchOne(ctx, src, id)
		if err != nil {
			return nil, err
		}
		results[id] = payload
	}
	return results, nil
}
