package fetcher

// Payload is a JSON-decoded API response. No schema is assumed beyond the two
// sentinel keys that drive response classification; sources project whatever
// structure they need out of it after validation.
type Payload map[string]any

// Source describes one upstream API to the generic fetch routines. A source
// owns its credential and knows how to marshal an identifier (ticker symbol,
// economic-series id) into request query parameters. Everything else is
// shared: the single GET, response classification and batch aggregation.
type Source interface {
	// Name identifies the source in log lines and result keys,
	// e.g. "alphavantage" or "fred".
	Name() string

	// BuildParams maps an identifier to the query parameters for one request.
	// It returns a *MissingCredentialError when the source's credential is
	// absent or empty; that error must reach the batch caller unmodified.
	BuildParams(id string) (map[string]string, error)
}
