package fetcher

import (
	"log/slog"
)

// Sentinel keys whose mere presence classifies an otherwise-200 response.
// AlphaVantage and FRED both report API errors and throttling inside the
// JSON body rather than through the HTTP status.
const (
	// ErrorSentinelKey marks a hard failure (bad symbol, bad key, ...).
	ErrorSentinelKey = "Error Message"
	// NoticeSentinelKey marks a soft failure: the call burned rate limit.
	NoticeSentinelKey = "Note"
)

// Validate classifies a decoded payload for one identifier.
//
//   - nil payload: transport failure upstream, already logged; stays nil.
//   - error sentinel present: hard failure, logged at error level, nil.
//   - notice sentinel present: throttled, logged at warning level, nil.
//   - otherwise: success, the payload is returned unchanged.
//
// The error sentinel wins when both are present. Aside from logging this is
// a pure function of the payload and identifier.
func Validate(log *slog.Logger, payload Payload, id string) Payload {
	if payload == nil {
		return nil
	}

	if msg, ok := payload[ErrorSentinelKey]; ok {
		log.Error("source returned an error", "id", id, "message", msg)
		return nil
	}

	if note, ok := payload[NoticeSentinelKey]; ok {
		log.Warn("source throttled the request", "id", id, "note", note)
		return nil
	}

	return payload
}
