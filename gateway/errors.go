package gateway

import "errors"

var (
	// ErrUnauthorized means the API key does not match the exchange
	// session. Unrecoverable; the strategy loop halts on it.
	ErrUnauthorized = errors.New("exchange: unauthorized")
	// ErrUnavailable covers transport failures and unparsable
	// responses. Transient; the loop skips the tick and retries.
	ErrUnavailable = errors.New("exchange: unavailable")
	// ErrRejected is a per-order submission failure. Logged and
	// skipped without aborting the rest of the tick.
	ErrRejected = errors.New("exchange: order rejected")
)
