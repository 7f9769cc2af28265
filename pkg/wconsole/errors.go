package wconsole

import (
	"errors"

	"wconsole/pkg/transport/webhook"
)

var (
	// ErrMissingURL is returned by New for an empty webhook URL.
	ErrMissingURL = webhook.ErrMissingURL
	// ErrInvalidURL is returned by New for a URL that is not absolute http(s).
	ErrInvalidURL = webhook.ErrInvalidURL
	// ErrNilAdapter is returned by NewWithAdapter for a nil or typed-nil adapter.
	ErrNilAdapter = errors.New("wconsole: adapter is nil")
)
