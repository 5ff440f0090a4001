package feed

import "errors"

var (
	// ErrRefreshUnsupported indicates the subscription has no request
	// channel to ask for a re-emission.
	ErrRefreshUnsupported = errors.New("feed: refresh not supported by this subscription")
)
