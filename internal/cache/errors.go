package cache

import "errors"

var (
	// ErrUserBreak is returned for a request whose method and URL were
	// registered with Break. It exists so tests and operators can assert an
	// endpoint is never reached.
	ErrUserBreak = errors.New("request blocked by user break")

	// ErrBadMagic indicates a cache file that decoded but was not written
	// by this cache format.
	ErrBadMagic = errors.New("cache file magic mismatch")
)
