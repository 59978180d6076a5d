package store

import "errors"

var (
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("store: unknown driver")

	// ErrInvalidConfig is returned by Open when a driver is missing settings.
	ErrInvalidConfig = errors.New("store: invalid config")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store: closed")

	// ErrEncode wraps failures serialising a value.
	ErrEncode = errors.New("store: encode value")

	// ErrDecode wraps failures reading a persisted value back.
	ErrDecode = errors.New("store: decode value")
)
