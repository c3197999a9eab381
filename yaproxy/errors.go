package yaproxy

import "errors"

var (
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme")
	ErrInvalidPort       = errors.New("invalid proxy port")
	ErrNoContextDialer   = errors.New("proxy dialer does not support contexts")
)
