package yabackoff

import "errors"

var ErrInvalidConfig = errors.New("invalid backoff config")
