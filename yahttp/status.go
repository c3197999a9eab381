package yahttp

import "net/http"

// IsSuccess reports a 2xx status code.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsRedirect reports the status codes the executor may follow.
func IsRedirect(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// BackoffRequired decides whether an unsuccessful status code is worth backing off
// and retrying.
type BackoffRequired func(statusCode int) bool

// BackoffOnServerError accepts every 5xx status. It is the default.
func BackoffOnServerError(statusCode int) bool {
	return statusCode >= 500 && statusCode < 600
}

// BackoffAlways accepts every unsuccessful status.
func BackoffAlways(int) bool {
	return true
}

// BackoffOnStatusCodes accepts exactly the listed codes.
//
// Example usage:
//
//	yahttp.WithBackoffRequired(yahttp.BackoffOnStatusCodes(http.StatusTooManyRequests, http.StatusServiceUnavailable))
func BackoffOnStatusCodes(codes ...int) BackoffRequired {
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}

	return func(statusCode int) bool {
		_, ok := set[statusCode]

		return ok
	}
}
