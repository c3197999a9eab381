package yahttp

import (
	"time"

	"github.com/YaCodeDev/GoYaHTTP/config"
	"github.com/YaCodeDev/GoYaHTTP/yabackoff"
	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
	"github.com/YaCodeDev/GoYaHTTP/yalogger"
)

const (
	// Version is reported in the User-Agent suffix.
	Version = "1.0.0"

	// UserAgentSuffix is appended to every User-Agent unless suppressed.
	UserAgentSuffix = "YaHTTP/" + Version + " (gzip)"

	// EnvPrefix prefixes every variable read by LoadConfigFromEnv.
	EnvPrefix = "YAHTTP"

	DefaultMaxRetries          = 10
	DefaultContentLoggingLimit = 0x4000
	DefaultTimeout             = 20 * time.Second
)

// Config holds the executor knobs. MaxRetries is the number of sends allowed on
// top of the first one, shared by transport retries, handler retries, redirects
// and back-off retries; 0 disables all of them.
//
// Backoff feeds the exponential back-off used for transport failures when
// RetryOnTransportFailure is set and for unsuccessful responses when
// BackoffUnsuccessful is set. BackoffStatusCodes replaces the default 5xx rule.
type Config struct {
	MaxRetries              uint              `default:"10"`
	RetryOnTransportFailure bool              `default:"false"`
	BackoffUnsuccessful     bool              `default:"false"`
	BackoffStatusCodes      []int             `default:""`
	GzipRequests            bool              `default:"false"`
	FollowRedirects         bool              `default:"true"`
	ErrorOnUnsuccessful     bool              `default:"true"`
	ContentLoggingLimit     int               `default:"16384"`
	UserAgent               string            `default:""`
	SuppressUserAgentSuffix bool              `default:"false"`
	DefaultHeaders          map[string]string `default:""`
	Timeout                 time.Duration     `default:"20s"`
	ProxyURL                string            `default:""`
	Backoff                 yabackoff.ExponentialConfig
}

// DefaultConfig returns the same values LoadConfigFromEnv yields on an empty environment.
func DefaultConfig() Config {
	return Config{
		MaxRetries:          DefaultMaxRetries,
		FollowRedirects:     true,
		ErrorOnUnsuccessful: true,
		ContentLoggingLimit: DefaultContentLoggingLimit,
		Timeout:             DefaultTimeout,
		Backoff:             yabackoff.DefaultExponentialConfig(),
	}
}

// LoadConfigFromEnv reads Config from YAHTTP_* variables, e.g. YAHTTP_MAX_RETRIES,
// YAHTTP_FOLLOW_REDIRECTS or YAHTTP_BACKOFF_INITIAL_INTERVAL.
//
// Example usage:
//
//	cfg, err := yahttp.LoadConfigFromEnv(log)
//	if err != nil {
//		log.Fatalf("bad http config: %v", err)
//	}
func LoadConfigFromEnv(log yalogger.Logger) (Config, yaerrors.Error) {
	var cfg Config

	if err := config.LoadConfigStructFromEnvWithPrefix(&cfg, EnvPrefix, log); err != nil {
		return Config{}, err.Wrap("[HTTP] load config")
	}

	if err := cfg.Backoff.Validate(); err != nil {
		return Config{}, err.Wrap("[HTTP] load config")
	}

	return cfg, nil
}
