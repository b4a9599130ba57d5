package mcpserver

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/apimfix/converter"
	"github.com/erraggy/apimfix/normalizer"
	"github.com/erraggy/apimfix/parser"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Pipeline defaults.
	Downgrade     bool
	TargetVersion string

	// Fetch settings.
	HTTPTimeout     time.Duration
	MaxFileSize     int64
	AllowPrivateIPs bool

	// Tool input/output limits.
	MaxInlineSize int64
	DefaultLimit  int
	MaxLimit      int
}

// cfg is read from the environment once, when the package loads.
var cfg = loadConfig()

// loadConfig reads the APIMFIX_* variables. Unset variables take the
// default; malformed ones log a warning and take the default too.
func loadConfig() *serverConfig {
	return &serverConfig{
		Downgrade:       env("APIMFIX_DOWNGRADE", normalizer.DefaultDowngrade, strconv.ParseBool),
		TargetVersion:   env("APIMFIX_TARGET_VERSION", converter.DefaultTargetVersion, parseTargetVersion),
		HTTPTimeout:     env("APIMFIX_HTTP_TIMEOUT", parser.DefaultHTTPTimeout, positive(time.ParseDuration)),
		MaxFileSize:     env("APIMFIX_MAX_FILE_SIZE", int64(parser.DefaultMaxFileSize), positive(parseInt64)),
		AllowPrivateIPs: env("APIMFIX_ALLOW_PRIVATE_IPS", false, strconv.ParseBool),
		MaxInlineSize:   env("APIMFIX_MAX_INLINE_SIZE", int64(10*1024*1024), positive(parseInt64)),
		DefaultLimit:    env("APIMFIX_DEFAULT_LIMIT", 100, positive(strconv.Atoi)),
		MaxLimit:        env("APIMFIX_MAX_LIMIT", 1000, positive(strconv.Atoi)),
	}
}

func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("ignoring invalid environment variable", "key", key, "value", raw, "default", fallback, "error", err)
		return fallback
	}
	return v
}

// positive rejects zero and negative results of parse.
func positive[T int | int64 | time.Duration](parse func(string) (T, error)) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := parse(s)
		if err == nil && v <= 0 {
			err = fmt.Errorf("%v is not positive", v)
		}
		return v, err
	}
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseTargetVersion(s string) (string, error) {
	if !converter.IsTargetVersion(s) {
		return "", fmt.Errorf("%s is not a 3.0.x version", s)
	}
	return s, nil
}
