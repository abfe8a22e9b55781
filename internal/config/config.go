package config // package config loads application configuration from environment variables

import (
	"time"

	"github.com/joho/godotenv" // godotenv reads a local .env file into the process environment
)

const (
	// DefaultSourceURL is the occupancy page scraped when EPIROOMS_URL is unset.
	DefaultSourceURL = "https://epirooms.eu/LIL/2"
	// DefaultUpdateInterval refreshes at the top of every hour.
	DefaultUpdateInterval = "0 * * * *"
	// DefaultUserAgent is sent with every page fetch.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; every one of them has a default so the service
// starts with an empty environment.
type Config struct {
	Env            string        // APP_ENV: application environment (dev, prod)
	Port           string        // APP_PORT: HTTP port to listen on
	SourceURL      string        // EPIROOMS_URL: page holding the room data
	UpdateInterval string        // UPDATE_INTERVAL: cron expression driving refreshes
	RefreshOnStart bool          // REFRESH_ON_START: refresh once before the schedule starts
	UserAgent      string        // USER_AGENT: identity header sent to the source page
	FetchTimeout   time.Duration // FETCH_TIMEOUT: bound on a single page fetch
	JWTSecret      string        // JWT_SECRET: verifies operator tokens on manual refresh (empty disables the check)
	LogLevel       string        // LOG_LEVEL: debug, info, warn, error
	LogFormat      string        // LOG_FORMAT: json or console
}

// LoadDotEnv loads a .env file from the working directory when one exists.
// Variables already set in the environment win.  A missing file is not an
// error; a malformed one is.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !isNotExist(err) {
			return err
		}
	}
	return nil
}

// Load reads configuration values from environment variables and returns a
// Config.
func Load() Config {
	return Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		SourceURL:      envStr("EPIROOMS_URL", DefaultSourceURL),
		UpdateInterval: envStr("UPDATE_INTERVAL", DefaultUpdateInterval),
		RefreshOnStart: envBool("REFRESH_ON_START", true),
		UserAgent:      envStr("USER_AGENT", DefaultUserAgent),
		FetchTimeout:   envDur("FETCH_TIMEOUT", 30*time.Second),
		JWTSecret:      envStr("JWT_SECRET", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		LogFormat:      envStr("LOG_FORMAT", "json"),
	}
}
