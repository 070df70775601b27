package config // package config loads application configuration from environment variables

import (
    "errors"  // errors joins missing-variable errors in Validate
    "fmt"     // fmt formats validation messages
    "os"      // os provides access to environment variables
    "strings" // strings trims list values
    "time"    // time parses lookup timeouts

    "github.com/joho/godotenv" // godotenv loads an optional .env file into the environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets are kept as strings; durations and counts
// are parsed once here so callers do not have to.
type Config struct {
    Env              string        // application environment (e.g. "dev", "prod")
    Port             string        // HTTP port to listen on
    DBURI            string        // store connection string (sqlite://path or mysql://dsn)
    LogLevel         string        // logrus level name
    APIKey           string        // credential for the movie lookup service
    SessionSecret    string        // secret used to sign flash cookies
    LookupBaseURL    string        // base URL of the movie lookup REST API
    LookupImageURL   string        // prefix joined with poster paths
    LookupTimeout    time.Duration // bound for a single outbound lookup request
    LookupMaxRetries int           // retries on transient lookup failures
    SeedPages        int           // number of top-rated pages fetched when seeding
    AMQPURL          string        // RabbitMQ URL for activity events (empty disables)
}

// Load reads an optional .env file and then builds a Config from the process
// environment.  Missing values fall back to defaults; Validate reports the
// variables a command needs but did not get.
func Load() Config {
    _ = godotenv.Load() // a missing .env file is not an error

    return Config{
        Env:              getenv("APP_ENV", "dev"),
        Port:             getenv("APP_PORT", "8080"),
        DBURI:            getenv("DB_URI", "sqlite://movies.db"),
        LogLevel:         getenv("LOG_LEVEL", "info"),
        APIKey:           os.Getenv("API_KEY"),
        SessionSecret:    os.Getenv("SESSION_SECRET"),
        LookupBaseURL:    strings.TrimRight(getenv("LOOKUP_BASE_URL", "https://api.themoviedb.org/3"), "/"),
        LookupImageURL:   getenv("LOOKUP_IMAGE_URL", "https://image.tmdb.org/t/p/w500"),
        LookupTimeout:    envDur("LOOKUP_TIMEOUT", 10*time.Second),
        LookupMaxRetries: envInt("LOOKUP_MAX_RETRIES", 1),
        SeedPages:        envInt("SEED_PAGES", 5),
        AMQPURL:          os.Getenv("AMQP_URL"),
    }
}

// Validate returns an error naming every required key that is empty.  The
// keys are passed by the caller because each command needs a different set.
func (c Config) Validate(keys ...string) error {
    values := map[string]string{
        "API_KEY":        c.APIKey,
        "SESSION_SECRET": c.SessionSecret,
        "DB_URI":         c.DBURI,
        "APP_PORT":       c.Port,
    }
    var errs []error
    for _, k := range keys {
        if strings.TrimSpace(values[k]) == "" {
            errs = append(errs, fmt.Errorf("missing required env var: %s", k))
        }
    }
    if c.LookupTimeout <= 0 {
        errs = append(errs, errors.New("LOOKUP_TIMEOUT must be positive"))
    }
    if c.LookupMaxRetries < 0 {
        errs = append(errs, errors.New("LOOKUP_MAX_RETRIES must not be negative"))
    }
    if c.SeedPages < 1 {
        errs = append(errs, errors.New("SEED_PAGES must be at least 1"))
    }
    return errors.Join(errs...)
}

// IsProd reports whether the service runs with production settings.
func (c Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") }
