package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets are required and have no defaults;
// tunables (token lifetimes, bcrypt cost) fall back to sane values when
// unset.  The struct is built once at startup and passed by value to the
// constructors that need it, so configuration is immutable afterwards.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    AccessSecret   string // secret used to sign access tokens
    RefreshSecret  string // secret used to sign refresh tokens (distinct from AccessSecret)
    APIKey         string // static key expected in the api-key header
    AccessTTLSec   int    // access token time-to-live in seconds
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
    SweepInterval  int    // minutes between expired-session sweeps
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The two JWT secrets
// must differ; reusing one secret for both token kinds would let a leaked
// access token pass refresh verification.
func Load() Config {
    cfg := Config{
        Env:            must("APP_ENV"),              // environment (dev/test/prod)
        Port:           must("APP_PORT"),             // port to bind the HTTP server
        DBUser:         must("DB_USER"),              // database user
        DBPass:         os.Getenv("DB_PASS"),         // database password (empty allowed)
        DBHost:         must("DB_HOST"),              // database host
        DBPort:         must("DB_PORT"),              // database port
        DBName:         must("DB_NAME"),              // database name
        AccessSecret:   must("ACCESS_TOKEN_SECRET"),  // signing secret for access tokens
        RefreshSecret:  must("REFRESH_TOKEN_SECRET"), // signing secret for refresh tokens
        APIKey:         must("API_KEY"),              // static API key
        AccessTTLSec:   intOr("ACCESS_TOKEN_TTL_SEC", 3600), // default one hour
        RefreshTTLDays: intOr("REFRESH_TOKEN_TTL_DAYS", 7),  // default one week
        BcryptCost:     intOr("BCRYPT_COST", 12),            // default cost 12
        SweepInterval:  intOr("SWEEP_INTERVAL_MIN", 60),     // default hourly sweep
    }
    if cfg.AccessSecret == cfg.RefreshSecret {
        log.Fatal("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
    }
    return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intOr retrieves an optional integer environment variable, returning def
// when the variable is unset.  A value that is set but not an integer is
// still a fatal configuration error.
func intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
