package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // loads a .env file into the process environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
	LogLevel     string // zap log level (debug/info/warn/error)
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file is loaded first when present so local development
// does not require exporting variables by hand.  Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
	_ = godotenv.Load() // best effort; absence of .env is fine in prod

	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}
}

// WebConfig holds the settings of the form client binary.  The client only
// needs to know where to listen and where the API lives.
type WebConfig struct {
	Env     string // application environment
	Port    string // HTTP port for the client to listen on
	APIBase string // base URL of the API server, e.g. http://localhost:3000
}

// LoadWeb reads the client configuration.  Defaults are deliberately
// permissive so the client can run next to a locally started API server
// without any environment at all.
func LoadWeb() WebConfig {
	_ = godotenv.Load()

	return WebConfig{
		Env:     getenv("APP_ENV", "dev"),
		Port:    getenv("WEB_PORT", "8081"),
		APIBase: getenv("API_BASE_URL", "http://localhost:3000"),
	}
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
