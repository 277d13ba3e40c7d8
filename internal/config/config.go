package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  JWT issuer and audience have sensible defaults;
// the signing secret is mandatory outside of dev (see loadJWTSecret).
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign access tokens
	JWTIssuer   string // issuer claim placed in and required from tokens
	JWTAudience string // audience claim placed in and required from tokens
	BcryptCost  int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		JWTIssuer:   getenv("JWT_ISSUER", "employee-management-api"),
		JWTAudience: getenv("JWT_AUDIENCE", "employee-management-app"),
		BcryptCost:  mustInt("BCRYPT_COST"),
	}
	cfg.JWTSecret = loadJWTSecret(cfg.Env)
	return cfg
}

// loadJWTSecret returns the token signing secret.  In dev a well-known
// fallback literal is tolerated so the app runs without setup, but any other
// environment must configure JWT_SECRET explicitly: a service signing tokens
// with a published literal trusts every token anyone can forge.
func loadJWTSecret(env string) string {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v
	}
	if env == "dev" {
		log.Println("WARNING: JWT_SECRET not set, using the unsafe dev-only fallback key")
		return "DEFAULT_UNSAFE_DEV_KEY_REPLACE_ME_NOW_1234567890"
	}
	log.Fatalf("missing required env var: JWT_SECRET")
	return ""
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
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
