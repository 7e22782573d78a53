// Package config provides configuration management for the content backend.
// Every value is read once from the environment at startup (optionally seeded from a
// `.env` file by the bootstrap); there is no hot reload. Loading collects every problem it
// finds and reports them together so a misconfigured deployment fails with one message.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/user/may15-go/apperror"
)

// PasswordPlaceholder is the token inside CONNECTION_STRING that is replaced by DB_PASSWORD.
const PasswordPlaceholder = "<password>"

// Driver names the persistence backend selected by the connection string scheme.
type Driver string

const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

// StoreConfig holds the document store connection settings.
type StoreConfig struct {
	ConnectionTemplate string // CONNECTION_STRING, may contain PasswordPlaceholder
	Password           string // DB_PASSWORD, substituted into the template
	DatabaseName       string // DB_NAME, optional; mongo falls back to the URI database
}

// ConnectionURI returns the connection string with the password substituted.
// Every occurrence of the placeholder is replaced verbatim.
func (s *StoreConfig) ConnectionURI() string {
	return strings.ReplaceAll(s.ConnectionTemplate, PasswordPlaceholder, s.Password)
}

// Driver derives the backend from the connection string scheme.
func (s *StoreConfig) Driver() (Driver, error) {
	scheme, _, found := strings.Cut(s.ConnectionTemplate, "://")
	if !found {
		return "", fmt.Errorf("connection string has no scheme")
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("unsupported connection string scheme %q", scheme)
	}
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string        // PORT
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string // LOG_LEVEL: debug, info, warn, error
	Format string // LOG_FORMAT: json or text
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Store  *StoreConfig
	Server *ServerConfig
	Log    *LogConfig
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as time.Duration.
// Uses defaultValue if not set or if parsing fails. Appends an error if parsing fails.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// oneOf lowercases the value and checks it against the allowed set.
func oneOf(key, value string, allowed []string, errors *[]string) string {
	value = strings.ToLower(value)
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	*errors = append(*errors, fmt.Sprintf("invalid value for %s: %q (allowed: %s)", key, value, strings.Join(allowed, ", ")))
	return allowed[0]
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Store Configuration
	store := &StoreConfig{
		ConnectionTemplate: getRequiredEnv("CONNECTION_STRING", &errors),
		Password:           getOptionalEnv("DB_PASSWORD", ""),
		DatabaseName:       getOptionalEnv("DB_NAME", ""),
	}
	if store.ConnectionTemplate != "" {
		if strings.Contains(store.ConnectionTemplate, PasswordPlaceholder) && store.Password == "" {
			errors = append(errors, fmt.Sprintf("CONNECTION_STRING contains %s but DB_PASSWORD is not set", PasswordPlaceholder))
		}
		if _, err := store.Driver(); err != nil {
			errors = append(errors, fmt.Sprintf("invalid CONNECTION_STRING: %v", err))
		}
	}

	// Server Configuration
	server := &ServerConfig{
		Port:            getRequiredEnv("PORT", &errors),
		ShutdownTimeout: getOptionalEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second, &errors),
	}

	// Logging Configuration
	logCfg := &LogConfig{
		Level:  oneOf("LOG_LEVEL", getOptionalEnv("LOG_LEVEL", "info"), []string{"info", "debug", "warn", "error"}, &errors),
		Format: oneOf("LOG_FORMAT", getOptionalEnv("LOG_FORMAT", "json"), []string{"json", "text"}, &errors),
	}

	if len(errors) > 0 {
		return nil, apperror.NewConfigError(fmt.Sprintf("configuration errors:\n- %s", strings.Join(errors, "\n- ")), nil)
	}

	return &AppConfig{
		Store:  store,
		Server: server,
		Log:    logCfg,
	}, nil
}
