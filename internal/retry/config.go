package retry

import (
	"os"
	"strconv"
	"time"
)

// Config holds retry configuration.
type Config struct {
	Enabled      bool          // Enable/disable the retry mechanism
	MaxRetries   int           // Maximum number of retry attempts
	InitialDelay time.Duration // Initial delay before the first retry
	MaxDelay     time.Duration // Maximum delay between retries
}

// DefaultConfig returns the retry configuration used for transaction
// submission when nothing else is specified.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		MaxRetries:   5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// LoadConfig loads retry configuration from environment variables.
func LoadConfig() Config {
	def := DefaultConfig()
	return Config{
		Enabled:      getEnvAsBool("SOROBAN_RETRY_ENABLED", def.Enabled),
		MaxRetries:   getEnvAsInt("SOROBAN_RETRY_MAX_RETRIES", def.MaxRetries),
		InitialDelay: time.Duration(getEnvAsInt("SOROBAN_RETRY_INITIAL_DELAY_SEC", 1)) * time.Second,
		MaxDelay:     time.Duration(getEnvAsInt("SOROBAN_RETRY_MAX_DELAY_SEC", 30)) * time.Second,
	}
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
