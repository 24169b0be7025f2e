package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by VERACITY_ENV (or .env by
// default), then the corresponding .secret sidecar if it exists. All
// config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("VERACITY_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// NATSURL returns the NATS server URL for event publishing. Empty means
// eventing is disabled and a no-op publisher is used.
func NATSURL() string {
	return os.Getenv("NATS_URL")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// PromotionThreshold returns the minimum weighted eligibility score.
// Defaults to 0.80.
func PromotionThreshold() float64 {
	t, err := strconv.ParseFloat(os.Getenv("PROMOTION_THRESHOLD"), 64)
	if err != nil || t <= 0 || t > 1 {
		return 0.80
	}
	return t
}

// MinConsensusVotes returns the participation floor for the consensus
// component. Defaults to 5.
func MinConsensusVotes() int {
	n, err := strconv.Atoi(os.Getenv("MIN_CONSENSUS_VOTES"))
	if err != nil || n <= 0 {
		return 5
	}
	return n
}

func eligibilityWeight(key string, fallback float64) float64 {
	w, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || w < 0 || w > 1 {
		return fallback
	}
	return w
}

// EligibilityWeights returns the four promotion component weights. The
// eligibility service rejects sets that do not sum to 1.0.
func EligibilityWeights() (methodology, consensus, evidence, disputes float64) {
	methodology = eligibilityWeight("WEIGHT_METHODOLOGY", 0.30)
	consensus = eligibilityWeight("WEIGHT_CONSENSUS", 0.30)
	evidence = eligibilityWeight("WEIGHT_EVIDENCE_QUALITY", 0.25)
	disputes = eligibilityWeight("WEIGHT_DISPUTE_RESOLUTION", 0.15)
	return
}

// RateLimitRPS returns requests per second limit. Defaults to 100.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting. Defaults to 20.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error). Defaults
// to "info".
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
