package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultAddr          = ":4000"
	defaultRoundDuration = 30000 * time.Millisecond
	defaultRevealDelay   = 2000 * time.Millisecond
)

// Word options offered to a drawer. The first list is used for the opening
// round of a game, the second for every round after an advance.
var (
	defaultFirstWords = []string{"apple", "car", "house", "tree", "sun", "cat", "dog", "ball"}
	defaultNextWords  = []string{"tree", "pizza", "dog", "mountain", "river", "computer"}
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	RoundDuration  time.Duration
	RevealDelay    time.Duration
	FirstWords     []string
	NextWords      []string
}

// Load reads settings from the environment. Missing variables fall back to
// defaults; malformed numeric values are logged and ignored, never fatal.
func Load() Config {
	return Config{
		Addr:           envString("DRAWGUESS_ADDR", defaultAddr),
		AllowedOrigins: envList("ALLOWED_ORIGINS", nil),
		RoundDuration:  envDurationMs("ROUND_DURATION_MS", defaultRoundDuration),
		RevealDelay:    envDurationMs("REVEAL_DELAY_MS", defaultRevealDelay),
		FirstWords:     envList("WORD_LIST_FIRST", defaultFirstWords),
		NextWords:      envList("WORD_LIST_NEXT", defaultNextWords),
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envDurationMs(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, keeping default")
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func envList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
