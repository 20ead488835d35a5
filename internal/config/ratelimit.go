package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig controls the Redis budget placed in front of the
// advisor endpoints. Every learner has one bucket of Capacity credits
// that refills RefillTokens credits per RefillInterval. Each advisor call
// spends its cost from Costs, so a roadmap uses up the budget faster
// than a chat turn.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string // "user" (default) or "ip"
	Prefix         string
	Debug          bool
	Costs          AdvisorCosts
}

// AdvisorCosts is the number of credits each advisor call spends.
type AdvisorCosts struct {
	Chat     int
	Projects int
	Roadmap  int
	Insights int
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 20),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 30*time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", time.Hour),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "user"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "mentor:credits"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
		Costs: AdvisorCosts{
			Chat:     envInt("RATE_LIMIT_COST_CHAT", 1),
			Projects: envInt("RATE_LIMIT_COST_PROJECTS", 3),
			Roadmap:  envInt("RATE_LIMIT_COST_ROADMAP", 5),
			Insights: envInt("RATE_LIMIT_COST_INSIGHTS", 2),
		},
	}
	cfg.Capacity = max(cfg.Capacity, 1)
	cfg.RefillTokens = max(cfg.RefillTokens, 1)
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// A bucket must outlive a full refill or idle users lose credits early.
	full := time.Duration((cfg.Capacity+cfg.RefillTokens-1)/cfg.RefillTokens) * cfg.RefillInterval
	cfg.TTL = max(cfg.TTL, full)
	// A cost above capacity could never be paid.
	for _, c := range []*int{&cfg.Costs.Chat, &cfg.Costs.Projects, &cfg.Costs.Roadmap, &cfg.Costs.Insights} {
		*c = min(max(*c, 1), cfg.Capacity)
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
