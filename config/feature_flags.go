package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages runtime feature toggles. Flags select between the
// in-memory and durable deployment shapes without code changes.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Persistence ===
	FeaturePersistencePostgres = "persistence.postgres" // Durable stores instead of in-memory
	FeatureCacheRedisScores    = "cache.redis_scores"   // Read-through Redis score cache

	// === Events ===
	FeatureEventsAsync    = "events.async"     // Asynchronous handler dispatch
	FeatureEventsRedisBus = "events.redis_bus" // Cross-instance event fan-out via Redis
	FeatureEventsAudit    = "events.audit"     // In-process audit trail of all events

	// === Rewards ===
	FeatureRewardsResilient = "rewards.resilient" // Retry + circuit breaker on disbursement
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeaturePersistencePostgres] = &Feature{
		Name:        FeaturePersistencePostgres,
		Description: "Store ledger state in PostgreSQL",
		Enabled:     false, // In-memory by default for local development
	}

	ff.features[FeatureCacheRedisScores] = &Feature{
		Name:        FeatureCacheRedisScores,
		Description: "Cache leaderboard scores in Redis",
		Enabled:     false,
	}

	ff.features[FeatureEventsAsync] = &Feature{
		Name:        FeatureEventsAsync,
		Description: "Dispatch event handlers asynchronously",
		Enabled:     true,
	}

	ff.features[FeatureEventsRedisBus] = &Feature{
		Name:        FeatureEventsRedisBus,
		Description: "Fan events out to other instances via Redis pub/sub",
		Enabled:     false,
	}

	ff.features[FeatureEventsAudit] = &Feature{
		Name:        FeatureEventsAudit,
		Description: "Keep an in-process audit trail of published events",
		Enabled:     true,
	}

	ff.features[FeatureRewardsResilient] = &Feature{
		Name:        FeatureRewardsResilient,
		Description: "Wrap reward disbursement in retry and circuit breaker",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_PERSISTENCE_POSTGRES=true
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "persistence.postgres" -> "FEATURE_PERSISTENCE_POSTGRES"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}
	return feature.Enabled
}

// SetEnabled updates a feature at runtime. Thread-safe.
func (ff *FeatureFlags) SetEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

// ErrFeatureNotFound is returned for unknown feature names.
var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
