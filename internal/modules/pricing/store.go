// README: Pricing settings store: Postgres rows merged over defaults, Redis cache.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const configCacheKey = "pricing:config"

// ErrInvalidSetting marks an out-of-range admin update (e.g. fuel levy
// outside 0–25).
var ErrInvalidSetting = errors.New("pricing: invalid setting")

// Store materializes the deployment's rate card: DefaultConfig with the
// pricing_settings and pricing_tiers rows overlaid, cached in Redis so
// the quote endpoint does not hit Postgres on every keystroke.
type Store struct {
	db       *pgxpool.Pool
	redis    *redis.Client
	cacheTTL time.Duration
}

func NewStore(db *pgxpool.Pool, redis *redis.Client, cacheTTL time.Duration) *Store {
	return &Store{db: db, redis: redis, cacheTTL: cacheTTL}
}

// Config returns the effective pricing configuration.
func (s *Store) Config(ctx context.Context) (Config, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, configCacheKey).Bytes(); err == nil {
			var cfg Config
			if err := json.Unmarshal(raw, &cfg); err == nil {
				return cfg, nil
			}
			// Corrupt cache entry; fall through to the database read.
		}
	}

	cfg, err := s.load(ctx)
	if err != nil {
		return Config{}, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(cfg); err == nil {
			_ = s.redis.Set(ctx, configCacheKey, raw, s.cacheTTL).Err()
		}
	}
	return cfg, nil
}

func (s *Store) load(ctx context.Context) (Config, error) {
	cfg := DefaultConfig()

	rows, err := s.db.Query(ctx, `SELECT key, value FROM pricing_settings`)
	if err != nil {
		return Config{}, fmt.Errorf("pricing settings query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return Config{}, err
		}
		applySetting(&cfg, key, value)
	}
	if err := rows.Err(); err != nil {
		return Config{}, err
	}

	tierRows, err := s.db.Query(ctx, `
		SELECT service_type, multiplier, minimum, requires_quote
		FROM pricing_tiers`)
	if err != nil {
		return Config{}, fmt.Errorf("pricing tiers query: %w", err)
	}
	defer tierRows.Close()
	for tierRows.Next() {
		var svc string
		var tier TierConfig
		if err := tierRows.Scan(&svc, &tier.Multiplier, &tier.Minimum, &tier.RequiresQuote); err != nil {
			return Config{}, err
		}
		cfg.Tiers[ServiceType(svc)] = tier
	}
	return cfg, tierRows.Err()
}

func applySetting(cfg *Config, key string, value float64) {
	switch key {
	case "distance_rate_per_km":
		cfg.DistanceRatePerKm = value
	case "weight_rate_per_kg":
		cfg.WeightRatePerKg = value
	case "base_fee":
		cfg.BaseFee = value
	case "fuel_levy_percent":
		cfg.FuelLevyPercent = value
	case "gst_percent":
		cfg.GSTPercent = value
	case "waiting_rate_per_minute":
		cfg.WaitingRatePerMinute = value
	case "under_10kg_nominal_kg":
		cfg.Under10kgNominalKg = value
	case "volumetric_divisor":
		cfg.VolumetricDivisor = value
	case "after_hours_callout":
		cfg.AfterHoursCallout = value
	case "after_hours_included_km":
		cfg.AfterHoursIncludedKm = value
	case "after_hours_excess_rate":
		cfg.AfterHoursExcessRate = value
	}
	// Unknown keys are ignored; older deployments may carry rows for
	// settings this build no longer reads.
}

// ConfigPatch is a partial admin update; nil fields are left untouched.
type ConfigPatch struct {
	DistanceRatePerKm    *float64                   `json:"distance_rate_per_km,omitempty"`
	WeightRatePerKg      *float64                   `json:"weight_rate_per_kg,omitempty"`
	BaseFee              *float64                   `json:"base_fee,omitempty"`
	FuelLevyPercent      *float64                   `json:"fuel_levy_percent,omitempty"`
	WaitingRatePerMinute *float64                   `json:"waiting_rate_per_minute,omitempty"`
	Tiers                map[ServiceType]TierConfig `json:"tiers,omitempty"`
}

// Update upserts override rows and invalidates the cache. The effective
// configuration after the update is returned.
func (s *Store) Update(ctx context.Context, patch ConfigPatch) (Config, error) {
	if patch.FuelLevyPercent != nil && (*patch.FuelLevyPercent < 0 || *patch.FuelLevyPercent > 25) {
		return Config{}, fmt.Errorf("%w: fuel levy must be within 0–25", ErrInvalidSetting)
	}
	for svc, tier := range patch.Tiers {
		if tier.Multiplier < 0 || tier.Minimum < 0 {
			return Config{}, fmt.Errorf("%w: tier %s", ErrInvalidSetting, svc)
		}
	}

	settings := map[string]*float64{
		"distance_rate_per_km":    patch.DistanceRatePerKm,
		"weight_rate_per_kg":      patch.WeightRatePerKg,
		"base_fee":                patch.BaseFee,
		"fuel_levy_percent":       patch.FuelLevyPercent,
		"waiting_rate_per_minute": patch.WaitingRatePerMinute,
	}
	for key, value := range settings {
		if value != nil && *value < 0 {
			return Config{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidSetting, key)
		}
	}

	// All upserts run in one transaction so a failed update never leaves
	// a partially applied rate card. The cache is dropped even on
	// failure; serving a re-read of consistent rows is always safe.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Config{}, err
	}
	defer tx.Rollback(ctx)

	for key, value := range settings {
		if value == nil {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO pricing_settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			key, *value,
		)
		if err != nil {
			s.invalidate(ctx)
			return Config{}, err
		}
	}

	for svc, tier := range patch.Tiers {
		_, err := tx.Exec(ctx, `
			INSERT INTO pricing_tiers (service_type, multiplier, minimum, requires_quote)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (service_type) DO UPDATE
			SET multiplier = EXCLUDED.multiplier,
			    minimum = EXCLUDED.minimum,
			    requires_quote = EXCLUDED.requires_quote`,
			string(svc), tier.Multiplier, tier.Minimum, tier.RequiresQuote,
		)
		if err != nil {
			s.invalidate(ctx)
			return Config{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.invalidate(ctx)
		return Config{}, err
	}

	s.invalidate(ctx)
	return s.load(ctx)
}

func (s *Store) invalidate(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, configCacheKey).Err()
	}
}
