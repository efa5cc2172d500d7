package bootstrap

import (
	"fmt"

	"stitchhub/internal/cache"
	"stitchhub/internal/config"
	"stitchhub/internal/database"
	"stitchhub/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedStarterDeck bool
}

// InitRuntime connects to DB and Redis and optionally seeds the built-in
// gallery deck.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedStarterDeck {
		f := seed.NewFactory(db, seed.Options{})
		if _, err := seed.SeedStarterDeck(db, f); err != nil {
			return nil, nil, fmt.Errorf("failed to seed starter deck: %w", err)
		}
	}

	return db, r, nil
}
