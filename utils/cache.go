// File: utils/cache.go
package utils

import (
	"autobid/config"
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// WizardCacheClient holds in-progress booking wizards.
var WizardCacheClient *redis.Client

// InitWizardCache initializes the Redis client used for wizard sessions.
func InitWizardCache() {
	WizardCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWizardDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := WizardCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Wizard Cache): %v", err)
	}
}

// GetWizardCacheClient returns the wizard session client.
func GetWizardCacheClient() *redis.Client {
	if WizardCacheClient == nil {
		InitWizardCache()
	}
	return WizardCacheClient
}
