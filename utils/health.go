package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether the wizard store is reachable. Receipts are
// best effort, so Mongo is reported but does not fail the check.
func (h HealthStatus) Healthy() bool {
	return h.Redis
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor checks the backing services immediately and then every
// interval until ctx is cancelled. Either client may be nil.
func StartHealthMonitor(ctx context.Context, redisClient *redis.Client, mongoClient *mongo.Client, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		status := HealthStatus{CheckedAt: time.Now()}
		if redisClient != nil {
			status.Redis = redisClient.Ping(pingCtx).Err() == nil
		}
		if mongoClient != nil {
			status.Mongo = mongoClient.Ping(pingCtx, nil) == nil
		}

		mu.Lock()
		currentHealth = status
		mu.Unlock()
	}

	check()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				check()
			}
		}
	}()
}
