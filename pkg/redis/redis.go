package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/nvolkov/brewhub-backend/config"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ErrCodeNotFound is returned when no verification code is stored for a key
var ErrCodeNotFound = fmt.Errorf("verification code not found")

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// StoreVerificationCode stores an email verification code with a TTL
func StoreVerificationCode(ctx context.Context, email, code string, ttl time.Duration) error {
	key := fmt.Sprintf("verify:%s", email)
	if err := client.Set(ctx, key, code, ttl).Err(); err != nil {
		logger.Error("Failed to store verification code", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	logger.Debug("Verification code stored", map[string]interface{}{
		"email": email,
		"ttl":   ttl.String(),
	})
	return nil
}

// CheckVerificationCode compares the stored code against the submitted one
// and consumes it on success
func CheckVerificationCode(ctx context.Context, email, code string) (bool, error) {
	key := fmt.Sprintf("verify:%s", email)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		return false, ErrCodeNotFound
	}
	if err != nil {
		logger.Error("Failed to read verification code", err, map[string]interface{}{
			"email": email,
		})
		return false, err
	}

	if val != code {
		return false, nil
	}

	// One-shot: delete the code after successful verification
	if err := client.Del(ctx, key).Err(); err != nil {
		logger.Warn("Failed to delete consumed verification code", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
	}
	return true, nil
}
