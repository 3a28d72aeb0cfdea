package lib

import (
	"fmt"
	"log"
	"os"

	"brightaid/src/types"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		return nil
	}
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// GamificationCacheKey is where the serialized reputation record for an
// actor lives between recomputes.
func GamificationCacheKey(kind types.ActorKind, actorId uint) string {
	return fmt.Sprintf("%s:%d:gamification", kind, actorId)
}
