package rdx

import (
	"log"
	"os"
	"time"

	"suretips/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}

// ---- thin wrappers so callers don't carry ctx/client plumbing ----

func RdxSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

func RdxHset(hash, field, value string) error {
	return Conn.HSet(globals.Ctx, hash, field, value).Err()
}

func RdxHget(hash, field string) (string, error) {
	return Conn.HGet(globals.Ctx, hash, field).Result()
}

func RdxHgetall(hash string) (map[string]string, error) {
	return Conn.HGetAll(globals.Ctx, hash).Result()
}

func RdxHdel(hash, field string) (int64, error) {
	return Conn.HDel(globals.Ctx, hash, field).Result()
}

// AcquireLock takes a short-lived mutation lock, used as the per-category
// in-flight guard for admin writes. Returns false when a request for the
// same key is already outstanding.
func AcquireLock(key string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(globals.Ctx, "lock:"+key, "1", ttl).Result()
}

func ReleaseLock(key string) {
	if err := RdxDel("lock:" + key); err != nil {
		log.Printf("ReleaseLock: failed for %s, err=%v\n", key, err)
	}
}
