package testsupport

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
)

// RedisAddrEnv 集成测试使用的 Redis 地址，未设置时跳过
const RedisAddrEnv = "ELEARNING_TEST_REDIS_ADDR"

// NewRedisClient 连接测试 Redis 并在前后清空当前库
func NewRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv(RedisAddrEnv)
	if addr == "" || testing.Short() {
		t.Skipf("redis integration test skipped, set %s to run", RedisAddrEnv)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis before test: %v", err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}
