package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadRedisClient 指向一個沒有人在聽的位址，所有操作都會失敗
func deadRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1, // 不重試，讓測試快一點
	})
}

func TestIsBlacklistedFailsOpen(t *testing.T) {
	blacklist := NewBlacklist(deadRedisClient())

	// Redis 連不上時查詢必須回傳 false (fail-open)：
	// 撤銷服務故障只會讓登出暫時不生效，不能擋掉所有已認證的流量
	revoked := blacklist.IsBlacklisted(context.Background(), "some-token")
	assert.False(t, revoked, "撤銷名單查詢失敗時必須 fail-open")
}

func TestIsUsableSurvivesBlacklistOutage(t *testing.T) {
	blacklist := NewBlacklist(deadRedisClient())
	svc := NewTokenService(testSecret, 24*time.Hour, blacklist)

	tokenString, _, err := svc.Issue("user-123", "testuser")
	require.NoError(t, err)

	// 撤銷名單整個掛掉時，有效的 token 要表現得像從未被撤銷一樣
	assert.True(t, svc.IsUsable(context.Background(), tokenString), "撤銷名單故障時有效 token 仍應可用")
}

func TestRevokeExpiredTokenIsNoOp(t *testing.T) {
	// 到期時間已過的 token 沒有什麼好保護的；
	// 即使 Redis 完全不可用，這個呼叫也不應該碰到它
	blacklist := NewBlacklist(deadRedisClient())

	err := blacklist.Revoke(context.Background(), "stale-token", time.Now().Add(-time.Minute))
	assert.NoError(t, err, "撤銷已過期的 token 應該是 no-op")
}

func TestRevokeUnreachableRedisReturnsError(t *testing.T) {
	blacklist := NewBlacklist(deadRedisClient())

	// 撤銷是寫入操作，失敗要往上報 (fail-open 只適用於查詢)
	err := blacklist.Revoke(context.Background(), "some-token", time.Now().Add(time.Hour))
	assert.Error(t, err, "Redis 不可用時撤銷寫入應該回報錯誤")
}
