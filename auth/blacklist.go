package auth

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// Blacklist 用 Redis 追蹤已撤銷但尚未過期的 token。
// TTL 設為 token 的剩餘效期，到期後由 Redis 自動清除，不需要額外清理
type Blacklist struct {
	client *redis.Client
}

func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

// Revoke 將 token 加入撤銷名單，TTL 為 expiry 距今的時間。
// Token 已過期時不做任何事，因為它本來就不可用了
func (b *Blacklist) Revoke(ctx context.Context, token string, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistPrefix+token, "blacklisted", ttl).Err(); err != nil {
		log.Printf("Error adding token to blacklist: %v", err)
		return err
	}
	return nil
}

// IsBlacklisted 查詢 token 是否在撤銷名單裡。
// Redis 查詢失敗時回傳 false (fail-open)：撤銷服務故障只會讓登出暫時不生效，
// 而不是擋掉所有已認證的流量
func (b *Blacklist) IsBlacklisted(ctx context.Context, token string) bool {
	exists, err := b.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		log.Printf("Error checking token blacklist, failing open: %v", err)
		return false
	}
	return exists > 0
}

// Remove 將 token 從撤銷名單移除 (必要時使用)
func (b *Blacklist) Remove(ctx context.Context, token string) error {
	return b.client.Del(ctx, blacklistPrefix+token).Err()
}
