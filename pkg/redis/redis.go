package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Mugasir/edu-trust-ledger/config"
)

// Client Redis 客户端封装
// 当前用于 Token 黑名单、接口限流与查询机构月度配额计数
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 接口限流（固定窗口计数）──

// CheckRateLimit 检查并累计窗口内请求数，返回是否放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// 首次命中时设置窗口过期
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── 查询机构月度配额 ──

const searchQuotaPrefix = "org:search_quota:"

// IncrSearchCount 累计某查询机构当月的检索次数并返回累计值
// key 按自然月滚动（org:search_quota:<orgID>:<2006-01>），月底自动过期
func (c *Client) IncrSearchCount(ctx context.Context, orgID string, now time.Time) (int64, error) {
	key := fmt.Sprintf("%s%s:%s", searchQuotaPrefix, orgID, now.Format("2006-01"))
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		// 保留到下月月底，配额查询跨月仍可读
		if err := c.rdb.Expire(ctx, key, 62*24*time.Hour).Err(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// GetSearchCount 读取某查询机构当月已用检索次数
func (c *Client) GetSearchCount(ctx context.Context, orgID string, now time.Time) (int64, error) {
	key := fmt.Sprintf("%s%s:%s", searchQuotaPrefix, orgID, now.Format("2006-01"))
	n, err := c.rdb.Get(ctx, key).Int64()
	if err != nil {
		if err == goredis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
