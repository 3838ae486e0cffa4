package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"resume-insight-go/internal/config"
	"resume-insight-go/internal/constants"
	"resume-insight-go/internal/types"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("报告缓存未命中")

// RedisAdapter 提供MD5去重集合与报告缓存
type RedisAdapter struct {
	client *redis.Client
	cfg    *config.RedisConfig
	logger zerolog.Logger
}

// NewRedisAdapter 创建Redis客户端并验证连通性
func NewRedisAdapter(cfg *config.RedisConfig, logger zerolog.Logger) (*RedisAdapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("Redis配置不能为空")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	})

	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Warn().Err(err).Msg("启用Redis链路追踪失败")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接测试失败: %w", err)
	}

	logger.Info().Str("address", cfg.Address).Int("db", cfg.DB).Msg("Redis连接初始化成功")
	return &RedisAdapter{client: client, cfg: cfg, logger: logger}, nil
}

// Client 返回底层Redis客户端
func (r *RedisAdapter) Client() *redis.Client {
	return r.client
}

// Ping 检查Redis连通性
func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close 关闭Redis连接
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

// CheckAndAddRawFileMD5 检查原始文件MD5是否已存在，不存在则加入去重集合
// 返回true表示此前已存在（重复文件）
func (r *RedisAdapter) CheckAndAddRawFileMD5(ctx context.Context, md5Hex string) (bool, error) {
	return r.checkAndAddMD5(ctx, constants.KeyRawFileMD5Set, md5Hex)
}

// CheckAndAddParsedTextMD5 检查解析文本MD5是否已存在，不存在则加入去重集合
// 返回true表示此前已存在（重复内容）
func (r *RedisAdapter) CheckAndAddParsedTextMD5(ctx context.Context, md5Hex string) (bool, error) {
	return r.checkAndAddMD5(ctx, constants.KeyParsedTextMD5Set, md5Hex)
}

func (r *RedisAdapter) checkAndAddMD5(ctx context.Context, setKey, md5Hex string) (bool, error) {
	added, err := r.client.SAdd(ctx, setKey, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("向去重集合 %s 写入MD5失败: %w", setKey, err)
	}

	// 每次写入都刷新过期时间，集合随最近一次上传滚动续期
	if r.cfg.MD5RecordExpireDays > 0 {
		expiry := time.Duration(r.cfg.MD5RecordExpireDays) * 24 * time.Hour
		if err := r.client.Expire(ctx, setKey, expiry).Err(); err != nil {
			r.logger.Warn().Err(err).Str("key", setKey).Msg("刷新去重集合过期时间失败")
		}
	}

	// SAdd返回0表示成员已存在
	return added == 0, nil
}

// RemoveRawFileMD5 从去重集合移除原始文件MD5
// 用于上传入库失败后的回滚，避免该文件被永久拒绝
func (r *RedisAdapter) RemoveRawFileMD5(ctx context.Context, md5Hex string) error {
	if err := r.client.SRem(ctx, constants.KeyRawFileMD5Set, md5Hex).Err(); err != nil {
		return fmt.Errorf("移除原始文件MD5失败: %w", err)
	}
	return nil
}

// CacheReport 缓存分析结果
func (r *RedisAdapter) CacheReport(ctx context.Context, submissionUUID string, result *types.AnalysisResult) error {
	if r.cfg.ReportCacheTTLMinutes <= 0 {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化分析结果失败: %w", err)
	}

	key := fmt.Sprintf(constants.KeyReportCache, submissionUUID)
	ttl := time.Duration(r.cfg.ReportCacheTTLMinutes) * time.Minute
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("写入报告缓存 %s 失败: %w", key, err)
	}
	return nil
}

// GetCachedReport 读取分析结果缓存，未命中返回ErrCacheMiss
func (r *RedisAdapter) GetCachedReport(ctx context.Context, submissionUUID string) (*types.AnalysisResult, error) {
	key := fmt.Sprintf(constants.KeyReportCache, submissionUUID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("读取报告缓存 %s 失败: %w", key, err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("反序列化报告缓存 %s 失败: %w", key, err)
	}
	return &result, nil
}
