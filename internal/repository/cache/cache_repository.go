package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// RunReportKey - ключ последнего отчёта запуска данного вида
func RunReportKey(kind string) string {
	return fmt.Sprintf("geosync:runs:%s:last", kind)
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetRunReport получает отчёт последнего запуска; nil при промахе
func (r *cacheRepository) GetRunReport(ctx context.Context, kind string) (*domain.RunReport, error) {
	data, err := r.Get(ctx, RunReportKey(kind))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		r.logger.Error("Failed to unmarshal run report from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal run report: %w", err)
	}

	return &report, nil
}

// SetRunReport сохраняет отчёт запуска под ключом его вида
func (r *cacheRepository) SetRunReport(ctx context.Context, report *domain.RunReport, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		r.logger.Error("Failed to marshal run report", zap.Error(err))
		return fmt.Errorf("marshal run report: %w", err)
	}

	return r.Set(ctx, RunReportKey(report.Kind), data, ttl)
}
