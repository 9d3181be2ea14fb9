package repository

import (
	"context"
	"time"

	"github.com/mappertrip/geosync/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetRunReport получает отчёт последнего запуска данного вида
	GetRunReport(ctx context.Context, kind string) (*domain.RunReport, error)

	// SetRunReport сохраняет отчёт запуска
	SetRunReport(ctx context.Context, report *domain.RunReport, ttl time.Duration) error
}
