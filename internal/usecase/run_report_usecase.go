package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/errors"
)

var nowFunc = time.Now

// RunReportUseCase хранит отчёт последнего запуска каждого вида
type RunReportUseCase struct {
	cacheRepo repository.CacheRepository
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRunReportUseCase - cacheRepo может быть nil (Redis выключен)
func NewRunReportUseCase(cacheRepo repository.CacheRepository, ttl time.Duration, logger *zap.Logger) *RunReportUseCase {
	return &RunReportUseCase{cacheRepo: cacheRepo, ttl: ttl, logger: logger}
}

// Save завершает отчёт и кладёт его в кеш; сбой кеша не влияет на запуск
func (uc *RunReportUseCase) Save(ctx context.Context, report *domain.RunReport) {
	if report.FinishedAt.IsZero() {
		report.FinishedAt = nowFunc()
	}
	if uc == nil || uc.cacheRepo == nil || report.DryRun {
		return
	}
	if err := uc.cacheRepo.SetRunReport(ctx, report, uc.ttl); err != nil {
		uc.logger.Warn("Failed to cache run report",
			zap.String("kind", report.Kind),
			zap.Error(err))
	}
}

// Last возвращает отчёт последнего запуска вида kind
func (uc *RunReportUseCase) Last(ctx context.Context, kind string) (*domain.RunReport, error) {
	switch kind {
	case domain.RunKindImport, domain.RunKindRawLoad, domain.RunKindSync:
	default:
		return nil, errors.ErrInvalidRunKind
	}
	if uc.cacheRepo == nil {
		return nil, errors.ErrCacheDisabled
	}

	report, err := uc.cacheRepo.GetRunReport(ctx, kind)
	if err != nil {
		uc.logger.Error("Failed to get run report", zap.String("kind", kind), zap.Error(err))
		return nil, errors.ErrCacheError
	}
	if report == nil {
		return nil, errors.ErrRunReportNotFound
	}
	return report, nil
}
