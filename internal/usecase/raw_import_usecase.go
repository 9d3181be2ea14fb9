package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

// RawImportUseCase - загрузка GeoJSON файла в таблицу сырых границ
type RawImportUseCase struct {
	boundaryRepo repository.BoundaryRepository
	source       repository.FeatureSource
	reports      *RunReportUseCase
	settings     Settings
	logger       *zap.Logger
}

func NewRawImportUseCase(
	boundaryRepo repository.BoundaryRepository,
	source repository.FeatureSource,
	reports *RunReportUseCase,
	settings Settings,
	logger *zap.Logger,
) *RawImportUseCase {
	return &RawImportUseCase{
		boundaryRepo: boundaryRepo,
		source:       source,
		reports:      reports,
		settings:     settings,
		logger:       logger,
	}
}

func (uc *RawImportUseCase) Run(ctx context.Context, req dto.RawImportRequest, progress ProgressFunc) (*domain.RunReport, error) {
	if err := validateParams(&req); err != nil {
		return nil, err
	}
	if err := probe(ctx, "boundaries", uc.boundaryRepo); err != nil {
		return nil, err
	}

	set, err := uc.source.ReadFile(req.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	loaded, err := uc.boundaryRepo.ExternalIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load external ids: %v", ErrStoreUnavailable, err)
	}

	report := newReport(domain.RunKindRawLoad, req.File, req.DryRun)
	report.TotalFeatures = set.Total
	report.Processed = set.Total
	report.Errors = len(set.Errors)

	var fresh []*domain.BoundaryRecord
	for _, f := range set.Features {
		if _, ok := loaded[f.Record.ExternalID]; ok {
			report.Skipped++
			continue
		}
		loaded[f.Record.ExternalID] = struct{}{}
		fresh = append(fresh, f.Record)
	}
	report.Candidates = len(fresh)

	uc.logger.Info("Raw load started",
		zap.String("run_id", report.RunID),
		zap.String("file", req.File),
		zap.Int("features", set.Total),
		zap.Int("new", len(fresh)),
		zap.Int("already_loaded", report.Skipped))

	if len(fresh) == 0 {
		uc.logger.Info("Nothing to insert", zap.String("run_id", report.RunID))
	} else {
		res := RunBatches(ctx, fresh, uc.settings.batchSize(req.Batch), uc.boundaryRepo.InsertBatch, nil, progress, uc.logger)
		report.Inserted = res.Inserted
		report.Errors += res.Failed
	}

	uc.reports.Save(ctx, report)
	uc.logger.Info("Raw load finished",
		zap.String("run_id", report.RunID),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", report.Errors),
		zap.Duration("took", report.Duration()))
	return report, nil
}
