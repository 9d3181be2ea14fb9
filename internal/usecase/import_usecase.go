package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

// ImportUseCase - импорт GeoJSON файла напрямую в зоны
type ImportUseCase struct {
	zoneRepo repository.ZoneRepository
	source   repository.FeatureSource
	events   *EventPublisher
	reports  *RunReportUseCase
	settings Settings
	logger   *zap.Logger
}

func NewImportUseCase(
	zoneRepo repository.ZoneRepository,
	source repository.FeatureSource,
	events *EventPublisher,
	reports *RunReportUseCase,
	settings Settings,
	logger *zap.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		zoneRepo: zoneRepo,
		source:   source,
		events:   events,
		reports:  reports,
		settings: settings,
		logger:   logger,
	}
}

// Run выполняет импорт. Ошибка возвращается только для фатальных случаев
// (параметры, недоступное хранилище, нечитаемый файл); всё остальное в отчёте.
func (uc *ImportUseCase) Run(ctx context.Context, req dto.ImportRequest, progress ProgressFunc) (*domain.RunReport, error) {
	if err := validateParams(&req); err != nil {
		return nil, err
	}
	if err := uc.settings.checkStoreBatch(req.Store, req.Batch); err != nil {
		return nil, err
	}
	if err := probe(ctx, "zones", uc.zoneRepo); err != nil {
		return nil, err
	}

	set, err := uc.source.ReadFile(req.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	existing, err := uc.zoneRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load zones: %v", ErrStoreUnavailable, err)
	}

	report := newReport(domain.RunKindImport, req.File, req.DryRun)
	report.TotalFeatures = set.Total
	report.Processed = set.Total
	report.Errors = len(set.Errors)

	index := NewExistenceIndex(existing)
	healer := statusHealer{zones: uc.zoneRepo, logger: uc.logger}
	country := uc.settings.countryCode(req.Country)
	kind := uc.settings.zoneKind()

	uc.logger.Info("Import started",
		zap.String("run_id", report.RunID),
		zap.String("file", req.File),
		zap.Int("features", set.Total),
		zap.Int("geometry_errors", len(set.Errors)),
		zap.Int("existing_zones", len(existing)))

	// Отбираем только новые записи до цикла записи
	queued := make(map[uuid.UUID]struct{})
	var fresh []*domain.Zone
	for _, f := range set.Features {
		zone, rule := index.Lookup(f.Record)
		if zone != nil {
			if _, ok := queued[zone.ID]; ok {
				// повтор внутри файла
				report.Skipped++
				continue
			}
			uc.logger.Debug("Zone already exists",
				zap.String("external_id", f.Record.ExternalID),
				zap.String("rule", rule.String()))
			healer.applyExisting(ctx, zone, report)
			continue
		}

		z := newZoneFromBoundary(f.Record, f.Centroid, country, kind)
		index.Add(z)
		queued[z.ID] = struct{}{}
		fresh = append(fresh, z)
	}
	report.Candidates = len(fresh)

	if len(fresh) == 0 {
		uc.logger.Info("Nothing to insert", zap.String("run_id", report.RunID))
	} else {
		res := RunBatches(ctx, fresh, uc.settings.batchSize(req.Batch), uc.zoneRepo.InsertBatch,
			func(ctx context.Context, batch []*domain.Zone) {
				uc.events.Publish(ctx, report.RunID, report.Kind, batch)
			},
			progress, uc.logger)
		report.Inserted = res.Inserted
		report.Errors += res.Failed
	}

	uc.reports.Save(ctx, report)
	uc.logger.Info("Import finished",
		zap.String("run_id", report.RunID),
		zap.Int("inserted", report.Inserted),
		zap.Int("status_updated", report.StatusUpdated),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", report.Errors),
		zap.Duration("took", report.Duration()))
	return report, nil
}
