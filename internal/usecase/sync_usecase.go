package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/geometry"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

// SyncUseCase сверяет сырые границы (geo_json) с зонами (geoplaces)
type SyncUseCase struct {
	boundaryRepo repository.BoundaryRepository
	zoneRepo     repository.ZoneRepository
	resolver     *MatchResolver
	events       *EventPublisher
	reports      *RunReportUseCase
	settings     Settings
	logger       *zap.Logger
}

func NewSyncUseCase(
	boundaryRepo repository.BoundaryRepository,
	zoneRepo repository.ZoneRepository,
	resolver *MatchResolver,
	events *EventPublisher,
	reports *RunReportUseCase,
	settings Settings,
	logger *zap.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		boundaryRepo: boundaryRepo,
		zoneRepo:     zoneRepo,
		resolver:     resolver,
		events:       events,
		reports:      reports,
		settings:     settings,
		logger:       logger,
	}
}

// Run выполняет синхронизацию в два прохода:
// связывание зон без external_ref, затем вставка оставшихся границ как новых зон.
// Processed = количество сырых границ; каждая попадает ровно в один из счётчиков
// Linked, StatusUpdated, Skipped, Inserted или Errors.
func (uc *SyncUseCase) Run(ctx context.Context, req dto.SyncRequest, progress ProgressFunc) (*domain.RunReport, error) {
	if err := validateParams(&req); err != nil {
		return nil, err
	}
	if err := uc.settings.checkStoreBatch(req.Store, req.Batch); err != nil {
		return nil, err
	}
	field, err := domain.ParseNameField(req.Field)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	if err := probe(ctx, "boundaries", uc.boundaryRepo); err != nil {
		return nil, err
	}
	if err := probe(ctx, "zones", uc.zoneRepo); err != nil {
		return nil, err
	}

	raw, err := uc.boundaryRepo.ListByField(ctx, field, req.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: load boundaries: %v", ErrStoreUnavailable, err)
	}
	zones, err := uc.zoneRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load zones: %v", ErrStoreUnavailable, err)
	}

	report := newReport(domain.RunKindSync, field.Column()+"="+req.Value, req.DryRun)
	report.Processed = len(raw)

	uc.logger.Info("Sync started",
		zap.String("run_id", report.RunID),
		zap.String("field", field.Column()),
		zap.String("value", req.Value),
		zap.Int("boundaries", len(raw)),
		zap.Int("zones", len(zones)))

	index := NewExistenceIndex(zones)
	consumed := uc.linkZones(ctx, zones, raw, index, report)

	healer := statusHealer{zones: uc.zoneRepo, logger: uc.logger}
	country := uc.settings.countryCode(req.Country)
	kind := uc.settings.zoneKind()

	queued := make(map[uuid.UUID]struct{})
	var fresh []*domain.Zone
	for _, b := range raw {
		if _, ok := consumed[b.ExternalID]; ok {
			continue
		}
		if zone, _ := index.Lookup(b); zone != nil {
			if _, ok := queued[zone.ID]; ok {
				report.Skipped++
				continue
			}
			healer.applyExisting(ctx, zone, report)
			continue
		}

		var centroid *domain.Point
		if p, ok := geometry.RingCentroid(b.Boundary); ok {
			centroid = &p
		}
		z := newZoneFromBoundary(b, centroid, country, kind)
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
	uc.logger.Info("Sync finished",
		zap.String("run_id", report.RunID),
		zap.Int("linked", report.Linked),
		zap.Int("unmatched", report.Unmatched),
		zap.Int("inserted", report.Inserted),
		zap.Int("status_updated", report.StatusUpdated),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", report.Errors),
		zap.Duration("took", report.Duration()))
	return report, nil
}

// linkZones связывает зоны без external_ref с границами. Возвращает external_id
// границ, которые уже учтены (связаны или упали при связывании).
func (uc *SyncUseCase) linkZones(
	ctx context.Context,
	zones []*domain.Zone,
	raw []*domain.BoundaryRecord,
	index *ExistenceIndex,
	report *domain.RunReport,
) map[string]struct{} {
	consumed := make(map[string]struct{})

	for _, zone := range zones {
		if zone.HasExternalRef() {
			continue
		}

		// граница, уже связанная с другой зоной, второй раз не выдаётся
		candidates := make([]*domain.BoundaryRecord, 0, len(raw))
		for _, b := range raw {
			if _, ok := consumed[b.ExternalID]; ok || index.Referenced(b.ExternalID) {
				continue
			}
			candidates = append(candidates, b)
		}

		match, tier := uc.resolver.Resolve(zone.Address, candidates)
		if match == nil {
			report.Unmatched++
			uc.logger.Debug("No boundary for zone", zap.String("address", zone.Address))
			continue
		}
		consumed[match.ExternalID] = struct{}{}

		link := domain.ZoneLink{ExternalRef: match.ExternalID, Boundary: match.Boundary}
		if !zone.HasPoint() {
			if p, ok := geometry.RingCentroid(match.Boundary); ok {
				link.Point = &p
			}
		}
		if zone.NeedsStatusInit() {
			link.Status = domain.StringPtr(domain.ZoneStatusPending)
		}

		if err := uc.zoneRepo.Link(ctx, zone.ID, link); err != nil {
			report.Errors++
			uc.logger.Error("Failed to link zone",
				zap.String("zone_id", zone.ID.String()),
				zap.String("external_id", match.ExternalID),
				zap.Error(err))
			continue
		}

		report.Linked++
		uc.logger.Info("Zone linked",
			zap.String("address", zone.Address),
			zap.String("external_id", match.ExternalID),
			zap.String("tier", tier.String()))

		zone.ExternalRef = domain.StringPtr(match.ExternalID)
		zone.Boundary = match.Boundary
		if link.Point != nil {
			zone.Lat, zone.Lng = domain.Float64Ptr(link.Point.Lat), domain.Float64Ptr(link.Point.Lng)
		}
		if link.Status != nil {
			zone.Status = link.Status
		}
		index.Add(zone)
		uc.events.Publish(ctx, report.RunID, report.Kind, []*domain.Zone{zone})
	}

	return consumed
}
