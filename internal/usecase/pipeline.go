package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/textnorm"
	"github.com/mappertrip/geosync/internal/pkg/validator"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

// Settings - значения по умолчанию для запусков (из SYNC_* конфигурации)
type Settings struct {
	BatchSize   int
	CountryCode string
	ZoneKind    string
}

func (s Settings) batchSize(override int) int {
	if override > 0 {
		return override
	}
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return DefaultBatchSize
}

func (s Settings) countryCode(override string) string {
	if override != "" {
		return strings.ToUpper(override)
	}
	return s.CountryCode
}

// checkStoreBatch проверяет итоговый размер батча (с учётом SYNC_BATCH_SIZE) против лимита API
func (s Settings) checkStoreBatch(store string, override int) error {
	if err := dto.CheckStoreBatch(store, s.batchSize(override)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func (s Settings) zoneKind() string {
	if s.ZoneKind != "" {
		return s.ZoneKind
	}
	return domain.ZoneKindImported
}

// validateParams - ошибка параметров запуска всегда оборачивает ErrInvalidParams
func validateParams(req interface{}) error {
	if err := validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParams, validator.Describe(err))
	}
	return nil
}

// probe - одно лёгкое чтение перед любой работой; без повторов
func probe(ctx context.Context, name string, p interface{ Ping(context.Context) error }) error {
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, name, err)
	}
	return nil
}

// newZoneFromBoundary собирает новую зону из сырой границы
func newZoneFromBoundary(b *domain.BoundaryRecord, centroid *domain.Point, country, kind string) *domain.Zone {
	z := &domain.Zone{
		ID:          uuid.New(),
		Address:     displayAddress(b),
		ExternalRef: domain.StringPtr(b.ExternalID),
		Boundary:    b.Boundary,
		CountryCode: country,
		Status:      domain.StringPtr(domain.ZoneStatusPending),
		Kind:        kind,
	}
	if centroid != nil {
		z.Lat = domain.Float64Ptr(centroid.Lat)
		z.Lng = domain.Float64Ptr(centroid.Lng)
	}
	return z
}

// displayAddress - "{Name2}, {Name3}" в виде для пользователя
func displayAddress(b *domain.BoundaryRecord) string {
	return textnorm.Display(b.Name2) + ", " + textnorm.Display(b.Name3)
}

// statusHealer доводит статус существующих зон до PENDING: чтение, затем запись
type statusHealer struct {
	zones  repository.ZoneRepository
	logger *zap.Logger
}

// heal возвращает true, если статус был пустым и записан PENDING
func (h statusHealer) heal(ctx context.Context, id uuid.UUID) (bool, error) {
	status, err := h.zones.GetStatus(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get status: %w", err)
	}
	if status != nil && strings.TrimSpace(*status) != "" {
		return false, nil
	}

	if err := h.zones.UpdateStatus(ctx, id, domain.ZoneStatusPending); err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	h.logger.Debug("Zone status initialized", zap.String("zone_id", id.String()))
	return true, nil
}

// applyExisting - политика для уже существующей зоны: лечение статуса или пропуск
func (h statusHealer) applyExisting(ctx context.Context, zone *domain.Zone, report *domain.RunReport) {
	healed, err := h.heal(ctx, zone.ID)
	switch {
	case err != nil:
		report.Errors++
		h.logger.Error("Failed to heal zone status",
			zap.String("zone_id", zone.ID.String()),
			zap.String("address", zone.Address),
			zap.Error(err))
	case healed:
		report.StatusUpdated++
	default:
		report.Skipped++
	}
}

// EventPublisher отправляет события о зонах в стрим; nil stream - выключено
type EventPublisher struct {
	stream repository.StreamRepository
	logger *zap.Logger
}

func NewEventPublisher(stream repository.StreamRepository, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{stream: stream, logger: logger}
}

// Publish не прерывает запуск: сбой публикации только логируется
func (p *EventPublisher) Publish(ctx context.Context, runID, kind string, zones []*domain.Zone) {
	if p == nil || p.stream == nil {
		return
	}
	for _, z := range zones {
		ev := domain.NewZoneImportedEvent(runID, kind, z)
		if err := p.stream.PublishToStream(ctx, domain.StreamZonesImported, ev); err != nil {
			p.logger.Warn("Failed to publish zone event",
				zap.String("zone_id", z.ID.String()),
				zap.Error(err))
		}
	}
}

func newReport(kind, source string, dryRun bool) *domain.RunReport {
	return &domain.RunReport{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Source:    source,
		DryRun:    dryRun,
		StartedAt: nowFunc(),
	}
}
