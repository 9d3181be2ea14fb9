package usecase

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/errors"
	"github.com/mappertrip/geosync/internal/pkg/validator"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

// ZoneUseCase - операции API зон
type ZoneUseCase struct {
	zoneRepo repository.ZoneRepository
	logger   *zap.Logger
}

func NewZoneUseCase(zoneRepo repository.ZoneRepository, logger *zap.Logger) *ZoneUseCase {
	return &ZoneUseCase{zoneRepo: zoneRepo, logger: logger}
}

// Ping проверяет хранилище зон
func (uc *ZoneUseCase) Ping(ctx context.Context) error {
	return uc.zoneRepo.Ping(ctx)
}

// List возвращает страницу зон и применённый фильтр
func (uc *ZoneUseCase) List(ctx context.Context, q dto.ZoneListQuery) ([]*domain.Zone, int, domain.ZoneFilter, error) {
	if err := validator.Validate(&q); err != nil {
		return nil, 0, domain.ZoneFilter{}, invalidRequest(err)
	}

	filter := q.ToFilter()
	zones, total, err := uc.zoneRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list zones", zap.Error(err))
		return nil, 0, filter, err
	}
	return zones, total, filter, nil
}

func (uc *ZoneUseCase) Get(ctx context.Context, rawID string) (*domain.Zone, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.ErrInvalidZoneID
	}
	return uc.zoneRepo.GetByID(ctx, id)
}

// Create вставляет все зоны запроса одной операцией
func (uc *ZoneUseCase) Create(ctx context.Context, req dto.CreateZonesRequest) ([]*domain.Zone, error) {
	if err := validator.Validate(&req); err != nil {
		return nil, invalidRequest(err)
	}

	zones := make([]*domain.Zone, 0, len(req.Zones))
	for _, in := range req.Zones {
		zones = append(zones, in.ToZone())
	}

	if err := uc.zoneRepo.InsertBatch(ctx, zones); err != nil {
		uc.logger.Error("Failed to create zones", zap.Int("count", len(zones)), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Zones created", zap.Int("count", len(zones)))
	return zones, nil
}

// Patch: с external_ref - связывание с границей, иначе смена статуса
func (uc *ZoneUseCase) Patch(ctx context.Context, rawID string, req dto.UpdateZoneRequest) (*domain.Zone, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.ErrInvalidZoneID
	}
	if err := validator.Validate(&req); err != nil {
		return nil, invalidRequest(err)
	}

	switch {
	case req.ExternalRef != nil:
		link := domain.ZoneLink{
			ExternalRef: *req.ExternalRef,
			Boundary:    req.Polygon,
			Status:      req.Status,
		}
		if req.Lat != nil && req.Lng != nil {
			link.Point = &domain.Point{Lat: *req.Lat, Lng: *req.Lng}
		}
		err = uc.zoneRepo.Link(ctx, id, link)
	case req.Status != nil:
		err = uc.zoneRepo.UpdateStatus(ctx, id, *req.Status)
	default:
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "status or external_ref is required",
		})
	}
	if err != nil {
		if !stderrors.Is(err, errors.ErrZoneNotFound) {
			uc.logger.Error("Failed to update zone", zap.String("id", rawID), zap.Error(err))
		}
		return nil, err
	}

	return uc.zoneRepo.GetByID(ctx, id)
}

func invalidRequest(err error) error {
	return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
		"reason": validator.Describe(err),
	})
}
