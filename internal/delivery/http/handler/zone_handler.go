package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/pkg/errors"
	"github.com/mappertrip/geosync/internal/pkg/utils"
	"github.com/mappertrip/geosync/internal/usecase"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

// ZoneHandler - обработчик запросов к зонам безопасности
type ZoneHandler struct {
	zoneUC *usecase.ZoneUseCase
	logger *zap.Logger
}

// NewZoneHandler - создание нового ZoneHandler
func NewZoneHandler(zoneUC *usecase.ZoneUseCase, logger *zap.Logger) *ZoneHandler {
	return &ZoneHandler{
		zoneUC: zoneUC,
		logger: logger,
	}
}

// List godoc
// @Summary List zones
// @Description Страница зон, новые первыми. Фильтры по статусу и стране.
// @Tags Zones
// @Produce json
// @Param status query string false "Статус зоны (PENDING, VALIDATED)"
// @Param country_code query string false "ISO код страны"
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(50)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Zone}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/zones [get]
func (h *ZoneHandler) List(c *fiber.Ctx) error {
	var q dto.ZoneListQuery
	if err := c.QueryParser(&q); err != nil {
		return utils.SendError(c, errors.ErrInvalidPagination)
	}

	zones, total, filter, err := h.zoneUC.List(c.Context(), q)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, zones, &utils.Meta{
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Create godoc
// @Summary Create zones
// @Description Массовое создание зон одной вставкой. Повтор ID отклоняет весь запрос.
// @Tags Zones
// @Accept json
// @Produce json
// @Param request body dto.CreateZonesRequest true "Зоны"
// @Success 201 {object} utils.SuccessResponse{data=dto.CreateZonesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/zones [post]
func (h *ZoneHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateZonesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "invalid request body",
		}))
	}

	zones, err := h.zoneUC.Create(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, dto.CreateZonesResponse{Zones: zones})
}

// Get godoc
// @Summary Get zone
// @Tags Zones
// @Produce json
// @Param id path string true "ID зоны (uuid)"
// @Success 200 {object} utils.SuccessResponse{data=domain.Zone}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/zones/{id} [get]
func (h *ZoneHandler) Get(c *fiber.Ctx) error {
	zone, err := h.zoneUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, zone, nil)
}

// Patch godoc
// @Summary Update zone
// @Description С external_ref - связывание с сырой границей (контур, точка, статус), иначе смена статуса.
// @Tags Zones
// @Accept json
// @Produce json
// @Param id path string true "ID зоны (uuid)"
// @Param request body dto.UpdateZoneRequest true "Изменения"
// @Success 200 {object} utils.SuccessResponse{data=domain.Zone}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/zones/{id} [patch]
func (h *ZoneHandler) Patch(c *fiber.Ctx) error {
	var req dto.UpdateZoneRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "invalid request body",
		}))
	}

	zone, err := h.zoneUC.Patch(c.Context(), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, zone, nil)
}
