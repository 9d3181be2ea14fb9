package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/pkg/utils"
	"github.com/mappertrip/geosync/internal/usecase"
)

// ReportHandler отдаёт отчёты последних запусков пайплайна
type ReportHandler struct {
	reportUC *usecase.RunReportUseCase
	logger   *zap.Logger
}

// NewReportHandler создает новый экземпляр ReportHandler
func NewReportHandler(reportUC *usecase.RunReportUseCase, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportUC: reportUC,
		logger:   logger,
	}
}

// LastRun godoc
// @Summary Last run report
// @Description Счётчики последнего запуска вида import, load-raw или sync (из Redis)
// @Tags Sync
// @Produce json
// @Param kind path string true "Вид запуска" Enums(import, load-raw, sync)
// @Success 200 {object} utils.SuccessResponse{data=domain.RunReport}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/sync/runs/{kind} [get]
func (h *ReportHandler) LastRun(c *fiber.Ctx) error {
	kind := c.Params("kind")

	h.logger.Debug("Handling last run request", zap.String("kind", kind))

	report, err := h.reportUC.Last(c.Context(), kind)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, report, nil)
}
