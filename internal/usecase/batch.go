package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
)

// DefaultBatchSize - записей в одной массовой вставке
const DefaultBatchSize = 100

// ProgressFunc получает прогресс после каждого батча
type ProgressFunc func(domain.BatchProgress)

// BatchResult - итог записи батчами
type BatchResult struct {
	Inserted int
	Failed   int
	Batches  int
}

// RunBatches пишет items последовательно батчами по size, одна вставка на батч.
// Упавший батч целиком идёт в Failed, запуск продолжается со следующего.
// onInserted вызывается после каждого успешного батча (может быть nil).
func RunBatches[T any](
	ctx context.Context,
	items []T,
	size int,
	insert func(context.Context, []T) error,
	onInserted func(context.Context, []T),
	progress ProgressFunc,
	logger *zap.Logger,
) BatchResult {
	if size <= 0 {
		size = DefaultBatchSize
	}

	var res BatchResult
	total := len(items)
	batches := (total + size - 1) / size

	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		batch := items[start:end]
		res.Batches++

		if err := ctx.Err(); err != nil {
			// прерванный запуск: оставшиеся записи не записаны
			res.Failed += total - start
			logger.Warn("Batch run interrupted",
				zap.Int("batch", res.Batches),
				zap.Int("not_written", total-start),
				zap.Error(err))
			break
		}

		if err := insert(ctx, batch); err != nil {
			res.Failed += len(batch)
			logger.Error("Batch insert failed",
				zap.Int("batch", res.Batches),
				zap.Int("from", start+1),
				zap.Int("to", end),
				zap.Error(err))
		} else {
			res.Inserted += len(batch)
			if onInserted != nil {
				onInserted(ctx, batch)
			}
		}

		p := domain.BatchProgress{
			Batch:     res.Batches,
			Batches:   batches,
			Processed: end,
			Total:     total,
			Inserted:  res.Inserted,
			Failed:    res.Failed,
		}
		logger.Info("Batch processed",
			zap.Int("batch", p.Batch),
			zap.Int("batches", p.Batches),
			zap.Int("processed", p.Processed),
			zap.Int("total", p.Total),
			zap.Float64("percent", p.Percent()))
		if progress != nil {
			progress(p)
		}
	}

	return res
}
