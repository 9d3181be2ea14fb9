package repository

import (
	"context"

	"github.com/mappertrip/geosync/internal/domain"
)

// BoundaryRepository определяет методы для работы с сырыми границами (таблица geo_json)
type BoundaryRepository interface {
	// Ping выполняет лёгкое чтение для проверки доступности хранилища
	Ping(ctx context.Context) error

	// ListByField возвращает границы, у которых колонка field равна value
	ListByField(ctx context.Context, field domain.NameField, value string) ([]*domain.BoundaryRecord, error)

	// ExternalIDs возвращает множество уже загруженных external_id
	ExternalIDs(ctx context.Context) (map[string]struct{}, error)

	// InsertBatch вставляет батч границ одной операцией
	InsertBatch(ctx context.Context, records []*domain.BoundaryRecord) error
}
