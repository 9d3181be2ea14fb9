package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mappertrip/geosync/internal/domain"
)

// ZoneRepository определяет методы для работы с зонами безопасности (таблица geoplaces)
type ZoneRepository interface {
	// Ping выполняет лёгкое чтение для проверки доступности хранилища
	Ping(ctx context.Context) error

	// ListAll возвращает все зоны (один раз за запуск)
	ListAll(ctx context.Context) ([]*domain.Zone, error)

	// List возвращает страницу зон и общее количество по фильтру
	List(ctx context.Context, filter domain.ZoneFilter) ([]*domain.Zone, int, error)

	// GetByID возвращает зону по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Zone, error)

	// InsertBatch вставляет батч зон одной операцией
	InsertBatch(ctx context.Context, zones []*domain.Zone) error

	// GetStatus возвращает текущий статус зоны (nil - статус не задан)
	GetStatus(ctx context.Context, id uuid.UUID) (*string, error)

	// UpdateStatus записывает статус зоны
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Link связывает зону с сырой границей
	Link(ctx context.Context, id uuid.UUID, link domain.ZoneLink) error
}
