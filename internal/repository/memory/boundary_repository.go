package memory

import (
	"context"
	"sync"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/errors"
)

// BoundaryRepository - сырые границы в памяти; при заданном source чтения
// объединяют source и локальные записи, а вставки остаются локальными
type BoundaryRepository struct {
	mu      sync.RWMutex
	source  repository.BoundaryRepository
	records []*domain.BoundaryRecord
	ids     map[string]struct{}
}

var _ repository.BoundaryRepository = (*BoundaryRepository)(nil)

// NewBoundaryRepository создает хранилище с начальным набором границ
func NewBoundaryRepository(seed ...*domain.BoundaryRecord) *BoundaryRepository {
	r := &BoundaryRepository{ids: make(map[string]struct{}, len(seed))}
	for _, rec := range seed {
		r.append(rec)
	}
	return r
}

// Overlay оборачивает source для dry_run
func Overlay(source repository.BoundaryRepository) *BoundaryRepository {
	r := NewBoundaryRepository()
	r.source = source
	return r
}

func (r *BoundaryRepository) append(rec *domain.BoundaryRecord) {
	cp := *rec
	cp.Boundary = cloneRing(rec.Boundary)
	r.records = append(r.records, &cp)
	r.ids[rec.ExternalID] = struct{}{}
}

func (r *BoundaryRepository) Ping(ctx context.Context) error {
	if r.source != nil {
		return r.source.Ping(ctx)
	}
	return ctx.Err()
}

func (r *BoundaryRepository) ListByField(ctx context.Context, field domain.NameField, value string) ([]*domain.BoundaryRecord, error) {
	if _, err := domain.ParseNameField(string(field)); err != nil {
		return nil, err
	}

	var out []*domain.BoundaryRecord
	if r.source != nil {
		fromSource, err := r.source.ListByField(ctx, field, value)
		if err != nil {
			return nil, err
		}
		out = append(out, fromSource...)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if fieldValue(rec, field) == value {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BoundaryRepository) ExternalIDs(ctx context.Context) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	if r.source != nil {
		fromSource, err := r.source.ExternalIDs(ctx)
		if err != nil {
			return nil, err
		}
		for id := range fromSource {
			set[id] = struct{}{}
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for id := range r.ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// InsertBatch отклоняет батч целиком при повторе external_id, как уникальный индекс в postgres
func (r *BoundaryRepository) InsertBatch(ctx context.Context, records []*domain.BoundaryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := r.ids[rec.ExternalID]; ok {
			return errors.ErrDatabaseError
		}
		if _, ok := seen[rec.ExternalID]; ok {
			return errors.ErrDatabaseError
		}
		seen[rec.ExternalID] = struct{}{}
	}
	for _, rec := range records {
		r.append(rec)
	}
	return nil
}

func fieldValue(rec *domain.BoundaryRecord, field domain.NameField) string {
	switch field {
	case domain.NameFieldPrimary:
		return rec.Name1
	case domain.NameFieldSecondary:
		return rec.Name2
	case domain.NameFieldRegion:
		return rec.Name3
	case domain.NameFieldRegionTag:
		return rec.RegionTag
	}
	return ""
}
