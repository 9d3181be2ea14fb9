package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/errors"
)

// ZoneRepository - хранилище зон в памяти (тесты и dry_run)
type ZoneRepository struct {
	mu    sync.RWMutex
	zones map[uuid.UUID]*domain.Zone
	order []uuid.UUID
	now   func() time.Time
}

var _ repository.ZoneRepository = (*ZoneRepository)(nil)

// NewZoneRepository создает хранилище с начальным набором зон
func NewZoneRepository(seed ...*domain.Zone) *ZoneRepository {
	r := &ZoneRepository{
		zones: make(map[uuid.UUID]*domain.Zone, len(seed)),
		now:   time.Now,
	}
	for _, z := range seed {
		if z.ID == uuid.Nil {
			z.ID = uuid.New()
		}
		r.put(cloneZone(z))
	}
	return r
}

// Snapshot загружает все зоны из src в новое хранилище: записи dry_run не уходят в src
func Snapshot(ctx context.Context, src repository.ZoneRepository) (*ZoneRepository, error) {
	zones, err := src.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewZoneRepository(zones...), nil
}

func (r *ZoneRepository) put(z *domain.Zone) {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	if z.CreatedAt.IsZero() {
		z.CreatedAt = r.now()
	}
	if z.UpdatedAt.IsZero() {
		z.UpdatedAt = z.CreatedAt
	}
	if _, ok := r.zones[z.ID]; !ok {
		r.order = append(r.order, z.ID)
	}
	r.zones[z.ID] = z
}

func (r *ZoneRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *ZoneRepository) ListAll(ctx context.Context) ([]*domain.Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Zone, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneZone(r.zones[id]))
	}
	return out, nil
}

func (r *ZoneRepository) List(ctx context.Context, filter domain.ZoneFilter) ([]*domain.Zone, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Zone
	for _, id := range r.order {
		z := r.zones[id]
		if filter.Status != "" && (z.Status == nil || *z.Status != filter.Status) {
			continue
		}
		if filter.CountryCode != "" && z.CountryCode != filter.CountryCode {
			continue
		}
		matched = append(matched, z)
	}

	// как в postgres: новые первыми
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < total {
		end = start + filter.Limit
	}

	page := make([]*domain.Zone, 0, end-start)
	for _, z := range matched[start:end] {
		page = append(page, cloneZone(z))
	}
	return page, total, nil
}

func (r *ZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	z, ok := r.zones[id]
	if !ok {
		return nil, errors.ErrZoneNotFound
	}
	return cloneZone(z), nil
}

func (r *ZoneRepository) InsertBatch(ctx context.Context, zones []*domain.Zone) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, z := range zones {
		if z.ID == uuid.Nil {
			z.ID = uuid.New()
		}
		if _, exists := r.zones[z.ID]; exists {
			return errors.ErrDuplicateZone
		}
	}
	for _, z := range zones {
		r.put(cloneZone(z))
	}
	return nil
}

func (r *ZoneRepository) GetStatus(ctx context.Context, id uuid.UUID) (*string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	z, ok := r.zones[id]
	if !ok {
		return nil, errors.ErrZoneNotFound
	}
	if z.Status == nil {
		return nil, nil
	}
	return domain.StringPtr(*z.Status), nil
}

func (r *ZoneRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	z, ok := r.zones[id]
	if !ok {
		return errors.ErrZoneNotFound
	}
	z.Status = domain.StringPtr(status)
	z.UpdatedAt = r.now()
	return nil
}

func (r *ZoneRepository) Link(ctx context.Context, id uuid.UUID, link domain.ZoneLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	z, ok := r.zones[id]
	if !ok {
		return errors.ErrZoneNotFound
	}
	z.ExternalRef = domain.StringPtr(link.ExternalRef)
	z.Boundary = cloneRing(link.Boundary)
	if link.Point != nil {
		z.Lat = domain.Float64Ptr(link.Point.Lat)
		z.Lng = domain.Float64Ptr(link.Point.Lng)
	}
	if link.Status != nil {
		z.Status = domain.StringPtr(*link.Status)
	}
	z.UpdatedAt = r.now()
	return nil
}

func cloneZone(z *domain.Zone) *domain.Zone {
	cp := *z
	if z.ExternalRef != nil {
		cp.ExternalRef = domain.StringPtr(*z.ExternalRef)
	}
	if z.Status != nil {
		cp.Status = domain.StringPtr(*z.Status)
	}
	if z.Lat != nil {
		cp.Lat = domain.Float64Ptr(*z.Lat)
	}
	if z.Lng != nil {
		cp.Lng = domain.Float64Ptr(*z.Lng)
	}
	cp.Boundary = cloneRing(z.Boundary)
	return &cp
}

func cloneRing(r domain.Ring) domain.Ring {
	if r == nil {
		return nil
	}
	return append(domain.Ring(nil), r...)
}
