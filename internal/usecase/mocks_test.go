package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mappertrip/geosync/internal/domain"
)

// MockZoneRepository is a mock of ZoneRepository
type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockZoneRepository) ListAll(ctx context.Context) ([]*domain.Zone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Zone), args.Error(1)
}

func (m *MockZoneRepository) List(ctx context.Context, filter domain.ZoneFilter) ([]*domain.Zone, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Zone), args.Int(1), args.Error(2)
}

func (m *MockZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Zone), args.Error(1)
}

func (m *MockZoneRepository) InsertBatch(ctx context.Context, zones []*domain.Zone) error {
	args := m.Called(ctx, zones)
	return args.Error(0)
}

func (m *MockZoneRepository) GetStatus(ctx context.Context, id uuid.UUID) (*string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockZoneRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockZoneRepository) Link(ctx context.Context, id uuid.UUID, link domain.ZoneLink) error {
	args := m.Called(ctx, id, link)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetRunReport(ctx context.Context, kind string) (*domain.RunReport, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunReport), args.Error(1)
}

func (m *MockCacheRepository) SetRunReport(ctx context.Context, report *domain.RunReport, ttl time.Duration) error {
	args := m.Called(ctx, report, ttl)
	return args.Error(0)
}

// stubSource отдаёт заранее собранный набор объектов
type stubSource struct {
	set *domain.FeatureSet
	err error
}

func (s *stubSource) ReadFile(string) (*domain.FeatureSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.set, nil
}

var square = domain.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}

func feature(id, name2, name3 string) domain.ParsedFeature {
	return domain.ParsedFeature{
		Record: &domain.BoundaryRecord{
			ExternalID: id,
			Name1:      "Comuna",
			Name2:      name2,
			Name3:      name3,
			Boundary:   square,
		},
		Centroid: &domain.Point{Lng: 1, Lat: 1},
	}
}

func featureSet(features ...domain.ParsedFeature) *domain.FeatureSet {
	return &domain.FeatureSet{Total: len(features), Features: features}
}

// manyFeatures строит n различных объектов
func manyFeatures(n int) *domain.FeatureSet {
	features := make([]domain.ParsedFeature, 0, n)
	for i := 0; i < n; i++ {
		features = append(features, feature(fmt.Sprintf("f-%03d", i), fmt.Sprintf("Barrio %d", i), "Buenos Aires"))
	}
	return featureSet(features...)
}
