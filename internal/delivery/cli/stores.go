package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/config"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/infrastructure/mapperapi"
	"github.com/mappertrip/geosync/internal/repository/cache"
	"github.com/mappertrip/geosync/internal/repository/memory"
	"github.com/mappertrip/geosync/internal/repository/postgres"
	redisrepo "github.com/mappertrip/geosync/internal/repository/redis"
	"github.com/mappertrip/geosync/internal/usecase"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

// Need - какие хранилища нужны запуску
type Need struct {
	Zones      bool
	Boundaries bool
	Store      string
	DryRun     bool
}

// Stores - открытые хранилища одного запуска. Stream и Cache могут быть nil.
type Stores struct {
	Zones      repository.ZoneRepository
	Boundaries repository.BoundaryRepository
	Stream     repository.StreamRepository
	Cache      repository.CacheRepository

	closers []func() error
}

// Close закрывает соединения в обратном порядке
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// StoreOpener открывает хранилища под запуск
type StoreOpener func(ctx context.Context, need Need) (*Stores, error)

// DefaultOpener подключается к postgres, HTTP API зон и (опционально) Redis по конфигурации.
// При dry_run записи уходят в копию в памяти.
func DefaultOpener(cfg *config.Config, logger *zap.Logger) StoreOpener {
	return func(ctx context.Context, need Need) (*Stores, error) {
		s := &Stores{}

		var db *postgres.DB
		openDB := func() (*postgres.DB, error) {
			if db != nil {
				return db, nil
			}
			var err error
			if db, err = postgres.New(&cfg.Database, logger); err != nil {
				return nil, fmt.Errorf("%w: postgres: %v", usecase.ErrStoreUnavailable, err)
			}
			s.closers = append(s.closers, db.Close)
			return db, nil
		}

		if need.Zones {
			if need.Store == dto.StoreAPI {
				s.Zones = mapperapi.NewZoneClient(&cfg.MapperAPI, nil, logger)
			} else {
				conn, err := openDB()
				if err != nil {
					s.Close()
					return nil, err
				}
				s.Zones = postgres.NewZoneRepository(conn)
			}
		}
		if need.Boundaries {
			conn, err := openDB()
			if err != nil {
				s.Close()
				return nil, err
			}
			s.Boundaries = postgres.NewBoundaryRepository(conn)
		}

		if need.DryRun {
			if s.Zones != nil {
				snapshot, err := memory.Snapshot(ctx, s.Zones)
				if err != nil {
					s.Close()
					return nil, fmt.Errorf("%w: load zones for dry run: %v", usecase.ErrStoreUnavailable, err)
				}
				s.Zones = snapshot
			}
			if s.Boundaries != nil {
				s.Boundaries = memory.Overlay(s.Boundaries)
			}
			logger.Info("Dry run: writes stay in memory")
			return s, nil
		}

		if cfg.Redis.Enabled {
			rdb, err := cache.NewRedis(&cfg.Redis, logger)
			if err != nil {
				// Redis нужен только для событий и отчётов
				logger.Warn("Redis unavailable, events and run reports disabled", zap.Error(err))
				return s, nil
			}
			s.closers = append(s.closers, rdb.Close)
			s.Cache = cache.NewCacheRepository(rdb)
			if cfg.Sync.PublishEvents {
				s.Stream = redisrepo.NewStreamRepository(rdb.Client(), cfg.Redis.StreamMaxLen, logger)
			}
		}
		return s, nil
	}
}
