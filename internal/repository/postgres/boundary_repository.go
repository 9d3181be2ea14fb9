package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/errors"
)

const boundaryColumns = `id, external_id, name1, name2, name3, region_tag, polygon`

type boundaryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewBoundaryRepository создает новый экземпляр BoundaryRepository
func NewBoundaryRepository(db *DB) repository.BoundaryRepository {
	return &boundaryRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Ping проверяет, что таблица geo_json доступна на чтение
func (r *boundaryRepository) Ping(ctx context.Context) error {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM (SELECT 1 FROM geo_json LIMIT 1) t`); err != nil {
		return fmt.Errorf("geo_json is not readable: %w", err)
	}
	return nil
}

// ListByField возвращает границы с точным совпадением колонки field
func (r *boundaryRepository) ListByField(ctx context.Context, field domain.NameField, value string) ([]*domain.BoundaryRecord, error) {
	// имя колонки приходит только из белого списка domain.ParseNameField
	if _, err := domain.ParseNameField(string(field)); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM geo_json
		WHERE %s = $1
		ORDER BY id
	`, boundaryColumns, field.Column())

	var records []*domain.BoundaryRecord
	if err := r.db.SelectContext(ctx, &records, query, value); err != nil {
		r.logger.Error("Failed to list boundaries",
			zap.String("field", field.Column()),
			zap.String("value", value),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return records, nil
}

// ExternalIDs возвращает множество external_id, уже загруженных в geo_json
func (r *boundaryRepository) ExternalIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT external_id FROM geo_json`); err != nil {
		r.logger.Error("Failed to list boundary external ids", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// InsertBatch вставляет батч в одной транзакции: либо все записи, либо ни одной
func (r *boundaryRepository) InsertBatch(ctx context.Context, records []*domain.BoundaryRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO geo_json (external_id, name1, name2, name3, region_tag, polygon)
		VALUES (:external_id, :name1, :name2, :name3, :region_tag, :polygon)
	`

	// одна многострочная вставка на батч
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, records)
		return err
	})
	if err != nil {
		r.logger.Error("Failed to insert boundary batch",
			zap.Int("size", len(records)),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}
