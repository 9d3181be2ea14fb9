package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/errors"
)

const zoneColumns = `id, address, external_ref, lat, lng, polygon, country_code, status, kind, created_at, updated_at`

type zoneRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewZoneRepository создает новый экземпляр ZoneRepository
func NewZoneRepository(db *DB) repository.ZoneRepository {
	return &zoneRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Ping проверяет, что таблица geoplaces доступна на чтение
func (r *zoneRepository) Ping(ctx context.Context) error {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM (SELECT 1 FROM geoplaces LIMIT 1) t`); err != nil {
		return fmt.Errorf("geoplaces is not readable: %w", err)
	}
	return nil
}

// ListAll возвращает все зоны
func (r *zoneRepository) ListAll(ctx context.Context) ([]*domain.Zone, error) {
	query := fmt.Sprintf(`SELECT %s FROM geoplaces ORDER BY created_at, id`, zoneColumns)

	var zones []*domain.Zone
	if err := r.db.SelectContext(ctx, &zones, query); err != nil {
		r.logger.Error("Failed to list zones", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return zones, nil
}

// List возвращает страницу зон по фильтру и общее количество
func (r *zoneRepository) List(ctx context.Context, filter domain.ZoneFilter) ([]*domain.Zone, int, error) {
	filter.Limit = clampLimit(filter.Limit)

	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CountryCode != "" {
		args = append(args, filter.CountryCode)
		conds = append(conds, fmt.Sprintf("country_code = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM geoplaces %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		r.logger.Error("Failed to count zones", zap.Error(err))
		return nil, 0, errors.ErrDatabaseError
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM geoplaces
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, zoneColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	zones := make([]*domain.Zone, 0)
	if err := r.db.SelectContext(ctx, &zones, query, args...); err != nil {
		r.logger.Error("Failed to list zones page", zap.Error(err))
		return nil, 0, errors.ErrDatabaseError
	}

	return zones, total, nil
}

// GetByID возвращает зону по ID
func (r *zoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Zone, error) {
	query := fmt.Sprintf(`SELECT %s FROM geoplaces WHERE id = $1`, zoneColumns)

	var zone domain.Zone
	err := r.db.GetContext(ctx, &zone, query, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrZoneNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get zone by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return &zone, nil
}

// InsertBatch вставляет батч в одной транзакции: либо все записи, либо ни одной
func (r *zoneRepository) InsertBatch(ctx context.Context, zones []*domain.Zone) error {
	if len(zones) == 0 {
		return nil
	}

	query := `
		INSERT INTO geoplaces (id, address, external_ref, lat, lng, polygon, country_code, status, kind)
		VALUES (:id, :address, :external_ref, :lat, :lng, :polygon, :country_code, :status, :kind)
	`

	for _, z := range zones {
		if z.ID == uuid.Nil {
			z.ID = uuid.New()
		}
	}

	// одна многострочная вставка на батч
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, query, zones)
		return err
	})
	if isUniqueViolation(err) {
		r.logger.Warn("Zone batch rejected: duplicate id",
			zap.Int("size", len(zones)),
			zap.Error(err))
		return errors.ErrDuplicateZone
	}
	if err != nil {
		r.logger.Error("Failed to insert zone batch",
			zap.Int("size", len(zones)),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

// GetStatus возвращает статус зоны; nil если статус не задан
func (r *zoneRepository) GetStatus(ctx context.Context, id uuid.UUID) (*string, error) {
	var status sql.NullString
	err := r.db.GetContext(ctx, &status, `SELECT status FROM geoplaces WHERE id = $1`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrZoneNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get zone status", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if !status.Valid {
		return nil, nil
	}
	return &status.String, nil
}

// UpdateStatus записывает статус зоны
func (r *zoneRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE geoplaces SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		r.logger.Error("Failed to update zone status", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return expectOneRow(res)
}

// Link записывает external_ref и контур; точка и статус меняются только если заданы
func (r *zoneRepository) Link(ctx context.Context, id uuid.UUID, link domain.ZoneLink) error {
	var lat, lng *float64
	if link.Point != nil {
		lat, lng = &link.Point.Lat, &link.Point.Lng
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE geoplaces
		SET external_ref = $1,
			polygon = $2,
			lat = COALESCE($3, lat),
			lng = COALESCE($4, lng),
			status = COALESCE($5, status),
			updated_at = NOW()
		WHERE id = $6
	`, link.ExternalRef, link.Boundary, lat, lng, link.Status, id)
	if err != nil {
		r.logger.Error("Failed to link zone",
			zap.String("id", id.String()),
			zap.String("external_ref", link.ExternalRef),
			zap.Error(err))
		return errors.ErrDatabaseError
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseError
	}
	if n == 0 {
		return errors.ErrZoneNotFound
	}
	return nil
}
