package testhelpers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// InsertLegacyZone вставляет зону в обход репозитория, как это делали ручные
// правки в консоли: status может быть NULL или пустой строкой
func InsertLegacyZone(ctx context.Context, db *sql.DB, address string, status *string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.ExecContext(ctx,
		"INSERT INTO geoplaces (id, address, country_code, status) VALUES ($1, $2, 'AR', $3)",
		id, address, status)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert legacy zone %q: %w", address, err)
	}
	return id, nil
}

// GetZoneIDByAddress возвращает ID зоны по точному адресу
func GetZoneIDByAddress(ctx context.Context, db *sql.DB, address string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRowContext(ctx,
		"SELECT id FROM geoplaces WHERE address = $1", address).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get zone ID by address %q: %w", address, err)
	}
	return id, nil
}
