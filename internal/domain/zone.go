package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Статусы зоны. Переходы дальше PENDING выполняются вне пайплайна.
const (
	ZoneStatusPending   = "PENDING"
	ZoneStatusValidated = "VALIDATED"
)

// Происхождение записи зоны
const (
	ZoneKindImported = "imported-by-script"
	ZoneKindManual   = "manual"
)

// Zone - курируемая зона безопасности (таблица geoplaces)
type Zone struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Address     string    `json:"address" db:"address"`
	ExternalRef *string   `json:"external_ref,omitempty" db:"external_ref"`
	Lat         *float64  `json:"lat,omitempty" db:"lat"`
	Lng         *float64  `json:"lng,omitempty" db:"lng"`
	Boundary    Ring      `json:"polygon,omitempty" db:"polygon"`
	CountryCode string    `json:"country_code" db:"country_code"`
	Status      *string   `json:"status,omitempty" db:"status"`
	Kind        string    `json:"kind" db:"kind"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NeedsStatusInit - статус пустой или NULL (незавершённый прошлый импорт)
func (z *Zone) NeedsStatusInit() bool {
	return z.Status == nil || strings.TrimSpace(*z.Status) == ""
}

// HasPoint - у зоны уже есть собственная точка
func (z *Zone) HasPoint() bool {
	return z.Lat != nil && z.Lng != nil
}

// HasBoundary - у зоны уже есть контур
func (z *Zone) HasBoundary() bool {
	return z.Boundary.Len() > 0
}

// HasExternalRef - зона уже связана с сырой границей
func (z *Zone) HasExternalRef() bool {
	return z.ExternalRef != nil && *z.ExternalRef != ""
}

// ZoneLink - изменения, которые синхронизация записывает в уже существующую зону
type ZoneLink struct {
	ExternalRef string  `json:"external_ref"`
	Boundary    Ring    `json:"polygon,omitempty"`
	Point       *Point  `json:"point,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ZoneFilter - фильтр и пагинация для списка зон
type ZoneFilter struct {
	Status      string
	CountryCode string
	Page        int
	Limit       int
}

// Offset вычисляет смещение для страницы (страницы начинаются с 1)
func (f ZoneFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// StringPtr возвращает указатель на копию строки
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr возвращает указатель на копию числа
func Float64Ptr(f float64) *float64 {
	return &f
}
