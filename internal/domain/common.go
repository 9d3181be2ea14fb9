package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Point представляет координаты точки (порядок GeoJSON: lng, lat)
type Point struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Ring - внешний контур полигона: упорядоченный список пар [lng, lat]
type Ring [][2]float64

// Len возвращает количество вершин контура
func (r Ring) Len() int {
	return len(r)
}

// Value сериализует контур в jsonb
func (r Ring) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	data, err := json.Marshal([][2]float64(r))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan читает контур из jsonb колонки
func (r *Ring) Scan(src interface{}) error {
	if src == nil {
		*r = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported ring source type %T", src)
	}

	var coords [][2]float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("unmarshal ring: %w", err)
	}
	*r = coords
	return nil
}

// NameField - колонка иерархического названия, по которой разрешено фильтровать geo_json
type NameField string

const (
	NameFieldPrimary   NameField = "name1"
	NameFieldSecondary NameField = "name2"
	NameFieldRegion    NameField = "name3"
	NameFieldRegionTag NameField = "region_tag"
)

var ErrUnknownNameField = errors.New("unknown name field")

// ParseNameField проверяет имя колонки по белому списку
func ParseNameField(s string) (NameField, error) {
	switch f := NameField(s); f {
	case NameFieldPrimary, NameFieldSecondary, NameFieldRegion, NameFieldRegionTag:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNameField, s)
}

// Column возвращает имя колонки в таблице geo_json
func (f NameField) Column() string {
	return string(f)
}
