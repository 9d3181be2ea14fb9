package domain

import (
	"strconv"
	"strings"
)

// BoundaryRecord - сырая административная граница (таблица geo_json или GeoJSON файл).
// Пайплайн её никогда не изменяет.
type BoundaryRecord struct {
	ID         int64  `json:"id,omitempty" db:"id"`
	ExternalID string `json:"external_id" db:"external_id"`
	Name1      string `json:"name1" db:"name1"` // департамент / партидо
	Name2      string `json:"name2" db:"name2"` // локалидад / баррио
	Name3      string `json:"name3" db:"name3"` // провинция / регион
	RegionTag  string `json:"region_tag" db:"region_tag"`
	Boundary   Ring   `json:"polygon" db:"polygon"`
}

// AddressKey возвращает адрес в виде "{name2}, {name3}" для сравнения с Zone.Address
func (b *BoundaryRecord) AddressKey() string {
	return strings.TrimSpace(b.Name2) + ", " + strings.TrimSpace(b.Name3)
}

// FeatureError - ошибка разбора одного объекта из GeoJSON файла
type FeatureError struct {
	Index      int
	ExternalID string
	Reason     string
}

func (e FeatureError) Error() string {
	if e.ExternalID != "" {
		return "feature " + e.ExternalID + ": " + e.Reason
	}
	return "feature #" + strconv.Itoa(e.Index) + ": " + e.Reason
}

// ParsedFeature - объект исходного файла, пригодный для импорта
type ParsedFeature struct {
	Record   *BoundaryRecord
	Centroid *Point
}

// FeatureSet - содержимое исходного файла. Total - все объекты,
// включая попавшие в Errors.
type FeatureSet struct {
	Total    int
	Features []ParsedFeature
	Errors   []FeatureError
}
