package repository

import "github.com/mappertrip/geosync/internal/domain"

// FeatureSource читает исходный файл с границами
type FeatureSource interface {
	ReadFile(path string) (*domain.FeatureSet, error)
}
