// Package geojsonfile читает FeatureCollection с административными границами.
package geojsonfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/config"
	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/geometry"
)

var ErrNotFeatureCollection = errors.New("source is not a GeoJSON FeatureCollection")

var _ repository.FeatureSource = (*Reader)(nil)

type Reader struct {
	keys   config.FeatureProperties
	logger *zap.Logger
}

func NewReader(keys config.FeatureProperties, logger *zap.Logger) *Reader {
	return &Reader{keys: keys, logger: logger}
}

// ReadFile читает и разбирает файл целиком
func (r *Reader) ReadFile(path string) (*domain.FeatureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	col, err := r.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	r.logger.Info("GeoJSON file loaded",
		zap.String("path", path),
		zap.Int("features", col.Total),
		zap.Int("usable", len(col.Features)),
		zap.Int("geometry_errors", len(col.Errors)))
	return col, nil
}

// Parse разбирает FeatureCollection. Ошибка только если весь документ непригоден;
// проблемы отдельных объектов попадают в FeatureSet.Errors.
func (r *Reader) Parse(data []byte) (*domain.FeatureSet, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrNotFeatureCollection
	}
	doc := gjson.ParseBytes(data)
	features := doc.Get("features")
	if doc.Get("type").String() != "FeatureCollection" || !features.IsArray() {
		return nil, ErrNotFeatureCollection
	}

	col := &domain.FeatureSet{}
	features.ForEach(func(_, raw gjson.Result) bool {
		idx := col.Total
		col.Total++

		f, ferr := r.parseFeature(idx, raw)
		if ferr != nil {
			r.logger.Warn("Skipping feature", zap.Int("index", idx), zap.String("reason", ferr.Reason))
			col.Errors = append(col.Errors, *ferr)
			return true
		}
		col.Features = append(col.Features, f)
		return true
	})

	return col, nil
}

func (r *Reader) parseFeature(idx int, raw gjson.Result) (domain.ParsedFeature, *domain.FeatureError) {
	props := raw.Get("properties")

	rec := &domain.BoundaryRecord{
		ExternalID: property(props, r.keys.ID),
		Name1:      property(props, r.keys.Name1),
		Name2:      property(props, r.keys.Name2),
		Name3:      property(props, r.keys.Name3),
		RegionTag:  property(props, r.keys.RegionTag),
	}
	if rec.ExternalID == "" {
		// id верхнего уровня Feature, если в properties его нет
		rec.ExternalID = strings.TrimSpace(raw.Get("id").String())
	}

	fail := func(reason string) (domain.ParsedFeature, *domain.FeatureError) {
		return domain.ParsedFeature{}, &domain.FeatureError{Index: idx, ExternalID: rec.ExternalID, Reason: reason}
	}

	if rec.ExternalID == "" {
		return fail("missing id")
	}

	geomRaw := raw.Get("geometry")
	if !geomRaw.Exists() || geomRaw.Type == gjson.Null {
		return fail("missing geometry")
	}

	geom, err := geojson.UnmarshalGeometry([]byte(geomRaw.Raw))
	if err != nil {
		return fail("invalid geometry: " + err.Error())
	}

	ring, ok := geometry.OuterRing(geom.Coordinates)
	if !ok {
		return fail("no usable ring in " + geom.Type)
	}
	rec.Boundary = ring

	f := domain.ParsedFeature{Record: rec}
	if p, ok := geometry.Centroid([]byte(geomRaw.Raw)); ok {
		f.Centroid = &p
	}
	return f, nil
}

// property возвращает строковое значение свойства; числа приводятся к строке как в исходном JSON
func property(props gjson.Result, key string) string {
	if key == "" {
		return ""
	}
	v := props.Get(gjson.Escape(key))
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}
