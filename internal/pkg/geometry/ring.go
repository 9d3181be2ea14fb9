// Package geometry извлекает внешний контур из GeoJSON геометрий и считает
// приблизительную точку-представителя для маркера на карте.
package geometry

import (
	"github.com/paulmach/orb"

	"github.com/mappertrip/geosync/internal/domain"
)

// OuterRing возвращает внешний контур геометрии.
//
// Polygon - первый контур. MultiPolygon - первый контур первого полигона,
// дырки и остальные части отбрасываются (упрощение, так и задумано).
// Для остальных типов возвращает false: запись пропускается и считается ошибкой.
func OuterRing(g orb.Geometry) (domain.Ring, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return nil, false
		}
		return toRing(v[0])
	case orb.MultiPolygon:
		if len(v) == 0 || len(v[0]) == 0 {
			return nil, false
		}
		return toRing(v[0][0])
	default:
		return nil, false
	}
}

func toRing(r orb.Ring) (domain.Ring, bool) {
	if len(r) == 0 {
		return nil, false
	}
	ring := make(domain.Ring, len(r))
	for i, p := range r {
		ring[i] = [2]float64(p)
	}
	return ring, true
}
