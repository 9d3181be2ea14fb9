package geometry

import (
	"github.com/tidwall/gjson"

	"github.com/mappertrip/geosync/internal/domain"
)

// Centroid считает точку по сырому JSON полигона. Принимает либо голый контур
// [[lng,lat],...], либо обёртку геометрии {"coordinates": ...}; у Polygon берётся
// первый контур, у MultiPolygon первый контур первого полигона.
// Некорректные вершины пропускаются.
//
// Это среднее арифметическое вершин, а не центр масс: для вогнутых границ точка
// может оказаться снаружи. Используется только как маркер на карте.
func Centroid(raw []byte) (domain.Point, bool) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return domain.Point{}, false
	}

	ring := ringOf(gjson.ParseBytes(raw))
	if !ring.IsArray() {
		return domain.Point{}, false
	}

	var sumLng, sumLat float64
	var n int
	ring.ForEach(func(_, vertex gjson.Result) bool {
		lng, lat, ok := pair(vertex)
		if ok {
			sumLng += lng
			sumLat += lat
			n++
		}
		return true
	})

	if n == 0 {
		return domain.Point{}, false
	}
	return domain.Point{Lng: sumLng / float64(n), Lat: sumLat / float64(n)}, true
}

// RingCentroid - то же среднее для уже разобранного контура
func RingCentroid(r domain.Ring) (domain.Point, bool) {
	if len(r) == 0 {
		return domain.Point{}, false
	}

	var sumLng, sumLat float64
	for _, p := range r {
		sumLng += p[0]
		sumLat += p[1]
	}
	n := float64(len(r))
	return domain.Point{Lng: sumLng / n, Lat: sumLat / n}, true
}

func ringOf(res gjson.Result) gjson.Result {
	if res.IsObject() {
		res = res.Get("coordinates")
	}

	// Polygon / MultiPolygon: спускаемся по первым элементам до списка вершин
	for depth := 0; depth < 2 && res.IsArray(); depth++ {
		first := res.Get("0")
		if !first.IsArray() || !first.Get("0").IsArray() {
			break
		}
		res = first
	}
	return res
}

func pair(v gjson.Result) (lng, lat float64, ok bool) {
	if !v.IsArray() {
		return 0, 0, false
	}
	coords := v.Array()
	if len(coords) < 2 || coords[0].Type != gjson.Number || coords[1].Type != gjson.Number {
		return 0, 0, false
	}
	return coords[0].Float(), coords[1].Float(), true
}
