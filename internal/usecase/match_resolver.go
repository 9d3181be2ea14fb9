package usecase

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/pkg/textnorm"
)

//go:embed region_markers.yaml
var defaultRegionMarkers []byte

// MatchTier - ступень, на которой найдено совпадение
type MatchTier int

const (
	TierNone MatchTier = iota
	TierSecondaryName
	TierPrimaryName
	TierRegionPartial
	TierWholeWord
)

func (t MatchTier) String() string {
	switch t {
	case TierSecondaryName:
		return "secondary_name"
	case TierPrimaryName:
		return "primary_name"
	case TierRegionPartial:
		return "region_partial"
	case TierWholeWord:
		return "whole_word"
	default:
		return "none"
	}
}

// RegionMarker - region_tag и слова в адресе, которые на него указывают
type RegionMarker struct {
	Tag     string   `yaml:"tag"`
	Markers []string `yaml:"markers"`
}

type regionMarkersFile struct {
	Regions []RegionMarker `yaml:"regions"`
}

// LoadRegionMarkers читает таблицу маркеров из файла; пустой путь - встроенная таблица
func LoadRegionMarkers(path string) ([]RegionMarker, error) {
	data := defaultRegionMarkers
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read region markers: %w", err)
		}
	}

	var file regionMarkersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse region markers: %w", err)
	}
	for i, r := range file.Regions {
		if strings.TrimSpace(r.Tag) == "" || len(r.Markers) == 0 {
			return nil, fmt.Errorf("region markers: entry %d needs tag and markers", i)
		}
	}
	return file.Regions, nil
}

type regionRule struct {
	tag     string
	markers []string
}

// MatchResolver связывает зону с сырой границей по ступеням 1-4.
// Каждая следующая ступень пробуется только если предыдущая ничего не дала;
// внутри ступени побеждает первый кандидат в порядке входа.
type MatchResolver struct {
	regions []regionRule
}

func NewMatchResolver(markers []RegionMarker) *MatchResolver {
	r := &MatchResolver{}
	for _, m := range markers {
		rule := regionRule{tag: textnorm.Canonical(m.Tag)}
		for _, marker := range m.Markers {
			if c := textnorm.Canonical(marker); c != "" {
				rule.markers = append(rule.markers, c)
			}
		}
		r.regions = append(r.regions, rule)
	}
	return r
}

// DetectRegion возвращает нормализованный region_tag, на который указывает адрес
func (r *MatchResolver) DetectRegion(address string) (string, bool) {
	canonical := textnorm.Canonical(address)
	for _, rule := range r.regions {
		for _, marker := range rule.markers {
			if textnorm.ContainsWord(canonical, marker) {
				return rule.tag, true
			}
		}
	}
	return "", false
}

// Resolve ищет границу для адреса зоны. Целевое имя - текст до первой запятой.
func (r *MatchResolver) Resolve(address string, candidates []*domain.BoundaryRecord) (*domain.BoundaryRecord, MatchTier) {
	target := textnorm.LocationName(address)
	if target == "" || len(candidates) == 0 {
		return nil, TierNone
	}

	secondary := make([]string, len(candidates))
	for i, c := range candidates {
		secondary[i] = textnorm.Canonical(c.Name2)
	}

	// 1. точное совпадение со вторичным именем
	for i, c := range candidates {
		if secondary[i] == target {
			return c, TierSecondaryName
		}
	}

	// 2. точное совпадение с первичным именем
	for _, c := range candidates {
		if textnorm.Canonical(c.Name1) == target {
			return c, TierPrimaryName
		}
	}

	// 3. регион из маркеров адреса, затем вхождение подстроки во вторичное имя
	if tag, ok := r.DetectRegion(address); ok {
		for i, c := range candidates {
			if textnorm.Canonical(c.RegionTag) == tag && strings.Contains(secondary[i], target) {
				return c, TierRegionPartial
			}
		}
	}

	// 4. вторичное имя содержит целевое как отдельное слово
	for i, c := range candidates {
		if textnorm.ContainsWord(secondary[i], target) {
			return c, TierWholeWord
		}
	}

	return nil, TierNone
}
