package usecase_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/usecase"
)

const cabaTag = "ciudad autonoma de buenos aires"

func newResolver(t *testing.T) *usecase.MatchResolver {
	t.Helper()
	markers, err := usecase.LoadRegionMarkers("")
	require.NoError(t, err)
	return usecase.NewMatchResolver(markers)
}

func boundary(id, name1, name2, regionTag string) *domain.BoundaryRecord {
	return &domain.BoundaryRecord{
		ExternalID: id,
		Name1:      name1,
		Name2:      name2,
		Name3:      "Ciudad Autónoma de Buenos Aires",
		RegionTag:  regionTag,
		Boundary:   square,
	}
}

func TestMatchResolver_TierOrder(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name       string
		address    string
		candidates []*domain.BoundaryRecord
		wantID     string
		wantTier   usecase.MatchTier
	}{
		{
			name:    "secondary name beats primary name",
			address: "Palermo, CABA",
			candidates: []*domain.BoundaryRecord{
				boundary("a", "Palermo", "Comuna 14", cabaTag),
				boundary("b", "Comuna 14", "PALERMO", cabaTag),
			},
			wantID:   "b",
			wantTier: usecase.TierSecondaryName,
		},
		{
			name:    "primary name",
			address: "General Pueyrredón",
			candidates: []*domain.BoundaryRecord{
				boundary("a", "Tandil", "Tandil", "buenos aires"),
				boundary("b", "General Pueyrredon", "Mar del Plata", "buenos aires"),
			},
			wantID:   "b",
			wantTier: usecase.TierPrimaryName,
		},
		{
			name:    "region partial beats whole word",
			address: "Palermo, CABA",
			candidates: []*domain.BoundaryRecord{
				boundary("a", "Comuna 1", "Villa Palermo", "buenos aires"),
				boundary("b", "Comuna 14", "PalermoSoho", cabaTag),
			},
			wantID:   "b",
			wantTier: usecase.TierRegionPartial,
		},
		{
			name:    "whole word",
			address: "Palermo, Buenos Aires",
			candidates: []*domain.BoundaryRecord{
				boundary("a", "Comuna 14", "Palermo Chico Extendido", cabaTag),
			},
			wantID:   "a",
			wantTier: usecase.TierWholeWord,
		},
		{
			name:    "first candidate wins within a tier",
			address: "Belgrano",
			candidates: []*domain.BoundaryRecord{
				boundary("first", "Comuna 13", "Belgrano", cabaTag),
				boundary("second", "Comuna 13", "belgrano", cabaTag),
			},
			wantID:   "first",
			wantTier: usecase.TierSecondaryName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, tier := r.Resolve(tt.address, tt.candidates)
			require.NotNil(t, match)
			assert.Equal(t, tt.wantID, match.ExternalID)
			assert.Equal(t, tt.wantTier, tier)
		})
	}
}

func TestMatchResolver_NoMatch(t *testing.T) {
	r := newResolver(t)

	t.Run("substring without region", func(t *testing.T) {
		match, tier := r.Resolve("Palermo", []*domain.BoundaryRecord{
			boundary("a", "Comuna 14", "PalermoSoho", cabaTag),
		})
		assert.Nil(t, match)
		assert.Equal(t, usecase.TierNone, tier)
	})

	t.Run("region does not match candidate tag", func(t *testing.T) {
		match, _ := r.Resolve("Palermo, Provincia", []*domain.BoundaryRecord{
			boundary("a", "Comuna 14", "PalermoSoho", cabaTag),
		})
		assert.Nil(t, match)
	})

	t.Run("empty location name", func(t *testing.T) {
		match, _ := r.Resolve(" , CABA", []*domain.BoundaryRecord{
			boundary("a", "", "", cabaTag),
		})
		assert.Nil(t, match)
	})

	t.Run("no candidates", func(t *testing.T) {
		match, _ := r.Resolve("Palermo, CABA", nil)
		assert.Nil(t, match)
	})
}

func TestMatchResolver_DetectRegion(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		address string
		wantTag string
		wantOK  bool
	}{
		{"Palermo, CABA", "CIUDAD AUTONOMA DE BUENOS AIRES", true},
		{"Recoleta, Capital Federal", "CIUDAD AUTONOMA DE BUENOS AIRES", true},
		{"Recoleta, Ciudad Autónoma", "CIUDAD AUTONOMA DE BUENOS AIRES", true},
		{"Quilmes, Pcia. de Buenos Aires", "BUENOS AIRES", true},
		{"Caballito", "", false},
		{"Rosario, Santa Fe", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			tag, ok := r.DetectRegion(tt.address)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestLoadRegionMarkers(t *testing.T) {
	t.Run("embedded default", func(t *testing.T) {
		markers, err := usecase.LoadRegionMarkers("")
		require.NoError(t, err)
		require.Len(t, markers, 2)
		assert.Equal(t, cabaTag, markers[0].Tag)
		assert.Contains(t, markers[0].Markers, "CABA")
	})

	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "markers.yaml")
		content := "regions:\n  - tag: santa fe\n    markers:\n      - SF\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		markers, err := usecase.LoadRegionMarkers(path)
		require.NoError(t, err)
		require.Len(t, markers, 1)

		r := usecase.NewMatchResolver(markers)
		tag, ok := r.DetectRegion("Centro, SF")
		assert.True(t, ok)
		assert.Equal(t, "SANTA FE", tag)
	})

	t.Run("entry without markers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "markers.yaml")
		require.NoError(t, os.WriteFile(path, []byte("regions:\n  - tag: santa fe\n"), 0o600))

		_, err := usecase.LoadRegionMarkers(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := usecase.LoadRegionMarkers(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestExistenceIndex_Lookup(t *testing.T) {
	byRef := &domain.Zone{Address: "Somewhere, Else", ExternalRef: domain.StringPtr("ar-1")}
	byAddr := &domain.Zone{Address: "  núñez,   ciudad autónoma de buenos aires "}
	duplicate := &domain.Zone{Address: "Nuñez, Ciudad Autonoma de Buenos Aires"}

	ix := usecase.NewExistenceIndex([]*domain.Zone{byRef, byAddr, duplicate})
	assert.Equal(t, 1, ix.Len())

	zone, rule := ix.Lookup(&domain.BoundaryRecord{ExternalID: "ar-1", Name2: "Núñez", Name3: "Ciudad Autónoma de Buenos Aires"})
	assert.Same(t, byRef, zone)
	assert.Equal(t, usecase.ExistenceByExternalRef, rule)

	zone, rule = ix.Lookup(&domain.BoundaryRecord{ExternalID: "ar-2", Name2: "NUÑEZ", Name3: "Ciudad Autónoma de Buenos Aires"})
	assert.Same(t, byAddr, zone)
	assert.Equal(t, usecase.ExistenceByAddress, rule)

	zone, rule = ix.Lookup(&domain.BoundaryRecord{ExternalID: "ar-3", Name2: "Saavedra", Name3: "Ciudad Autónoma de Buenos Aires"})
	assert.Nil(t, zone)
	assert.Equal(t, usecase.ExistenceNone, rule)
}

func TestExistenceIndex_NamelessBoundariesAreNotMergedByAddress(t *testing.T) {
	ix := usecase.NewExistenceIndex(nil)
	ix.Add(&domain.Zone{Address: ", ", ExternalRef: domain.StringPtr("ar-1")})
	ix.Add(&domain.Zone{Address: "   "})

	zone, rule := ix.Lookup(&domain.BoundaryRecord{ExternalID: "ar-2"})
	assert.Nil(t, zone)
	assert.Equal(t, usecase.ExistenceNone, rule)

	zone, rule = ix.Lookup(&domain.BoundaryRecord{ExternalID: "ar-1"})
	require.NotNil(t, zone)
	assert.Equal(t, usecase.ExistenceByExternalRef, rule)
}

func TestExistenceIndex_AddQueued(t *testing.T) {
	ix := usecase.NewExistenceIndex(nil)
	assert.False(t, ix.Referenced("ar-9"))

	ix.Add(&domain.Zone{Address: "Colegiales, CABA", ExternalRef: domain.StringPtr("ar-9")})
	assert.True(t, ix.Referenced("ar-9"))

	zone, rule := ix.Lookup(&domain.BoundaryRecord{Name2: "Colegiales", Name3: "CABA"})
	require.NotNil(t, zone)
	assert.Equal(t, usecase.ExistenceByAddress, rule)
}
