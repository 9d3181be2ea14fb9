package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/pkg/errors"
)

func TestZoneRepository_InsertIsolatesCallerCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewZoneRepository()

	zone := &domain.Zone{Address: "Palermo, Caba", Status: domain.StringPtr(domain.ZoneStatusPending)}
	require.NoError(t, repo.InsertBatch(ctx, []*domain.Zone{zone}))

	*zone.Status = "MUTATED"

	status, err := repo.GetStatus(ctx, zone.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneStatusPending, *status)
}

func TestZoneRepository_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewZoneRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, status := range []string{domain.ZoneStatusPending, domain.ZoneStatusValidated, domain.ZoneStatusPending, domain.ZoneStatusPending} {
		z := &domain.Zone{
			Address:     "zone",
			CountryCode: "AR",
			Status:      domain.StringPtr(status),
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.InsertBatch(ctx, []*domain.Zone{z}))
	}

	page, total, err := repo.List(ctx, domain.ZoneFilter{Status: domain.ZoneStatusPending, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, base, page[0].CreatedAt)

	page, total, err = repo.List(ctx, domain.ZoneFilter{CountryCode: "CL"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)
}

func TestZoneRepository_LinkKeepsExistingPoint(t *testing.T) {
	ctx := context.Background()
	zone := &domain.Zone{Address: "Tolosa, Buenos Aires", Lat: domain.Float64Ptr(-34.9), Lng: domain.Float64Ptr(-57.9)}
	repo := NewZoneRepository(zone)

	err := repo.Link(ctx, zone.ID, domain.ZoneLink{ExternalRef: "b-1", Boundary: domain.Ring{{1, 2}}})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, zone.ID)
	require.NoError(t, err)
	assert.Equal(t, "b-1", *got.ExternalRef)
	assert.Equal(t, -34.9, *got.Lat)
	assert.Nil(t, got.Status)

	assert.ErrorIs(t, repo.Link(ctx, uuid.New(), domain.ZoneLink{}), errors.ErrZoneNotFound)
}

func TestSnapshot_WritesStayLocal(t *testing.T) {
	ctx := context.Background()
	src := NewZoneRepository(&domain.Zone{Address: "Palermo, Caba"})

	snap, err := Snapshot(ctx, src)
	require.NoError(t, err)
	require.NoError(t, snap.InsertBatch(ctx, []*domain.Zone{{Address: "Belgrano, Caba"}}))

	fromSrc, _ := src.ListAll(ctx)
	fromSnap, _ := snap.ListAll(ctx)
	assert.Len(t, fromSrc, 1)
	assert.Len(t, fromSnap, 2)
}

func TestBoundaryRepository_OverlayAndDuplicates(t *testing.T) {
	ctx := context.Background()
	src := NewBoundaryRepository(&domain.BoundaryRecord{ExternalID: "b-1", Name3: "Buenos Aires"})
	overlay := Overlay(src)

	require.NoError(t, overlay.InsertBatch(ctx, []*domain.BoundaryRecord{{ExternalID: "b-2", Name3: "Buenos Aires"}}))

	records, err := overlay.ListByField(ctx, domain.NameFieldRegion, "Buenos Aires")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	ids, err := src.ExternalIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	err = overlay.InsertBatch(ctx, []*domain.BoundaryRecord{{ExternalID: "b-3"}, {ExternalID: "b-3"}})
	assert.ErrorIs(t, err, errors.ErrDatabaseError)

	_, err = overlay.ListByField(ctx, "polygon", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownNameField)
}
