package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/mappertrip/geosync/internal/domain"
	apperrors "github.com/mappertrip/geosync/internal/pkg/errors"
	"github.com/mappertrip/geosync/internal/repository/memory"
	"github.com/mappertrip/geosync/internal/usecase"
	"github.com/mappertrip/geosync/internal/usecase/dto"
)

type ZoneUseCaseTestSuite struct {
	suite.Suite
	zones *memory.ZoneRepository
	uc    *usecase.ZoneUseCase
	ctx   context.Context
}

func (s *ZoneUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.zones = memory.NewZoneRepository()
	s.uc = usecase.NewZoneUseCase(s.zones, zap.NewNop())
}

func (s *ZoneUseCaseTestSuite) createZones(inputs ...dto.ZoneInput) []*domain.Zone {
	zones, err := s.uc.Create(s.ctx, dto.CreateZonesRequest{Zones: inputs})
	s.Require().NoError(err)
	return zones
}

func (s *ZoneUseCaseTestSuite) TestCreate_AssignsDefaults() {
	zones := s.createZones(dto.ZoneInput{Address: "Palermo, CABA", CountryCode: "AR"})

	s.Require().Len(zones, 1)
	s.NotEqual(uuid.Nil, zones[0].ID)
	s.Equal(domain.ZoneKindManual, zones[0].Kind)

	got, err := s.uc.Get(s.ctx, zones[0].ID.String())
	s.Require().NoError(err)
	s.Equal("Palermo, CABA", got.Address)
}

func (s *ZoneUseCaseTestSuite) TestCreate_Validation() {
	tests := []struct {
		name string
		req  dto.CreateZonesRequest
	}{
		{"empty", dto.CreateZonesRequest{}},
		{"missing address", dto.CreateZonesRequest{Zones: []dto.ZoneInput{{CountryCode: "AR"}}}},
		{"bad country", dto.CreateZonesRequest{Zones: []dto.ZoneInput{{Address: "x", CountryCode: "ARG"}}}},
		{"bad latitude", dto.CreateZonesRequest{Zones: []dto.ZoneInput{{Address: "x", CountryCode: "AR", Lat: domain.Float64Ptr(91)}}}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.uc.Create(s.ctx, tt.req)
			s.ErrorIs(err, apperrors.ErrInvalidRequest)
		})
	}
}

func (s *ZoneUseCaseTestSuite) TestCreate_RequestSizeLimit() {
	inputs := make([]dto.ZoneInput, dto.MaxZonesPerRequest+1)
	for i := range inputs {
		inputs[i] = dto.ZoneInput{Address: fmt.Sprintf("Zona %d, CABA", i), CountryCode: "AR"}
	}

	_, err := s.uc.Create(s.ctx, dto.CreateZonesRequest{Zones: inputs})
	s.ErrorIs(err, apperrors.ErrInvalidRequest)

	zones, err := s.uc.Create(s.ctx, dto.CreateZonesRequest{Zones: inputs[:dto.MaxZonesPerRequest]})
	s.Require().NoError(err)
	s.Len(zones, dto.MaxZonesPerRequest)
}

func (s *ZoneUseCaseTestSuite) TestCreate_DuplicateID() {
	id := uuid.New()
	s.createZones(dto.ZoneInput{ID: &id, Address: "Palermo", CountryCode: "AR"})

	_, err := s.uc.Create(s.ctx, dto.CreateZonesRequest{Zones: []dto.ZoneInput{{ID: &id, Address: "Again", CountryCode: "AR"}}})
	s.ErrorIs(err, apperrors.ErrDuplicateZone)
}

func (s *ZoneUseCaseTestSuite) TestList_FiltersAndDefaults() {
	s.createZones(
		dto.ZoneInput{Address: "a", CountryCode: "AR", Status: domain.StringPtr(domain.ZoneStatusPending)},
		dto.ZoneInput{Address: "b", CountryCode: "AR"},
		dto.ZoneInput{Address: "c", CountryCode: "UY", Status: domain.StringPtr(domain.ZoneStatusPending)},
	)

	zones, total, filter, err := s.uc.List(s.ctx, dto.ZoneListQuery{Status: domain.ZoneStatusPending})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(zones, 2)
	s.Equal(1, filter.Page)
	s.Equal(dto.DefaultZonePageSize, filter.Limit)

	zones, total, _, err = s.uc.List(s.ctx, dto.ZoneListQuery{CountryCode: "UY", Limit: 1})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(zones, 1)
	s.Equal("c", zones[0].Address)

	_, _, _, err = s.uc.List(s.ctx, dto.ZoneListQuery{Limit: 1000})
	s.ErrorIs(err, apperrors.ErrInvalidRequest)
}

func (s *ZoneUseCaseTestSuite) TestGet_Errors() {
	_, err := s.uc.Get(s.ctx, "not-a-uuid")
	s.ErrorIs(err, apperrors.ErrInvalidZoneID)

	_, err = s.uc.Get(s.ctx, uuid.NewString())
	s.ErrorIs(err, apperrors.ErrZoneNotFound)
}

func (s *ZoneUseCaseTestSuite) TestPatch_Status() {
	zone := s.createZones(dto.ZoneInput{Address: "Palermo", CountryCode: "AR"})[0]

	got, err := s.uc.Patch(s.ctx, zone.ID.String(), dto.UpdateZoneRequest{Status: domain.StringPtr(domain.ZoneStatusValidated)})
	s.Require().NoError(err)
	s.Equal(domain.ZoneStatusValidated, *got.Status)
	s.False(got.HasExternalRef())
}

func (s *ZoneUseCaseTestSuite) TestPatch_Link() {
	zone := s.createZones(dto.ZoneInput{Address: "Palermo", CountryCode: "AR"})[0]

	got, err := s.uc.Patch(s.ctx, zone.ID.String(), dto.UpdateZoneRequest{
		ExternalRef: domain.StringPtr("caba-palermo"),
		Polygon:     square,
		Lat:         domain.Float64Ptr(1),
		Lng:         domain.Float64Ptr(1),
		Status:      domain.StringPtr(domain.ZoneStatusPending),
	})
	s.Require().NoError(err)
	s.Equal("caba-palermo", *got.ExternalRef)
	s.Equal(square, got.Boundary)
	s.True(got.HasPoint())
	s.Equal(domain.ZoneStatusPending, *got.Status)
}

func (s *ZoneUseCaseTestSuite) TestPatch_Errors() {
	zone := s.createZones(dto.ZoneInput{Address: "Palermo", CountryCode: "AR"})[0]

	_, err := s.uc.Patch(s.ctx, zone.ID.String(), dto.UpdateZoneRequest{})
	s.ErrorIs(err, apperrors.ErrInvalidRequest)

	_, err = s.uc.Patch(s.ctx, "bad", dto.UpdateZoneRequest{Status: domain.StringPtr("X")})
	s.ErrorIs(err, apperrors.ErrInvalidZoneID)

	_, err = s.uc.Patch(s.ctx, uuid.NewString(), dto.UpdateZoneRequest{Status: domain.StringPtr("X")})
	s.ErrorIs(err, apperrors.ErrZoneNotFound)
}

func TestZoneUseCaseSuite(t *testing.T) {
	suite.Run(t, new(ZoneUseCaseTestSuite))
}

func TestZoneUseCase_ListRepositoryError(t *testing.T) {
	zoneRepo := new(MockZoneRepository)
	zoneRepo.On("List", mock.Anything, mock.Anything).Return(nil, 0, apperrors.ErrDatabaseError)

	uc := usecase.NewZoneUseCase(zoneRepo, zap.NewNop())
	_, _, _, err := uc.List(context.Background(), dto.ZoneListQuery{})
	require.ErrorIs(t, err, apperrors.ErrDatabaseError)
	assert.True(t, zoneRepo.AssertExpectations(t))
}
