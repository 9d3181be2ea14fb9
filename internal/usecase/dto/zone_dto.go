package dto

import (
	"github.com/google/uuid"

	"github.com/mappertrip/geosync/internal/domain"
)

// ZoneInput - зона в запросе на массовое создание
type ZoneInput struct {
	ID          *uuid.UUID  `json:"id,omitempty"`
	Address     string      `json:"address" validate:"required,max=512"`
	ExternalRef *string     `json:"external_ref,omitempty" validate:"omitempty,min=1,max=128"`
	Lat         *float64    `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng         *float64    `json:"lng,omitempty" validate:"omitempty,longitude"`
	Polygon     domain.Ring `json:"polygon,omitempty"`
	CountryCode string      `json:"country_code" validate:"required,len=2"`
	Status      *string     `json:"status,omitempty" validate:"omitempty,max=32"`
	Kind        string      `json:"kind,omitempty" validate:"omitempty,max=64"`
}

// CreateZonesRequest - запрос на массовое создание зон (одна вставка на запрос).
// max совпадает с MaxZonesPerRequest.
type CreateZonesRequest struct {
	Zones []ZoneInput `json:"zones" validate:"required,min=1,max=1000,dive"`
}

// CreateZonesResponse - созданные зоны с присвоенными ID
type CreateZonesResponse struct {
	Zones []*domain.Zone `json:"zones"`
}

// UpdateZoneRequest - частичное обновление зоны.
// С external_ref - связывание с сырой границей, иначе только статус.
type UpdateZoneRequest struct {
	Status      *string     `json:"status,omitempty" validate:"omitempty,min=1,max=32"`
	ExternalRef *string     `json:"external_ref,omitempty" validate:"omitempty,min=1,max=128"`
	Polygon     domain.Ring `json:"polygon,omitempty"`
	Lat         *float64    `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng         *float64    `json:"lng,omitempty" validate:"omitempty,longitude"`
}

// ZoneListQuery - параметры списка зон
type ZoneListQuery struct {
	Status      string `query:"status" json:"status" validate:"omitempty,max=32"`
	CountryCode string `query:"country_code" json:"country_code" validate:"omitempty,len=2"`
	Page        int    `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit       int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=500"`
}

// ToFilter переводит запрос в фильтр репозитория
func (q ZoneListQuery) ToFilter() domain.ZoneFilter {
	f := domain.ZoneFilter{
		Status:      q.Status,
		CountryCode: q.CountryCode,
		Page:        q.Page,
		Limit:       q.Limit,
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultZonePageSize
	}
	return f
}

const DefaultZonePageSize = 50

// ToZone собирает доменную зону из входных данных
func (in ZoneInput) ToZone() *domain.Zone {
	z := &domain.Zone{
		Address:     in.Address,
		ExternalRef: in.ExternalRef,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Boundary:    in.Polygon,
		CountryCode: in.CountryCode,
		Status:      in.Status,
		Kind:        in.Kind,
	}
	if in.ID != nil {
		z.ID = *in.ID
	}
	if z.Kind == "" {
		z.Kind = domain.ZoneKindManual
	}
	return z
}

// NewZoneInput - обратное преобразование для HTTP клиента
func NewZoneInput(z *domain.Zone) ZoneInput {
	in := ZoneInput{
		Address:     z.Address,
		ExternalRef: z.ExternalRef,
		Lat:         z.Lat,
		Lng:         z.Lng,
		Polygon:     z.Boundary,
		CountryCode: z.CountryCode,
		Status:      z.Status,
		Kind:        z.Kind,
	}
	if z.ID != uuid.Nil {
		id := z.ID
		in.ID = &id
	}
	return in
}
