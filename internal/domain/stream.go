package domain

import "github.com/google/uuid"

// Stream names (читает приложение карты)
const (
	StreamZonesImported = "stream:zones:imported"
)

// ZoneImportedEvent - событие о новой или связанной зоне
type ZoneImportedEvent struct {
	ZoneID      uuid.UUID `json:"zone_id"`
	RunID       string    `json:"run_id"`
	Kind        string    `json:"kind"`
	Address     string    `json:"address"`
	ExternalRef string    `json:"external_ref,omitempty"`
	CountryCode string    `json:"country_code"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
}

// NewZoneImportedEvent собирает событие из зоны
func NewZoneImportedEvent(runID, kind string, z *Zone) ZoneImportedEvent {
	ev := ZoneImportedEvent{
		ZoneID:      z.ID,
		RunID:       runID,
		Kind:        kind,
		Address:     z.Address,
		CountryCode: z.CountryCode,
		Lat:         z.Lat,
		Lng:         z.Lng,
	}
	if z.ExternalRef != nil {
		ev.ExternalRef = *z.ExternalRef
	}
	return ev
}
