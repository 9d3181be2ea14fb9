package dto

import "fmt"

// Параметры запусков пайплайна. Заполняются из аргументов CLI вида key=value,
// тег arg задаёт имя ключа.

// Store - куда пишет запуск
const (
	StoreDB  = "db"
	StoreAPI = "api"
)

// MaxZonesPerRequest - сколько зон API принимает в одном POST /api/v1/zones.
// Тег max в CreateZonesRequest.Zones держим равным.
const MaxZonesPerRequest = 1000

// CheckStoreBatch - при store=api батч уходит одним запросом и не может быть больше MaxZonesPerRequest
func CheckStoreBatch(store string, batch int) error {
	if store == StoreAPI && batch > MaxZonesPerRequest {
		return fmt.Errorf("batch %d exceeds zones API limit of %d per request", batch, MaxZonesPerRequest)
	}
	return nil
}

// ImportRequest - geosync import file=...
type ImportRequest struct {
	File    string `arg:"file" validate:"required"`
	Batch   int    `arg:"batch" validate:"omitempty,min=1,max=5000"`
	Country string `arg:"country" validate:"omitempty,len=2"`
	Store   string `arg:"store" validate:"omitempty,oneof=db api"`
	DryRun  bool   `arg:"dry_run"`
}

// RawImportRequest - geosync load-raw file=...
type RawImportRequest struct {
	File   string `arg:"file" validate:"required"`
	Batch  int    `arg:"batch" validate:"omitempty,min=1,max=5000"`
	DryRun bool   `arg:"dry_run"`
}

// SyncRequest - geosync sync field=... value=...
type SyncRequest struct {
	Field   string `arg:"field" validate:"required,oneof=name1 name2 name3 region_tag"`
	Value   string `arg:"value" validate:"required"`
	Batch   int    `arg:"batch" validate:"omitempty,min=1,max=5000"`
	Country string `arg:"country" validate:"omitempty,len=2"`
	Store   string `arg:"store" validate:"omitempty,oneof=db api"`
	DryRun  bool   `arg:"dry_run"`
}
