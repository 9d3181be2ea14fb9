package domain

import "time"

// Виды запусков пайплайна
const (
	RunKindImport  = "import"
	RunKindRawLoad = "load-raw"
	RunKindSync    = "sync"
)

// RunReport - итоговые счётчики одного запуска
type RunReport struct {
	RunID         string    `json:"run_id"`
	Kind          string    `json:"kind"`
	Source        string    `json:"source,omitempty"`
	DryRun        bool      `json:"dry_run"`
	TotalFeatures int       `json:"total_features,omitempty"`
	Candidates    int       `json:"candidates"`
	Processed     int       `json:"processed"`
	Inserted      int       `json:"inserted"`
	Linked        int       `json:"linked"`
	StatusUpdated int       `json:"status_updated"`
	Skipped       int       `json:"skipped"`
	Unmatched     int       `json:"unmatched"`
	Errors        int       `json:"errors"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// Duration возвращает длительность запуска
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// BatchProgress - прогресс после очередного батча
type BatchProgress struct {
	Batch     int
	Batches   int
	Processed int
	Total     int
	Inserted  int
	Failed    int
}

// Percent возвращает процент обработанных записей (0-100)
func (p BatchProgress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Processed) / float64(p.Total) * 100
}
