package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mappertrip/geosync/internal/domain"
	"github.com/mappertrip/geosync/internal/usecase"
)

const bannerWidth = 56

var (
	heavyRule = strings.Repeat("=", bannerWidth)
	lightRule = strings.Repeat("-", bannerWidth)
)

// PrintReport печатает итог запуска для оператора. Формат не предназначен для разбора.
func PrintReport(w io.Writer, r *domain.RunReport) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, " GEOSYNC %s REPORT\n", strings.ToUpper(r.Kind))
	fmt.Fprintln(w, heavyRule)
	line(w, "Run ID", r.RunID)
	line(w, "Source", r.Source)
	line(w, "Dry run", yesNo(r.DryRun))
	fmt.Fprintln(w, lightRule)

	if r.Kind != domain.RunKindSync {
		line(w, "Total features", r.TotalFeatures)
	}
	line(w, "Processed", r.Processed)
	line(w, "Candidates", r.Candidates)
	line(w, "Inserted", r.Inserted)
	if r.Kind == domain.RunKindSync {
		line(w, "Linked", r.Linked)
		line(w, "Unmatched zones", r.Unmatched)
	}
	if r.Kind != domain.RunKindRawLoad {
		line(w, "Status updated", r.StatusUpdated)
	}
	line(w, "Skipped (exists)", r.Skipped)
	line(w, "Errors", r.Errors)
	fmt.Fprintln(w, lightRule)
	line(w, "Duration", r.Duration().Round(time.Millisecond))
	fmt.Fprintln(w, heavyRule)
}

func line(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, " %-18s: %v\n", label, value)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ProgressPrinter печатает строку прогресса после каждого батча
func ProgressPrinter(w io.Writer) usecase.ProgressFunc {
	return func(p domain.BatchProgress) {
		fmt.Fprintf(w, "batch %d/%d: %d/%d (%.1f%%) inserted=%d failed=%d\n",
			p.Batch, p.Batches, p.Processed, p.Total, p.Percent(), p.Inserted, p.Failed)
	}
}
