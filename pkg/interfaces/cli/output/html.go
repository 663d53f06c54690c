package output

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/vsinha/stocktransfer/pkg/application/dto"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.html").
	Funcs(template.FuncMap{"quantity": FormatQuantity}).
	ParseFS(templateFS, "templates/report.html"))

// HistogramBar is a histogram bucket scaled for display
type HistogramBar struct {
	dto.HistogramBucket
	Percent float64
}

// ReportData contains everything rendered into the HTML report
type ReportData struct {
	*dto.TransferResult
	Summary           dto.Summary
	SuggestionColumns []string
	ShortfallColumns  []string
	Bars              []HistogramBar
	InputFile         string
	GeneratedAt       string
}

// WriteHTMLReport renders a self-contained HTML report of a run
func WriteHTMLReport(w io.Writer, result *dto.TransferResult, summary dto.Summary, config Config) error {
	generatedAt := config.Timestamp
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	data := ReportData{
		TransferResult:    result,
		Summary:           summary,
		SuggestionColumns: entities.SuggestionColumns,
		ShortfallColumns:  entities.ShortfallColumns,
		Bars:              scaleHistogram(summary.QuantityHistogram),
		InputFile:         config.InputFile,
		GeneratedAt:       generatedAt.Format("2006-01-02 15:04:05"),
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// scaleHistogram expresses each bucket as a percentage of the tallest one
func scaleHistogram(buckets []dto.HistogramBucket) []HistogramBar {
	peak := 0
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
	}
	if peak == 0 {
		return nil
	}

	bars := make([]HistogramBar, len(buckets))
	for i, b := range buckets {
		bars[i] = HistogramBar{
			HistogramBucket: b,
			Percent:         100 * float64(b.Count) / float64(peak),
		}
	}
	return bars
}
