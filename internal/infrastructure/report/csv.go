package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"AppScanner/internal/domain"
	"AppScanner/internal/ports"
)

var csvHeader = []string{
	"appId", "title", "developer", "rating", "totalReviews", "fetchedReviews", "fixedMentions",
	"topPraise1", "topPraise1Count", "topComplaint1", "topComplaint1Count", "url", "sources",
}

// CSVWriter writes one row per record to apps.csv.
type CSVWriter struct {
	dir string
}

var _ ports.RecordWriter = (*CSVWriter)(nil)

// NewCSVWriter targets dir, which is created on first write.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Write serializes the records in report order.
func (w *CSVWriter) Write(_ context.Context, report domain.RunReport) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.dir, "apps.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	rows := make([][]string, 0, len(report.Records)+1)
	rows = append(rows, csvHeader)
	for _, rec := range report.Records {
		rows = append(rows, csvRow(rec))
	}
	if err := cw.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func csvRow(rec domain.AppRecord) []string {
	praise, praiseCount := first(rec.Summary.TopPraises)
	complaint, complaintCount := first(rec.Summary.TopComplaints)

	return []string{
		rec.AppID,
		rec.App.Title,
		rec.App.Developer,
		strconv.FormatFloat(rec.App.Score, 'f', -1, 64),
		strconv.Itoa(rec.App.ReviewsTotal),
		strconv.Itoa(rec.Summary.ReviewCountUsed),
		strconv.Itoa(rec.Summary.FixedMentions),
		praise,
		strconv.Itoa(praiseCount),
		complaint,
		strconv.Itoa(complaintCount),
		rec.App.URL,
		strings.Join(rec.Sources, "|"),
	}
}

func first(counts []domain.ThemeCount) (string, int) {
	if len(counts) == 0 {
		return "", 0
	}
	return counts[0].Label, counts[0].Count
}
