package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"AppScanner/internal/domain"
	"AppScanner/internal/ports"
)

// JSONWriter writes apps.json, run.json and, optionally, per-app summary, review and image files.
type JSONWriter struct {
	dir    string
	perApp bool
}

var _ ports.RecordWriter = (*JSONWriter)(nil)

// NewJSONWriter targets dir, which is created on first write.
func NewJSONWriter(dir string, perApp bool) *JSONWriter {
	return &JSONWriter{dir: dir, perApp: perApp}
}

type images struct {
	Icon        string   `json:"icon"`
	HeaderImage string   `json:"headerImage"`
	Screenshots []string `json:"screenshots"`
	Video       string   `json:"video"`
}

// Write serializes the report.
func (w *JSONWriter) Write(ctx context.Context, report domain.RunReport) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	records := report.Records
	if records == nil {
		records = []domain.AppRecord{}
	}
	if err := writeJSON(filepath.Join(w.dir, "apps.json"), records); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(w.dir, "run.json"), report.Stats); err != nil {
		return err
	}

	if !w.perApp {
		return nil
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		appDir, err := w.appDir(rec.AppID)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(appDir, 0o755); err != nil {
			return fmt.Errorf("create app dir: %w", err)
		}
		if err := writeJSON(filepath.Join(appDir, "summary.json"), rec.Summary); err != nil {
			return err
		}
		reviews := rec.Reviews
		if reviews == nil {
			reviews = []domain.Review{}
		}
		if err := writeJSON(filepath.Join(appDir, "reviews.json"), reviews); err != nil {
			return err
		}
		err = writeJSON(filepath.Join(appDir, "images.json"), images{
			Icon:        rec.App.Icon,
			HeaderImage: rec.App.HeaderImage,
			Screenshots: rec.App.Screenshots,
			Video:       rec.App.Video,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *JSONWriter) appDir(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("app id %q is not usable as a directory name", id)
	}
	return filepath.Join(w.dir, id), nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
