package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/temperature-dashboard/internal/domain"
)

// Reader loads a wide temperature dataset from a CSV file.
// It implements pipeline.Extractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the CSV file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract reads the whole file. The dataset is named after the file.
func (r *Reader) Extract(ctx context.Context) (domain.WideTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.WideTable{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.WideTable{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	table, err := Parse(filepath.Base(r.path), f)
	if err != nil {
		return domain.WideTable{}, err
	}

	r.logger.Info("dataset loaded",
		"path", r.path,
		"rows", len(table.Rows),
		"columns", len(table.Header),
	)
	return table, nil
}

// Parse reads a CSV stream whose first record is the header.
func Parse(name string, src io.Reader) (domain.WideTable, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // row width is validated during reshaping

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.WideTable{}, &domain.SchemaError{Dataset: name, Reason: "file has no header row"}
	}
	if err != nil {
		return domain.WideTable{}, fmt.Errorf("read %s header: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.WideTable{}, fmt.Errorf("read %s: %w", name, err)
	}

	return domain.WideTable{Name: name, Header: header, Rows: rows}, nil
}
