// Package registry imports the patient registry from a CSV export.
package registry

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/riskdesk/internal/domain"
	dombatch "github.com/kailas-cloud/riskdesk/internal/domain/batch"
	"github.com/kailas-cloud/riskdesk/internal/domain/patient"
)

// DefaultBatchSize is the number of rows written per transaction.
const DefaultBatchSize = 500

// Service loads CSV rows into the registry with per-row error reporting.
type Service struct {
	writer    Writer
	batchSize int
}

// New creates a registry import service.
func New(w Writer) *Service {
	return &Service{writer: w, batchSize: DefaultBatchSize}
}

// WithBatchSize configures the rows per transaction.
func (s *Service) WithBatchSize(size int) *Service {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

type pendingRow struct {
	line   int
	record patient.Attributes
}

// Import reads a CSV with a header row and upserts every valid row.
// Unknown header columns are ignored; patient_id and patient_name are required.
// Invalid rows are reported and skipped. A storage failure aborts the import
// and is returned together with the results gathered so far.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]dombatch.Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: csv is empty", domain.ErrInvalidRequest)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var (
		results []dombatch.Result
		pending []pendingRow
	)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		records := make([]patient.Attributes, len(pending))
		for i, p := range pending {
			records[i] = p.record
		}
		if _, err := s.writer.Upsert(ctx, records); err != nil {
			for _, p := range pending {
				results = append(results, dombatch.NewError(p.line, id(p.record), err))
			}
			return fmt.Errorf("import rows %d-%d: %w", pending[0].line, pending[len(pending)-1].line, err)
		}
		for _, p := range pending {
			results = append(results, dombatch.NewOK(p.line, id(p.record)))
		}
		pending = pending[:0]
		return nil
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			results = append(results, dombatch.NewError(line, 0, err))
			continue
		}

		rec, err := parseRow(fields, index)
		if err != nil {
			results = append(results, dombatch.NewError(line, id(rec), err))
			continue
		}
		pending = append(pending, pendingRow{line: line, record: rec})

		if len(pending) >= s.batchSize {
			if err := flush(); err != nil {
				return results, err
			}
		}
	}

	return results, flush()
}

func headerIndex(header []string) (map[string]int, error) {
	known := make(map[string]struct{}, len(patient.Columns))
	for _, c := range patient.Columns {
		known[c] = struct{}{}
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := known[name]; ok {
			index[name] = i
		}
	}
	for _, required := range []string{patient.FieldID, patient.FieldName} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: csv header lacks %s", domain.ErrInvalidRequest, required)
		}
	}
	return index, nil
}

func parseRow(fields []string, index map[string]int) (patient.Attributes, error) {
	rec := make(patient.Attributes, len(index))
	for col, i := range index {
		if i >= len(fields) {
			continue
		}
		raw := strings.TrimSpace(fields[i])
		if raw == "" {
			continue
		}
		if _, isInt := patient.IntegerColumns[col]; isInt {
			n, err := parseInt(raw)
			if err != nil {
				return rec, fmt.Errorf("%w: column %s: %q is not an integer", domain.ErrInvalidRequest, col, raw)
			}
			rec[col] = n
			continue
		}
		rec[col] = raw
	}

	if !rec.Has(patient.FieldID) {
		return rec, fmt.Errorf("%w: missing %s", domain.ErrInvalidRequest, patient.FieldID)
	}
	if !rec.Has(patient.FieldName) {
		return rec, fmt.Errorf("%w: missing %s", domain.ErrInvalidRequest, patient.FieldName)
	}
	return rec, nil
}

// Spreadsheet exports sometimes write integers as "61.0".
func parseInt(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("parse int %q", s)
	}
	return int64(f), nil
}

func id(rec patient.Attributes) int64 {
	return int64(rec.Number(patient.FieldID))
}
