// Package patient reads and writes the patient registry table.
package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/riskdesk/internal/db/sqlite"
	"github.com/kailas-cloud/riskdesk/internal/domain"
	dompatient "github.com/kailas-cloud/riskdesk/internal/domain/patient"
	"github.com/kailas-cloud/riskdesk/internal/domain/predicate"
)

// store is the consumer interface for the registry (ISP).
type store interface {
	Query(ctx context.Context, query string, args ...any) ([]sqlite.Row, error)
	ExecBatch(ctx context.Context, stmt string, batch [][]any) (int, error)
}

var (
	selectColumns = strings.Join(dompatient.Columns, ", ")
	selectAll     = "SELECT " + selectColumns + " FROM patients"
	upsertStmt    = "INSERT OR REPLACE INTO patients (" + selectColumns + ") VALUES (?" +
		strings.Repeat(", ?", len(dompatient.Columns)-1) + ")"
)

// Flag columns are NOT NULL in the table; records lacking them are stored
// with the table defaults.
var columnDefaults = map[string]any{
	dompatient.FieldDiabetes:    dompatient.No,
	dompatient.FieldObesity:     dompatient.No,
	dompatient.FieldKidney:      dompatient.No,
	dompatient.FieldAnemia:      dompatient.No,
	dompatient.FieldAsthma:      dompatient.No,
	dompatient.FieldCholesterol: int64(0),
}

// Repo implements usecase/analysis.Repository and usecase/registry.Writer.
type Repo struct {
	store store
}

// New creates a patient repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns one patient by id.
func (r *Repo) Get(ctx context.Context, id int64) (dompatient.Attributes, error) {
	rows, err := r.store.Query(ctx, selectAll+" WHERE patient_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("%w: get patient %d: %w", domain.ErrStoreUnavailable, id, err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrPatientNotFound
	}
	return toAttributes(rows[0]), nil
}

// Find returns every patient matching pred, ordered by id.
func (r *Repo) Find(ctx context.Context, pred predicate.Predicate) ([]dompatient.Attributes, error) {
	query := selectAll
	if !pred.IsEmpty() {
		query += " WHERE " + pred.Where()
	}
	query += " ORDER BY patient_id"

	rows, err := r.store.Query(ctx, query, pred.Args()...)
	if err != nil {
		return nil, fmt.Errorf("%w: find patients where %s: %w", domain.ErrStoreUnavailable, pred, err)
	}

	out := make([]dompatient.Attributes, len(rows))
	for i, row := range rows {
		out[i] = toAttributes(row)
	}
	return out, nil
}

// Upsert inserts or replaces records by patient_id in one transaction.
func (r *Repo) Upsert(ctx context.Context, records []dompatient.Attributes) (int, error) {
	batch := make([][]any, len(records))
	for i, rec := range records {
		args := make([]any, len(dompatient.Columns))
		for j, col := range dompatient.Columns {
			v := rec[col]
			if v == nil {
				v = columnDefaults[col]
			}
			args[j] = v
		}
		batch[i] = args
	}

	n, err := r.store.ExecBatch(ctx, upsertStmt, batch)
	if err != nil {
		return 0, fmt.Errorf("%w: upsert %d patients: %w", domain.ErrStoreUnavailable, len(records), err)
	}
	return n, nil
}

func toAttributes(row sqlite.Row) dompatient.Attributes {
	a := make(dompatient.Attributes, len(row))
	for k, v := range row {
		a[k] = v
	}
	return a
}
