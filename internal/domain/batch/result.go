// Package batch describes per-row outcomes of a registry import.
package batch

// ItemStatus is the processing outcome of a single import row.
type ItemStatus string

// Row status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of importing one CSV row. Line is 1-based and counts
// the header.
type Result struct {
	line      int
	patientID int64
	status    ItemStatus
	err       error
}

// NewOK creates a successful row result.
func NewOK(line int, patientID int64) Result {
	return Result{line: line, patientID: patientID, status: StatusOK}
}

// NewError creates a failed row result. patientID may be 0 when the row
// could not be parsed far enough to know it.
func NewError(line int, patientID int64, err error) Result {
	return Result{line: line, patientID: patientID, status: StatusError, err: err}
}

// Line returns the source line number.
func (r Result) Line() int { return r.line }

// PatientID returns the imported patient id, if known.
func (r Result) PatientID() int64 { return r.patientID }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Count tallies results by status.
func Count(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
