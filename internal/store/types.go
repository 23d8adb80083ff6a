package store

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// ErrReportNotFound is returned when no report is stored for a run.
var ErrReportNotFound = errors.New("report not found")

// Run is one vendor test-run submission.
type Run struct {
	// ID is a UUID. Left empty on StoreRun, one is generated.
	ID string

	// CPID identifies the cloud/product under test.
	CPID string

	// DurationSeconds is the wall-time of the underlying suite run.
	DurationSeconds int64

	CreatedAt time.Time

	// Results are the passed test names.
	Results []string

	// Metadata carries free-form key/value pairs attached at submission.
	Metadata map[string]string
}

// RunRecord is a listing summary of a stored run.
type RunRecord struct {
	ID        string
	CPID      string
	CreatedAt time.Time
}

// Filters narrows run listings.
type Filters struct {
	// CPID limits to a single product, empty for all.
	CPID string

	// Start/End bound created_at inclusively; zero values are unbounded.
	Start time.Time
	End   time.Time
}

// StoredReport is a persisted compliance report.
type StoredReport struct {
	RunID            string
	GuidelineVersion string
	Overall          bool
	Hash             string

	// Payload is the report's canonical JSON.
	Payload []byte

	CreatedAt time.Time
}
