package operations

// Status classifies how one folder's archive job ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is the per-folder result of an archive job. It lives only for
// the duration of the run's summary; nothing is persisted beyond the
// archive files themselves.
type Outcome struct {
	Folder    string
	Status    Status
	FinalPath string // set when Status is StatusSucceeded
	SizeBytes int64  // archive size, when succeeded
	Reason    string // set when Status is StatusSkipped
	Err       error  // set when Status is StatusFailed
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Outcomes []Outcome
}

// Counts returns how many jobs succeeded, were skipped, and failed.
func (s *Summary) Counts() (succeeded, skipped, failed int) {
	for _, o := range s.Outcomes {
		switch o.Status {
		case StatusSucceeded:
			succeeded++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return succeeded, skipped, failed
}
