package sizing

import (
	"errors"
	"fmt"

	"github.com/kebairia/foldup/internal/config"
)

// ErrGateViolation indicates that one or more folders breached a configured
// size ceiling and the run must not proceed to compression.
var ErrGateViolation = errors.New("size ceiling exceeded")

const bytesPerGiB = 1 << 30

// Violation names one breached ceiling for the abort report.
type Violation struct {
	Folder    string
	SizeBytes int64
	// Ceiling is the configured limit in GiB; Total is true when the
	// aggregate ceiling was breached rather than a per-folder one.
	Ceiling float64
	Total   bool
}

func (v Violation) String() string {
	kind := "folder"
	if v.Total {
		kind = "total"
	}
	return fmt.Sprintf("%s %q: %.2f GiB exceeds %s ceiling of %.2f GiB",
		kind, v.Folder, GiB(v.SizeBytes), kind, v.Ceiling)
}

// GiB converts a byte count to gibibytes.
func GiB(n int64) float64 {
	return float64(n) / bytesPerGiB
}

// Evaluate applies the configured ceilings to the measured folders. Both
// ceilings are optional and independent: a per-folder ceiling flags every
// folder above it, a total ceiling compares the aggregate size. Any
// violation aborts the entire run; there is no partial admission.
func Evaluate(measured []MeasuredFolder, limits config.LimitsConfig) ([]Violation, error) {
	var violations []Violation
	var total int64

	for _, m := range measured {
		total += m.SizeBytes
		if limits.MaxFolderSizeGB > 0 && GiB(m.SizeBytes) > limits.MaxFolderSizeGB {
			violations = append(violations, Violation{
				Folder:    m.Name,
				SizeBytes: m.SizeBytes,
				Ceiling:   limits.MaxFolderSizeGB,
			})
		}
	}

	if limits.MaxTotalSizeGB > 0 && GiB(total) > limits.MaxTotalSizeGB {
		violations = append(violations, Violation{
			Folder:    "all folders",
			SizeBytes: total,
			Ceiling:   limits.MaxTotalSizeGB,
			Total:     true,
		})
	}

	if len(violations) > 0 {
		return violations, fmt.Errorf("%w: %d violation(s)", ErrGateViolation, len(violations))
	}
	return nil, nil
}
