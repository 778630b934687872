package syncer

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/kegfetch/internal/fetch"
)

// Summary counts results per outcome.
type Summary struct {
	Fetched   int
	Unchanged int
	Missing   int
	Failed    int
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case fetch.Fetched:
			s.Fetched++
		case fetch.Unchanged:
			s.Unchanged++
		case fetch.Missing:
			s.Missing++
		default:
			s.Failed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d fetched, %d unchanged, %d missing, %d failed", s.Fetched, s.Unchanged, s.Missing, s.Failed)
}

// Err is non-nil when the run must exit with a failure status.
func (s Summary) Err(allowMissing bool) error {
	var parts []string
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	if s.Missing > 0 && !allowMissing {
		parts = append(parts, fmt.Sprintf("%d missing", s.Missing))
	}
	if len(parts) == 0 {
		return nil
	}
	return fmt.Errorf("sync incomplete: %s", strings.Join(parts, ", "))
}
