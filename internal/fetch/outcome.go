package fetch

// Outcome is the result of one engine invocation. The zero value is Failed,
// which always comes with a non-nil error.
type Outcome int

const (
	Failed Outcome = iota
	Fetched
	Unchanged
	Missing
)

func (o Outcome) String() string {
	switch o {
	case Fetched:
		return "fetched"
	case Unchanged:
		return "unchanged"
	case Missing:
		return "missing"
	default:
		return "failed"
	}
}

// Changed reports whether the destination was replaced, i.e. whether the
// caller must persist the updated cache record.
func (o Outcome) Changed() bool {
	return o == Fetched
}
