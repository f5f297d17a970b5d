package schedule

// Status is the result of processing one row
type Status int

const (
	StatusSucceeded Status = iota
	StatusSkipped
	StatusFailed
	StatusPlanned // Validated in a dry run, not submitted
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusPlanned:
		return "planned"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one row
type Outcome struct {
	Line    int
	Title   string
	Status  Status
	Reason  string // Skip reason, empty otherwise
	Err     error  // Skip or upload error
	VideoID string // Platform ID of a successful upload
}

// State is a batch run state
type State int

const (
	StateInit State = iota
	StateLoading
	StateAuthenticating
	StateIterating
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateLoading:
		return "loading"
	case StateAuthenticating:
		return "authenticating"
	case StateIterating:
		return "iterating"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Report summarizes a batch run
type Report struct {
	State    State
	Outcomes []Outcome
}

// Count returns the number of outcomes with the given status
func (r *Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
