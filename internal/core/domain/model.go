package domain

// Segment operations reported by a revision diff.
const (
	OpEqual  = "equal"
	OpInsert = "insert"
	OpDelete = "delete"
)

// Result holds the outcome of comparing a draft with its revision.
type Result struct {
	Name string
	// Ratio is the normalized edit distance in [0, 1]; 0 means unchanged.
	Ratio float64
	// RawRatio is Ratio before rounding to the configured precision.
	RawRatio float64
	// Percent is Ratio scaled to 0..100 for display.
	Percent       float64
	Distance      int
	BaseLength    int
	RevisedLength int
	// Flagged reports whether RawRatio reached Threshold.
	Flagged   bool
	Threshold float64
	Details   map[string]interface{}
}

// Cancelled reports whether the computation was abandoned before scoring.
func (r Result) Cancelled() bool {
	_, ok := r.Details["error"]
	return ok
}

// Segment is one run of a revision diff.
type Segment struct {
	Op   string `json:"op"`
	Text string `json:"text"`
}

// Diff summarizes the textual changes between a draft and its revision.
type Diff struct {
	Segments []Segment
	Inserted int
	Deleted  int
	Equal    int
}

// Review bundles the score with the diff used to display it.
type Review struct {
	Result
	Diff Diff
}
