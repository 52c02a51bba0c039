package fetch

// Result classifies how a fetch attempt ended.
type Result string

const (
	// ResultFetched means the server answered 2xx and the body was persisted.
	ResultFetched Result = "fetched"
	// ResultHTTPError means the server answered outside the 2xx range.
	ResultHTTPError Result = "http_error"
	// ResultError means the request or the local write failed.
	ResultError Result = "error"
)

// Outcome records one fetch attempt. Per-file failures are data, not
// control flow: callers inspect outcomes instead of aborting, and nothing
// in the pipeline retries.
type Outcome struct {
	Path       string // relative path that was requested
	Result     Result
	StatusCode int   // HTTP status, zero when the request never completed
	Err        error // underlying failure for ResultError
}

// Success reports whether the file was fetched and persisted.
func (o Outcome) Success() bool { return o.Result == ResultFetched }

// CountSuccesses tallies persisted files in a batch of outcomes.
func CountSuccesses(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Success() {
			n++
		}
	}
	return n
}
