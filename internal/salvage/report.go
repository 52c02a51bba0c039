package salvage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/gitsalvage/internal/config"
	"git.home.luguber.info/inful/gitsalvage/internal/fetch"
	"git.home.luguber.info/inful/gitsalvage/internal/version"
	"github.com/google/uuid"
)

// ReportFileName is where Persist writes inside the metadata directory.
// The file is inert to a later checkout of the salvaged repository.
const ReportFileName = "salvage-report.json"

// Report captures what a salvage run did and how it ended.
type Report struct {
	RunID          string
	BaseURL        string
	OutputDir      string
	Threads        int
	Start          time.Time
	End            time.Time
	FinalState     State
	ProbeHit       string // probe path that answered, empty on aborted runs
	ResolvedRef    string // trimmed pointer resolution result, empty when resolution failed
	PhaseDurations map[string]time.Duration
	FilesFetched   int
	FilesFailed    int
	Outcomes       []fetch.Outcome
	Version        string
}

// NewReport constructs a Report for one run against the given target.
func NewReport(target config.Target) *Report {
	return &Report{
		RunID:          uuid.NewString(),
		BaseURL:        target.BaseURL,
		OutputDir:      target.OutputDir,
		Threads:        target.Threads,
		Start:          time.Now(),
		FinalState:     StateStart,
		PhaseDurations: make(map[string]time.Duration),
		Version:        version.Version,
	}
}

// Finish sets the end time of the report. Later calls keep the first value.
func (r *Report) Finish() {
	if r.End.IsZero() {
		r.End = time.Now()
	}
}

// AddOutcomes appends fetch outcomes and updates the tallies.
func (r *Report) AddOutcomes(outcomes []fetch.Outcome) {
	for _, o := range outcomes {
		r.Outcomes = append(r.Outcomes, o)
		if o.Success() {
			r.FilesFetched++
		} else {
			r.FilesFailed++
		}
	}
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("state=%s fetched=%d failed=%d resolved=%q duration=%s phases=%d", string(r.FinalState), r.FilesFetched, r.FilesFailed, r.ResolvedRef, dur.Truncate(time.Millisecond), len(r.PhaseDurations))
}

// Persist writes the report atomically into the provided directory.
func (r *Report) Persist(dir string) error {
	if r.End.IsZero() {
		r.Finish()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("ensure dir for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	jsonPath := filepath.Join(dir, ReportFileName)
	tmpJSON := jsonPath + ".tmp"
	if err := os.WriteFile(tmpJSON, jb, 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmpJSON, jsonPath); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	return nil
}

// SanitizedCopy returns a copy with error values converted to strings for
// JSON friendliness.
func (r *Report) SanitizedCopy() *ReportSerializable {
	if r.PhaseDurations == nil {
		r.PhaseDurations = map[string]time.Duration{}
	}

	s := &ReportSerializable{
		RunID:          r.RunID,
		BaseURL:        r.BaseURL,
		OutputDir:      r.OutputDir,
		Threads:        r.Threads,
		Start:          r.Start,
		End:            r.End,
		FinalState:     string(r.FinalState),
		ProbeHit:       r.ProbeHit,
		ResolvedRef:    r.ResolvedRef,
		PhaseDurations: r.PhaseDurations,
		FilesFetched:   r.FilesFetched,
		FilesFailed:    r.FilesFailed,
		Outcomes:       make([]OutcomeRecord, len(r.Outcomes)),
		Version:        r.Version,
	}
	for i, o := range r.Outcomes {
		rec := OutcomeRecord{Path: o.Path, Result: string(o.Result), Status: o.StatusCode}
		if o.Err != nil {
			rec.Error = o.Err.Error()
		}
		s.Outcomes[i] = rec
	}
	return s
}

// OutcomeRecord mirrors a fetch outcome with the error flattened to a string.
type OutcomeRecord struct {
	Path   string `json:"path"`
	Result string `json:"result"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ReportSerializable mirrors Report for JSON output.
type ReportSerializable struct {
	RunID          string                   `json:"run_id"`
	BaseURL        string                   `json:"base_url"`
	OutputDir      string                   `json:"output_dir"`
	Threads        int                      `json:"threads"`
	Start          time.Time                `json:"start"`
	End            time.Time                `json:"end"`
	FinalState     string                   `json:"final_state"`
	ProbeHit       string                   `json:"probe_hit,omitempty"`
	ResolvedRef    string                   `json:"resolved_ref,omitempty"`
	PhaseDurations map[string]time.Duration `json:"phase_durations"`
	FilesFetched   int                      `json:"files_fetched"`
	FilesFailed    int                      `json:"files_failed"`
	Outcomes       []OutcomeRecord          `json:"outcomes"`
	Version        string                   `json:"gitsalvage_version,omitempty"`
}
