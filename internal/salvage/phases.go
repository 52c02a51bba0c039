package salvage

// State is a strongly-typed identifier for the runner's position in the
// pipeline. States only ever advance; there are no retries and no loops.
type State string

const (
	StateStart               State = "start"
	StateProbed              State = "probed"
	StateBaseFilesDownloaded State = "base_files_downloaded"
	StateReferenceResolved   State = "reference_resolved"
	StateObjectsDownloaded   State = "objects_downloaded"
	StatePacksDownloaded     State = "packs_downloaded"
	StateDone                State = "done"
	// StateAborted is terminal and reachable only from StateStart, when
	// the probe finds no exposed metadata directory.
	StateAborted State = "aborted"
)

// Phase names used for durations, metrics and logging.
const (
	PhaseProbe   = "probe"
	PhaseBase    = "base_files"
	PhaseResolve = "resolve_reference"
	PhaseObjects = "objects"
	PhasePacks   = "packs"
)
