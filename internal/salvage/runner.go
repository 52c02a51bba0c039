package salvage

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/gitsalvage/internal/config"
	"git.home.luguber.info/inful/gitsalvage/internal/fetch"
	"git.home.luguber.info/inful/gitsalvage/internal/gitdir"
	"git.home.luguber.info/inful/gitsalvage/internal/logfields"
	"git.home.luguber.info/inful/gitsalvage/internal/metrics"
	"git.home.luguber.info/inful/gitsalvage/internal/observability"
	"git.home.luguber.info/inful/gitsalvage/internal/packs"
	"git.home.luguber.info/inful/gitsalvage/internal/probe"
	"git.home.luguber.info/inful/gitsalvage/internal/resolve"
	"git.home.luguber.info/inful/gitsalvage/internal/transport"
	"git.home.luguber.info/inful/gitsalvage/internal/workspace"
)

// Runner drives one salvage run from probe to packs. Phases execute once,
// in order; per-file failures are absorbed into outcomes and never halt
// the pipeline. Only the probe can end a run early.
type Runner struct {
	target     config.Target
	extraPaths []string
	ws         *workspace.Manager
	prober     *probe.Prober
	files      *fetch.Fetcher
	pool       *fetch.Pool
	resolver   *resolve.Resolver
	packs      *packs.Fetcher
	recorder   metrics.Recorder
	report     *Report
	state      State
}

// NewRunner wires the pipeline for a target. A nil doer falls back to the
// default HTTP client, nil settings to defaults, a nil recorder to noop.
func NewRunner(target config.Target, settings *config.Settings, doer transport.Doer, recorder metrics.Recorder) *Runner {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	client := transport.NewClient(doer, target.BaseURL, settings.UserAgent)
	files := fetch.NewFetcher(client, target.OutputDir, recorder)
	return &Runner{
		target:     target,
		extraPaths: settings.ExtraPaths,
		ws:         workspace.NewManager(target.OutputDir),
		prober:     probe.NewProber(client),
		files:      files,
		pool:       fetch.NewPool(files, target.Threads),
		resolver:   resolve.NewResolver(files),
		packs:      packs.NewFetcher(files),
		recorder:   recorder,
		state:      StateStart,
	}
}

// State returns the runner's current pipeline state.
func (r *Runner) State() State { return r.state }

// Run executes the pipeline once and always produces a Report. The error
// is reserved for setup problems such as an unusable output directory;
// a target without an exposed repository is a normal aborted run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.report = NewReport(r.target)
	ctx = observability.WithRunID(ctx, r.report.RunID)
	runStart := time.Now()
	defer func() {
		r.report.Finish()
		r.recorder.ObserveRunDuration(time.Since(runStart))
	}()

	observability.InfoContext(ctx, "Starting salvage run",
		logfields.URL(r.target.BaseURL),
		logfields.Dir(r.target.OutputDir),
		logfields.Threads(r.target.Threads))

	// The output tree exists before the first request goes out, so every
	// later write only needs its own parents.
	if err := r.ws.Ensure(); err != nil {
		return nil, err
	}

	probeCtx := observability.WithPhase(ctx, PhaseProbe)
	phaseStart := time.Now()
	hit, found := r.prober.Detect(probeCtx)
	r.observePhase(PhaseProbe, time.Since(phaseStart), found)
	if !found {
		r.state = StateAborted
		r.report.FinalState = StateAborted
		r.recorder.IncRunOutcome(metrics.OutcomeAborted)
		observability.InfoContext(ctx, "No exposed repository found, aborting before any download", logfields.URL(r.target.BaseURL))
		return r.report, nil
	}
	r.report.ProbeHit = hit
	r.state = StateProbed

	baseCtx := observability.WithPhase(ctx, PhaseBase)
	phaseStart = time.Now()
	baseOutcomes := r.fetchBaseFiles(baseCtx)
	r.report.AddOutcomes(baseOutcomes)
	r.observePhase(PhaseBase, time.Since(phaseStart), fetch.CountSuccesses(baseOutcomes) > 0)
	r.state = StateBaseFilesDownloaded

	resolveCtx := observability.WithPhase(ctx, PhaseResolve)
	phaseStart = time.Now()
	resolved, resolveErr := r.resolver.Head(resolveCtx)
	r.observePhase(PhaseResolve, time.Since(phaseStart), resolveErr == nil)
	if resolveErr != nil {
		observability.WarnContext(resolveCtx, "Could not resolve branch pointer, skipping object downloads", logfields.Error(resolveErr))
	} else {
		r.report.ResolvedRef = resolved
		observability.InfoContext(resolveCtx, "Branch pointer resolved", logfields.Hash(resolved))
	}
	r.state = StateReferenceResolved

	if resolveErr == nil {
		objectsCtx := observability.WithPhase(ctx, PhaseObjects)
		phaseStart = time.Now()
		objectOutcomes := r.pool.FetchObjects(objectsCtx, []string{resolved})
		r.report.AddOutcomes(objectOutcomes)
		r.observePhase(PhaseObjects, time.Since(phaseStart), fetch.CountSuccesses(objectOutcomes) == len(objectOutcomes))
	}
	r.state = StateObjectsDownloaded

	packsCtx := observability.WithPhase(ctx, PhasePacks)
	phaseStart = time.Now()
	packOutcomes, packErr := r.packs.FetchAdvertised(packsCtx)
	r.report.AddOutcomes(packOutcomes)
	r.observePhase(PhasePacks, time.Since(phaseStart), packErr == nil && fetch.CountSuccesses(packOutcomes) == len(packOutcomes))
	if packErr != nil {
		observability.WarnContext(packsCtx, "Pack manifest could not be processed", logfields.Error(packErr))
	}
	r.state = StatePacksDownloaded

	r.state = StateDone
	r.report.FinalState = StateDone
	r.recorder.IncRunOutcome(metrics.OutcomeComplete)
	r.report.Finish()
	observability.InfoContext(ctx, "Salvage run complete", logfields.Dir(r.target.OutputDir), slog.String("summary", r.report.Summary()))
	return r.report, nil
}

// fetchBaseFiles downloads the bootstrap catalog plus any configured extra
// paths, one sequential fetch per path, in catalog order.
func (r *Runner) fetchBaseFiles(ctx context.Context) []fetch.Outcome {
	paths := append(gitdir.BootstrapPaths(), r.extraPaths...)
	outcomes := make([]fetch.Outcome, 0, len(paths))
	for _, p := range paths {
		outcomes = append(outcomes, r.files.Fetch(ctx, metrics.FetchBootstrap, p))
	}
	observability.InfoContext(ctx, "Base files downloaded",
		logfields.Count(fetch.CountSuccesses(outcomes)),
		slog.Int("attempted", len(paths)))
	return outcomes
}

func (r *Runner) observePhase(phase string, d time.Duration, ok bool) {
	r.report.PhaseDurations[phase] = d
	r.recorder.ObservePhaseDuration(phase, d)
	result := metrics.ResultSuccess
	if !ok {
		result = metrics.ResultFailure
	}
	r.recorder.IncPhaseResult(phase, result)
}
