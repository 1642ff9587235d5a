package dedupe

import (
	"context"
	"log/slog"
	"time"

	"jobvault/internal/logging"
	"jobvault/internal/services"
	"jobvault/internal/store"
)

// Options configures one deduplication pass.
type Options struct {
	CompanyThreshold float64
	TitleThreshold   float64
	Clustering       string
	SalaryPolicy     string
	// UserID limits the pass to one owner; zero means every owner. Jobs
	// are only ever merged within an owner either way.
	UserID int64
}

// Result summarizes one deduplication pass.
type Result struct {
	ClustersDetected  int
	DuplicatesFound   int
	DuplicatesMerged  int
	ConflictsResolved int
	Errors            []string
}

// Batcher begins write batches; the store satisfies it.
type Batcher interface {
	Begin(ctx context.Context) (store.Batch, error)
}

// Engine runs deduplication passes over the target store.
type Engine struct {
	store   *store.Store
	batcher Batcher
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

func New(st *store.Store, opts Options, logger *slog.Logger) *Engine {
	return &Engine{
		store:   st,
		batcher: st,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "dedupe"),
		now:     time.Now,
	}
}

// NewWithBatcher builds an engine whose batches come from a custom batcher
// instead of the store itself.
func NewWithBatcher(st *store.Store, batcher Batcher, opts Options, logger *slog.Logger) *Engine {
	e := New(st, opts, logger)
	e.batcher = batcher
	return e
}

// plannedMerge is one cluster's fully computed outcome, ready to write.
type plannedMerge struct {
	primary     *store.Job
	removedJobs []int64
	updatedApps []*store.Application
	removedApps []int64
	conflicts   int
	mergedCount int
}

// Run detects duplicate clusters, computes every merge in memory against
// the committed state, then applies the whole pass in a single batch.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	var result Result

	jobs, err := e.store.ListJobs(ctx, e.opts.UserID)
	if err != nil {
		return result, err
	}

	clusters := clusterJobs(jobs, e.opts)
	result.ClustersDetected = len(clusters)
	for _, cluster := range clusters {
		result.DuplicatesFound += len(cluster) - 1
	}
	if len(clusters) == 0 {
		e.logger.Info("no duplicate clusters detected", logging.Int("jobs", len(jobs)))
		return result, nil
	}

	now := e.now()
	plans := make([]plannedMerge, 0, len(clusters))
	for _, cluster := range clusters {
		plan, err := e.planMerge(ctx, cluster, now)
		if err != nil {
			return result, err
		}
		plans = append(plans, plan)
	}

	batch, err := e.batcher.Begin(ctx)
	if err != nil {
		return result, err
	}
	for _, plan := range plans {
		if err := e.applyPlan(ctx, batch, plan); err != nil {
			batch.Rollback()
			return Result{ClustersDetected: result.ClustersDetected, DuplicatesFound: result.DuplicatesFound},
				services.Wrap(services.ErrBatch, "dedupe", "merge", "apply merge plan", err)
		}
	}
	if err := batch.Commit(); err != nil {
		return Result{ClustersDetected: result.ClustersDetected, DuplicatesFound: result.DuplicatesFound},
			services.Wrap(services.ErrBatch, "dedupe", "merge", "commit pass", err)
	}

	for _, plan := range plans {
		result.DuplicatesMerged += plan.mergedCount
		result.ConflictsResolved += plan.conflicts
	}
	e.logger.Info("deduplication pass finished",
		logging.Int("clusters", result.ClustersDetected),
		logging.Int("duplicates_found", result.DuplicatesFound),
		logging.Int("duplicates_merged", result.DuplicatesMerged),
		logging.Int("conflicts_resolved", result.ConflictsResolved))
	return result, nil
}

func (e *Engine) planMerge(ctx context.Context, cluster []*store.Job, now time.Time) (plannedMerge, error) {
	primaryIdx := selectPrimary(cluster, now)
	primary := cluster[primaryIdx]

	plan := plannedMerge{primary: primary}

	primaryApps, err := e.store.ApplicationsByJob(ctx, primary.ID)
	if err != nil {
		return plan, err
	}
	appByUser := make(map[int64]*store.Application, len(primaryApps))
	touched := map[int64]bool{}
	for _, app := range primaryApps {
		appByUser[app.UserID] = app
	}

	for i, dup := range cluster {
		if i == primaryIdx {
			continue
		}
		plan.conflicts += mergeJob(primary, dup, e.opts.SalaryPolicy)

		dupApps, err := e.store.ApplicationsByJob(ctx, dup.ID)
		if err != nil {
			return plan, err
		}
		for _, dupApp := range dupApps {
			if existing, ok := appByUser[dupApp.UserID]; ok {
				plan.conflicts += mergeApplication(existing, dupApp)
				touched[existing.ID] = true
				plan.removedApps = append(plan.removedApps, dupApp.ID)
				continue
			}
			dupApp.JobID = primary.ID
			appByUser[dupApp.UserID] = dupApp
			touched[dupApp.ID] = true
		}

		plan.removedJobs = append(plan.removedJobs, dup.ID)
		plan.mergedCount++
		e.logger.Debug("merging duplicate",
			logging.Int64("primary_id", primary.ID),
			logging.Int64("duplicate_id", dup.ID),
			logging.String("company", primary.Company),
			logging.String("title", primary.Title))
	}

	for _, app := range appByUser {
		if touched[app.ID] {
			plan.updatedApps = append(plan.updatedApps, app)
		}
	}
	return plan, nil
}

func (e *Engine) applyPlan(ctx context.Context, batch store.Batch, plan plannedMerge) error {
	// Repointed applications must move before their old jobs go away or
	// the cascade would take them along.
	for _, app := range plan.updatedApps {
		if err := batch.UpdateApplication(ctx, app); err != nil {
			return err
		}
	}
	for _, id := range plan.removedApps {
		if err := batch.DeleteApplication(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range plan.removedJobs {
		if err := batch.DeleteJob(ctx, id); err != nil {
			return err
		}
	}
	return batch.UpdateJob(ctx, plan.primary)
}
