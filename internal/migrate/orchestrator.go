// Package migrate orchestrates the full migration run: extraction from
// each enabled legacy source, artifact migration, transactional import,
// deduplication, and the final validation report.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"jobvault/internal/artifacts"
	"jobvault/internal/canonical"
	"jobvault/internal/config"
	"jobvault/internal/dedupe"
	"jobvault/internal/extract"
	"jobvault/internal/importer"
	"jobvault/internal/logging"
	"jobvault/internal/services"
	"jobvault/internal/store"
)

// RunOptions tunes a single migration run.
type RunOptions struct {
	// DryRun extracts and reports without writing to the target store or
	// copying any files.
	DryRun bool
	// SkipDedupe leaves duplicate records in place even when the config
	// enables deduplication.
	SkipDedupe bool
	// DedupeUserID limits the dedupe pass to one owner; zero means all.
	DedupeUserID int64
}

// Orchestrator drives migration runs against one target store. A file lock
// next to the database keeps concurrent runs from interleaving batches.
type Orchestrator struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	lock   *flock.Flock
}

func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		store:  st,
		logger: logging.NewComponentLogger(logger, "migrate"),
		lock:   flock.New(cfg.LockPath()),
	}
}

// Run executes a full migration pass and returns its report. Source-level
// failures (a missing snapshot) skip that source; record-level failures are
// accumulated; only configuration and store-level failures abort the run.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	locked, err := o.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire migration lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another migration run is already in progress")
	}
	defer func() {
		if err := o.lock.Unlock(); err != nil {
			o.logger.Warn("failed to release migration lock", logging.Error(err))
		}
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	report := newReport(runID, opts.DryRun, time.Now().UTC())
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("migration run started",
		logging.Bool("dry_run", opts.DryRun),
		logging.Any("sources", o.cfg.EnabledSources()))

	im := importer.New(o.store, o.logger)
	for _, tag := range o.cfg.EnabledSources() {
		if err := o.runSource(ctx, tag, report, im, opts); err != nil {
			report.FinishedAt = time.Now().UTC()
			return report, err
		}
	}

	if !opts.DryRun && !opts.SkipDedupe && o.cfg.Dedupe.Enabled {
		o.runDedupe(ctx, report, opts)
	}

	validation, err := BuildValidationReport(ctx, o.store)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("validation: %v", err))
	} else {
		report.Validation = validation
	}

	report.FinishedAt = time.Now().UTC()
	logger.Info("migration run finished",
		logging.Int("jobs_imported", report.TotalJobsImported()),
		logging.Int("duplicates_merged", report.Dedupe.DuplicatesMerged),
		logging.Int("errors", report.TotalErrors()),
		logging.Duration("elapsed", report.Duration()))
	return report, nil
}

func (o *Orchestrator) runSource(ctx context.Context, tag string, report *Report, im *importer.Importer, opts RunOptions) error {
	ctx = services.WithSource(ctx, tag)
	srcReport := report.Source(tag)

	extractor, err := o.newExtractor(tag)
	if err != nil {
		return err
	}

	var result *extract.Result
	err = o.runStage(ctx, "extract", func(stageCtx context.Context) error {
		var serr error
		result, serr = extractor.Extract(stageCtx)
		return serr
	})
	if err != nil {
		if services.ErrorScope(err) == services.ScopeSource {
			srcReport.Skipped = true
			srcReport.Errors = append(srcReport.Errors, err.Error())
			return nil
		}
		return err
	}
	srcReport.JobsExtracted = len(result.Jobs)
	srcReport.UsersExtracted = len(result.Users)
	srcReport.Errors = append(srcReport.Errors, result.Errors...)

	if opts.DryRun {
		return nil
	}

	var migrated *artifacts.Result
	err = o.runStage(ctx, "artifacts", func(stageCtx context.Context) error {
		migrator := artifacts.NewMigrator(o.cfg.Paths.ContentDir, o.logger)
		var serr error
		migrated, serr = migrator.Migrate(stageCtx, extractor.Source(), o.uploadsDir(tag))
		return serr
	})
	if err != nil {
		return err
	}
	srcReport.FilesMigrated = len(migrated.Files)
	srcReport.Errors = append(srcReport.Errors, migrated.Errors...)

	return o.runStage(ctx, "import", func(stageCtx context.Context) error {
		owners, userStats, err := im.ImportUsers(stageCtx, result.Users)
		if err != nil {
			if services.ErrorScope(err) == services.ScopeBatch {
				srcReport.Errors = append(srcReport.Errors, err.Error())
				return nil
			}
			return err
		}
		srcReport.UsersImported = userStats.Imported
		srcReport.UsersMerged = userStats.Merged
		srcReport.Errors = append(srcReport.Errors, userStats.Errors...)

		defaultOwner, err := o.fallbackOwner(stageCtx, im, result.Jobs, owners, len(migrated.Files) > 0)
		if err != nil {
			return err
		}

		jobStats, err := im.ImportJobs(stageCtx, result.Jobs, defaultOwner, owners)
		if err != nil {
			if services.ErrorScope(err) == services.ScopeBatch {
				srcReport.Errors = append(srcReport.Errors, err.Error())
				return nil
			}
			return err
		}
		srcReport.JobsImported = jobStats.Imported
		srcReport.Errors = append(srcReport.Errors, jobStats.Errors...)

		if defaultOwner == 0 {
			if len(migrated.Files) > 0 {
				srcReport.Errors = append(srcReport.Errors, "documents skipped: no default user configured")
			}
			return nil
		}
		docStats, err := im.ImportDocuments(stageCtx, migrated.Files, defaultOwner)
		if err != nil {
			if services.ErrorScope(err) == services.ScopeBatch {
				srcReport.Errors = append(srcReport.Errors, err.Error())
				return nil
			}
			return err
		}
		srcReport.DocumentsImported = docStats.Imported
		srcReport.Errors = append(srcReport.Errors, docStats.Errors...)
		return nil
	})
}

// fallbackOwner resolves the default owner account lazily. It is looked up
// only when some record in this source actually needs one, and the
// importer creates the account only while the store still holds no users,
// so a source that supplies real accounts never gains a synthetic one.
func (o *Orchestrator) fallbackOwner(ctx context.Context, im *importer.Importer, jobs []canonical.Job, owners map[string]int64, haveFiles bool) (int64, error) {
	if !o.cfg.Import.CreateDefaultUser {
		return 0, nil
	}
	needed := haveFiles
	if !needed {
		for _, job := range jobs {
			if _, ok := owners[job.OwnerRef]; job.OwnerRef == "" || !ok {
				needed = true
				break
			}
		}
	}
	if !needed {
		return 0, nil
	}
	user, err := im.EnsureDefaultUser(ctx, o.cfg.Import.DefaultUserEmail)
	if err != nil || user == nil {
		return 0, err
	}
	return user.ID, nil
}

func (o *Orchestrator) runDedupe(ctx context.Context, report *Report, opts RunOptions) {
	report.Dedupe.Ran = true
	err := o.runStage(ctx, "dedupe", func(stageCtx context.Context) error {
		engine := dedupe.New(o.store, dedupe.Options{
			CompanyThreshold: o.cfg.Dedupe.CompanyThreshold,
			TitleThreshold:   o.cfg.Dedupe.TitleThreshold,
			Clustering:       o.cfg.Dedupe.Clustering,
			SalaryPolicy:     o.cfg.Dedupe.SalaryPolicy,
			UserID:           opts.DedupeUserID,
		}, o.logger)
		result, serr := engine.Run(stageCtx)
		report.Dedupe.ClustersDetected = result.ClustersDetected
		report.Dedupe.DuplicatesFound = result.DuplicatesFound
		report.Dedupe.DuplicatesMerged = result.DuplicatesMerged
		report.Dedupe.ConflictsResolved = result.ConflictsResolved
		report.Dedupe.Errors = append(report.Dedupe.Errors, result.Errors...)
		return serr
	})
	if err != nil {
		report.Dedupe.Errors = append(report.Dedupe.Errors, err.Error())
	}
}

func (o *Orchestrator) newExtractor(tag string) (extract.Extractor, error) {
	switch tag {
	case "jobtrack":
		return extract.NewJobtrack(o.cfg.Sources.Jobtrack, o.logger)
	case "contractflow":
		return extract.NewContractflow(o.cfg.Sources.Contractflow, o.logger)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "migrate", tag, "unknown source", nil)
	}
}

func (o *Orchestrator) uploadsDir(tag string) string {
	switch tag {
	case "jobtrack":
		return o.cfg.Sources.Jobtrack.UploadsDir
	case "contractflow":
		return o.cfg.Sources.Contractflow.UploadsDir
	default:
		return ""
	}
}

// runStage wraps one pipeline stage with contextual logging and timing.
func (o *Orchestrator) runStage(ctx context.Context, stage string, fn func(context.Context) error) error {
	stageCtx := services.WithStage(ctx, stage)
	logger := logging.WithContext(stageCtx, o.logger)
	logger.Info("stage started")
	start := time.Now()
	if err := fn(stageCtx); err != nil {
		logger.Error("stage failed",
			logging.Error(err),
			logging.Duration("elapsed", time.Since(start)))
		return err
	}
	logger.Info("stage finished", logging.Duration("elapsed", time.Since(start)))
	return nil
}
