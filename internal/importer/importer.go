// Package importer writes canonical records into the target store in
// transactional batches. A failed record skips that record; a failed commit
// rolls back the whole batch and reports it as imported-nothing.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"jobvault/internal/artifacts"
	"jobvault/internal/canonical"
	"jobvault/internal/logging"
	"jobvault/internal/services"
	"jobvault/internal/store"
)

// Batcher begins write batches. The target store satisfies it; tests swap
// in doubles to exercise commit failures.
type Batcher interface {
	Begin(ctx context.Context) (store.Batch, error)
}

// Importer persists canonical records produced by extraction.
type Importer struct {
	store   *store.Store
	batcher Batcher
	logger  *slog.Logger
}

// Stats summarizes one import batch.
type Stats struct {
	Imported int
	Merged   int
	Errors   []string
}

func (s *Stats) recordError(format string, args ...any) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

func New(st *store.Store, logger *slog.Logger) *Importer {
	return &Importer{
		store:   st,
		batcher: st,
		logger:  logging.NewComponentLogger(logger, "importer"),
	}
}

// NewWithBatcher builds an importer whose batches come from a custom
// batcher instead of the store itself.
func NewWithBatcher(st *store.Store, batcher Batcher, logger *slog.Logger) *Importer {
	im := New(st, logger)
	im.batcher = batcher
	return im
}

// EnsureDefaultUser returns the fallback owner account for records whose
// source carried no usable account reference. An existing account with
// this email is reused. A new one is created only while the store holds
// no users at all, so sources that supply real accounts never gain a
// synthetic one; when users exist and no default account does, it
// returns nil with no error.
func (im *Importer) EnsureDefaultUser(ctx context.Context, email string) (*store.User, error) {
	existing, err := im.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	count, err := im.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	user := &store.User{
		Email:    email,
		FullName: "Imported",
		Source:   string(canonical.SourceManual),
	}
	batch, err := im.batcher.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := batch.InsertUser(ctx, user); err != nil {
		batch.Rollback()
		return nil, fmt.Errorf("create default user: %w", err)
	}
	if err := batch.Commit(); err != nil {
		return nil, services.Wrap(services.ErrBatch, "import", "users", "commit default user", err)
	}
	im.logger.Info("created default user", logging.String("email", email), logging.Int64("user_id", user.ID))
	return user, nil
}

// ImportUsers persists users in one batch, deduplicating by normalized
// email against both the store and earlier records in the same batch.
// Profiles of merged accounts gain any keys the existing account lacks.
// The returned map resolves each source user id to its persisted id.
func (im *Importer) ImportUsers(ctx context.Context, users []canonical.User) (map[string]int64, Stats, error) {
	ids := make(map[string]int64, len(users))
	var stats Stats
	if len(users) == 0 {
		return ids, stats, nil
	}

	batch, err := im.batcher.Begin(ctx)
	if err != nil {
		return nil, stats, err
	}

	inBatch := map[string]*store.User{}
	for _, user := range users {
		email := user.NormalizedEmail()
		if email == "" {
			stats.recordError("user %s: missing email", user.OriginalID)
			continue
		}

		if prior, ok := inBatch[email]; ok {
			if mergeUserMaps(prior, user) {
				if err := batch.UpdateUser(ctx, prior); err != nil {
					stats.recordError("user %s: %v", user.OriginalID, err)
					continue
				}
			}
			ids[user.OriginalID] = prior.ID
			stats.Merged++
			continue
		}

		existing, err := im.store.UserByEmail(ctx, email)
		if err != nil {
			batch.Rollback()
			return nil, Stats{}, err
		}
		if existing != nil {
			if mergeUserMaps(existing, user) {
				if err := batch.UpdateUser(ctx, existing); err != nil {
					stats.recordError("user %s: %v", user.OriginalID, err)
					continue
				}
			}
			inBatch[email] = existing
			ids[user.OriginalID] = existing.ID
			stats.Merged++
			continue
		}

		persisted := &store.User{
			Email:    email,
			FullName: user.FullName,
			Source:   string(user.Source),
			Profile:  user.Profile,
			Settings: user.Settings,
		}
		if err := batch.InsertUser(ctx, persisted); err != nil {
			stats.recordError("user %s: %v", user.OriginalID, err)
			continue
		}
		inBatch[email] = persisted
		ids[user.OriginalID] = persisted.ID
		stats.Imported++
	}

	if err := batch.Commit(); err != nil {
		return nil, Stats{}, services.Wrap(services.ErrBatch, "import", "users", "commit batch", err)
	}
	im.logger.Info("users imported",
		logging.Int("imported", stats.Imported),
		logging.Int("merged", stats.Merged),
		logging.Int("errors", len(stats.Errors)))
	return ids, stats, nil
}

// ImportJobs persists jobs in one batch. Each job resolves its owner
// through the source user map, falling back to defaultOwner when the
// source carried no account reference. Jobs with application activity get
// an application row alongside.
func (im *Importer) ImportJobs(ctx context.Context, jobs []canonical.Job, defaultOwner int64, owners map[string]int64) (Stats, error) {
	var stats Stats
	if len(jobs) == 0 {
		return stats, nil
	}

	batch, err := im.batcher.Begin(ctx)
	if err != nil {
		return stats, err
	}

	for _, job := range jobs {
		ownerID := defaultOwner
		if job.OwnerRef != "" {
			if mapped, ok := owners[job.OwnerRef]; ok {
				ownerID = mapped
			} else if ownerID != 0 {
				stats.recordError("job %s/%s: unknown source user %q, assigned default owner", job.Source, job.OriginalID, job.OwnerRef)
				im.logger.Warn("job references unknown source user, assigning default owner",
					logging.String("source", string(job.Source)),
					logging.String("original_id", job.OriginalID),
					logging.String("owner_ref", job.OwnerRef))
			}
		}
		if ownerID == 0 {
			stats.recordError("job %s/%s: no owner available", job.Source, job.OriginalID)
			continue
		}

		persisted := &store.Job{
			UserID:         ownerID,
			OriginalID:     fmt.Sprintf("%s:%s", job.Source, job.OriginalID),
			Title:          job.Title,
			Company:        job.Company,
			Location:       job.Location,
			Description:    job.Description,
			ApplicationURL: job.ApplicationURL,
			SalaryMin:      job.SalaryMin,
			SalaryMax:      job.SalaryMax,
			Currency:       job.Currency,
			Requirements:   job.Requirements,
			Status:         job.Status,
			Source:         string(job.Source),
			DatePosted:     job.DatePosted,
			DateAdded:      job.DateAdded,
			DateApplied:    job.DateApplied,
			Tags:           job.Tags,
			Metadata:       job.Metadata,
		}
		if err := batch.InsertJob(ctx, persisted); err != nil {
			stats.recordError("job %s/%s: %v", job.Source, job.OriginalID, err)
			continue
		}

		if hasApplicationActivity(job) {
			app := &store.Application{
				JobID:     persisted.ID,
				UserID:    ownerID,
				Status:    job.Status,
				AppliedAt: job.DateApplied,
				Notes:     job.Notes,
			}
			if err := batch.InsertApplication(ctx, app); err != nil {
				stats.recordError("job %s/%s application: %v", job.Source, job.OriginalID, err)
				if derr := batch.DeleteJob(ctx, persisted.ID); derr != nil {
					stats.recordError("job %s/%s cleanup: %v", job.Source, job.OriginalID, derr)
				}
				continue
			}
		}
		stats.Imported++
	}

	if err := batch.Commit(); err != nil {
		return Stats{}, services.Wrap(services.ErrBatch, "import", "jobs", "commit batch", err)
	}
	im.logger.Info("jobs imported",
		logging.Int("imported", stats.Imported),
		logging.Int("errors", len(stats.Errors)))
	return stats, nil
}

// ImportDocuments persists migrated artifacts in one batch, all owned by
// ownerID.
func (im *Importer) ImportDocuments(ctx context.Context, files []artifacts.MigratedFile, ownerID int64) (Stats, error) {
	var stats Stats
	if len(files) == 0 {
		return stats, nil
	}

	batch, err := im.batcher.Begin(ctx)
	if err != nil {
		return stats, err
	}

	for _, file := range files {
		doc := &store.Document{
			UserID:           ownerID,
			Filename:         file.Filename,
			OriginalFilename: file.OriginalFilename,
			StoragePath:      file.StoragePath,
			DocumentType:     file.DocumentType,
			MimeType:         file.MimeType,
			SizeBytes:        file.SizeBytes,
			Source:           string(file.Source),
		}
		if err := batch.InsertDocument(ctx, doc); err != nil {
			stats.recordError("document %s: %v", file.OriginalFilename, err)
			continue
		}
		stats.Imported++
	}

	if err := batch.Commit(); err != nil {
		return Stats{}, services.Wrap(services.ErrBatch, "import", "documents", "commit batch", err)
	}
	im.logger.Info("documents imported",
		logging.Int("imported", stats.Imported),
		logging.Int("errors", len(stats.Errors)))
	return stats, nil
}

// hasApplicationActivity reports whether the source record shows the user
// actually engaged with the job, which is what warrants an application row.
func hasApplicationActivity(job canonical.Job) bool {
	return job.Status != canonical.StatusNotApplied || job.DateApplied != nil || job.Notes != ""
}

// mergeUserMaps fills missing scalar and map fields on dst from src and
// reports whether anything changed.
func mergeUserMaps(dst *store.User, src canonical.User) bool {
	changed := false
	if dst.FullName == "" && src.FullName != "" {
		dst.FullName = src.FullName
		changed = true
	}
	if merged := fillMissingKeys(dst.Profile, src.Profile); merged != nil {
		dst.Profile = merged
		changed = true
	}
	if merged := fillMissingKeys(dst.Settings, src.Settings); merged != nil {
		dst.Settings = merged
		changed = true
	}
	return changed
}

// fillMissingKeys returns dst with src's missing keys added, or nil when
// nothing needed adding.
func fillMissingKeys(dst, src map[string]any) map[string]any {
	var out map[string]any
	for key, value := range src {
		if dst != nil {
			if _, exists := dst[key]; exists {
				continue
			}
		}
		if out == nil {
			out = make(map[string]any, len(dst)+len(src))
			for k, v := range dst {
				out[k] = v
			}
		}
		out[key] = value
	}
	return out
}
