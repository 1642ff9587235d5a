package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Batch is the transactional write surface used by the importer and the
// deduplicator: entities staged through a Batch become visible only after
// Commit, and Rollback discards the whole batch.
type Batch interface {
	InsertUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	InsertJob(ctx context.Context, job *Job) error
	UpdateJob(ctx context.Context, job *Job) error
	DeleteJob(ctx context.Context, id int64) error
	InsertApplication(ctx context.Context, app *Application) error
	UpdateApplication(ctx context.Context, app *Application) error
	DeleteApplication(ctx context.Context, id int64) error
	InsertDocument(ctx context.Context, doc *Document) error
	Commit() error
	Rollback() error
}

// Begin opens a write transaction implementing Batch.
func (s *Store) Begin(ctx context.Context) (Batch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Commit() error {
	return t.tx.Commit()
}

func (t *storeTx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (t *storeTx) InsertUser(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	profile, err := marshalJSONMap(user.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	settings, err := marshalJSONMap(user.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	res, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO users (email, full_name, source, profile_json, settings_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.FullName,
		user.Source,
		profile,
		settings,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (t *storeTx) UpdateUser(ctx context.Context, user *User) error {
	if user == nil || user.ID == 0 {
		return errors.New("user has no id")
	}
	user.UpdatedAt = time.Now().UTC()
	profile, err := marshalJSONMap(user.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	settings, err := marshalJSONMap(user.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = t.tx.ExecContext(
		ctx,
		`UPDATE users SET email = ?, full_name = ?, source = ?, profile_json = ?, settings_json = ?, updated_at = ?
         WHERE id = ?`,
		user.Email,
		user.FullName,
		user.Source,
		profile,
		settings,
		user.UpdatedAt.Format(time.RFC3339Nano),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (t *storeTx) InsertJob(ctx context.Context, job *Job) error {
	now := time.Now().UTC()
	requirements, err := marshalRequirements(job.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}
	tags, err := marshalJSONList(job.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	metadata, err := marshalJSONMap(job.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	res, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO jobs (
            user_id, original_id, title, company, location, description,
            application_url, salary_min, salary_max, currency,
            requirements_json, status, source, date_posted, date_added,
            date_applied, tags_json, metadata_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.UserID,
		job.OriginalID,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.ApplicationURL,
		nullableFloat(job.SalaryMin),
		nullableFloat(job.SalaryMax),
		job.Currency,
		requirements,
		string(job.Status),
		job.Source,
		nullableTime(job.DatePosted),
		nullableTime(job.DateAdded),
		nullableTime(job.DateApplied),
		tags,
		metadata,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	job.ID = id
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

func (t *storeTx) UpdateJob(ctx context.Context, job *Job) error {
	if job == nil || job.ID == 0 {
		return errors.New("job has no id")
	}
	job.UpdatedAt = time.Now().UTC()
	requirements, err := marshalRequirements(job.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}
	tags, err := marshalJSONList(job.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	metadata, err := marshalJSONMap(job.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = t.tx.ExecContext(
		ctx,
		`UPDATE jobs
         SET user_id = ?, original_id = ?, title = ?, company = ?, location = ?,
             description = ?, application_url = ?, salary_min = ?, salary_max = ?,
             currency = ?, requirements_json = ?, status = ?, source = ?,
             date_posted = ?, date_added = ?, date_applied = ?, tags_json = ?,
             metadata_json = ?, updated_at = ?
         WHERE id = ?`,
		job.UserID,
		job.OriginalID,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.ApplicationURL,
		nullableFloat(job.SalaryMin),
		nullableFloat(job.SalaryMax),
		job.Currency,
		requirements,
		string(job.Status),
		job.Source,
		nullableTime(job.DatePosted),
		nullableTime(job.DateAdded),
		nullableTime(job.DateApplied),
		tags,
		metadata,
		job.UpdatedAt.Format(time.RFC3339Nano),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (t *storeTx) DeleteJob(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

func (t *storeTx) InsertApplication(ctx context.Context, app *Application) error {
	now := time.Now().UTC()
	documents, err := marshalJSONList(app.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	metadata, err := marshalJSONMap(app.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	res, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO applications (job_id, user_id, status, applied_at, notes, documents_json, metadata_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.JobID,
		app.UserID,
		string(app.Status),
		nullableTime(app.AppliedAt),
		app.Notes,
		documents,
		metadata,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	app.ID = id
	app.CreatedAt = now
	app.UpdatedAt = now
	return nil
}

func (t *storeTx) UpdateApplication(ctx context.Context, app *Application) error {
	if app == nil || app.ID == 0 {
		return errors.New("application has no id")
	}
	app.UpdatedAt = time.Now().UTC()
	documents, err := marshalJSONList(app.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	metadata, err := marshalJSONMap(app.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = t.tx.ExecContext(
		ctx,
		`UPDATE applications
         SET job_id = ?, user_id = ?, status = ?, applied_at = ?, notes = ?,
             documents_json = ?, metadata_json = ?, updated_at = ?
         WHERE id = ?`,
		app.JobID,
		app.UserID,
		string(app.Status),
		nullableTime(app.AppliedAt),
		app.Notes,
		documents,
		metadata,
		app.UpdatedAt.Format(time.RFC3339Nano),
		app.ID,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

func (t *storeTx) DeleteApplication(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}

func (t *storeTx) InsertDocument(ctx context.Context, doc *Document) error {
	now := time.Now().UTC()
	metadata, err := marshalJSONMap(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	res, err := t.tx.ExecContext(
		ctx,
		`INSERT INTO documents (user_id, filename, original_filename, storage_path, document_type, mime_type, size_bytes, source, metadata_json, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.UserID,
		doc.Filename,
		doc.OriginalFilename,
		doc.StoragePath,
		doc.DocumentType,
		doc.MimeType,
		doc.SizeBytes,
		doc.Source,
		metadata,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	doc.ID = id
	doc.CreatedAt = now
	return nil
}
