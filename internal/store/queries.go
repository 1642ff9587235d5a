package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobvault/internal/canonical"
)

const jobColumns = `id, user_id, original_id, title, company, location, description,
    application_url, salary_min, salary_max, currency, requirements_json, status,
    source, date_posted, date_added, date_applied, tags_json, metadata_json,
    created_at, updated_at`

const userColumns = `id, email, full_name, source, profile_json, settings_json, created_at, updated_at`

const applicationColumns = `id, job_id, user_id, status, applied_at, notes, documents_json, metadata_json, created_at, updated_at`

// UserByEmail returns the user with the given email (case-insensitive), or
// nil when no such user exists.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns all users ordered by identifier.
func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CountUsers returns the number of persisted users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// GetJob fetches a job by identifier, or nil when missing.
func (s *Store) GetJob(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ListJobs returns jobs ordered by identifier, optionally scoped to one
// owner (userID 0 means all users). The stable order makes downstream
// tie-breaking deterministic.
func (s *Store) ListJobs(ctx context.Context, userID int64) ([]*Job, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID == 0 {
		rows, err = s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY id`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE user_id = ? ORDER BY id`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ApplicationsByJob returns all applications referencing a job.
func (s *Store) ApplicationsByJob(ctx context.Context, jobID int64) ([]*Application, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("applications by job: %w", err)
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// ListDocuments returns all migrated documents ordered by identifier.
func (s *Store) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, filename, original_filename, storage_path, document_type, mime_type, size_bytes, source, metadata_json, created_at
         FROM documents ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(scanner rowScanner) (*User, error) {
	var (
		id         int64
		email      string
		fullName   string
		source     string
		profile    sql.NullString
		settings   sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &email, &fullName, &source, &profile, &settings, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	user := &User{
		ID:       id,
		Email:    email,
		FullName: fullName,
		Source:   source,
		Profile:  unmarshalJSONMap(profile.String),
		Settings: unmarshalJSONMap(settings.String),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		user.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		user.UpdatedAt = updated
	}
	return user, nil
}

func scanJob(scanner rowScanner) (*Job, error) {
	var (
		id             int64
		userID         int64
		originalID     string
		title          string
		company        string
		location       string
		description    string
		applicationURL string
		salaryMin      sql.NullFloat64
		salaryMax      sql.NullFloat64
		currency       string
		requirements   sql.NullString
		statusStr      string
		source         string
		datePosted     sql.NullString
		dateAdded      sql.NullString
		dateApplied    sql.NullString
		tags           sql.NullString
		metadata       sql.NullString
		createdRaw     string
		updatedRaw     string
	)
	if err := scanner.Scan(
		&id, &userID, &originalID, &title, &company, &location, &description,
		&applicationURL, &salaryMin, &salaryMax, &currency, &requirements,
		&statusStr, &source, &datePosted, &dateAdded, &dateApplied, &tags,
		&metadata, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:             id,
		UserID:         userID,
		OriginalID:     originalID,
		Title:          title,
		Company:        company,
		Location:       location,
		Description:    description,
		ApplicationURL: applicationURL,
		SalaryMin:      floatPtrFromNull(salaryMin),
		SalaryMax:      floatPtrFromNull(salaryMax),
		Currency:       currency,
		Requirements:   unmarshalRequirements(requirements.String),
		Status:         canonical.Status(statusStr),
		Source:         source,
		DatePosted:     timePtrFromNull(datePosted),
		DateAdded:      timePtrFromNull(dateAdded),
		DateApplied:    timePtrFromNull(dateApplied),
		Tags:           unmarshalJSONList(tags.String),
		Metadata:       unmarshalJSONMap(metadata.String),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = updated
	}
	return job, nil
}

func scanApplication(scanner rowScanner) (*Application, error) {
	var (
		id         int64
		jobID      int64
		userID     int64
		statusStr  string
		appliedAt  sql.NullString
		notes      string
		documents  sql.NullString
		metadata   sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &jobID, &userID, &statusStr, &appliedAt, &notes, &documents, &metadata, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	app := &Application{
		ID:        id,
		JobID:     jobID,
		UserID:    userID,
		Status:    canonical.Status(statusStr),
		AppliedAt: timePtrFromNull(appliedAt),
		Notes:     notes,
		Documents: unmarshalJSONList(documents.String),
		Metadata:  unmarshalJSONMap(metadata.String),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		app.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		app.UpdatedAt = updated
	}
	return app, nil
}

func scanDocument(scanner rowScanner) (*Document, error) {
	var (
		id           int64
		userID       int64
		filename     string
		originalName string
		storagePath  string
		documentType string
		mimeType     string
		sizeBytes    int64
		source       string
		metadata     sql.NullString
		createdRaw   string
	)
	if err := scanner.Scan(&id, &userID, &filename, &originalName, &storagePath, &documentType, &mimeType, &sizeBytes, &source, &metadata, &createdRaw); err != nil {
		return nil, err
	}

	doc := &Document{
		ID:               id,
		UserID:           userID,
		Filename:         filename,
		OriginalFilename: originalName,
		StoragePath:      storagePath,
		DocumentType:     documentType,
		MimeType:         mimeType,
		SizeBytes:        sizeBytes,
		Source:           source,
		Metadata:         unmarshalJSONMap(metadata.String),
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		doc.CreatedAt = created
	}
	return doc, nil
}
