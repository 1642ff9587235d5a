package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"jobvault/internal/canonical"
	"jobvault/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "jobvault.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func mustCommit(t *testing.T, batch store.Batch) {
	t.Helper()
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestStoreUserRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	user := &store.User{
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
		Source:   string(canonical.SourceJobtrack),
		Profile:  map[string]any{"headline": "analyst"},
	}
	if err := batch.InsertUser(ctx, user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	mustCommit(t, batch)

	if user.ID == 0 {
		t.Fatal("expected assigned user ID")
	}

	fetched, err := st.UserByEmail(ctx, "ADA@example.com")
	if err != nil {
		t.Fatalf("user by email: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected case-insensitive email lookup to match")
	}
	if fetched.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected full name %q", fetched.FullName)
	}
	if fetched.Profile["headline"] != "analyst" {
		t.Fatalf("profile did not round-trip: %#v", fetched.Profile)
	}

	missing, err := st.UserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("user by email: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown email")
	}
}

func TestStoreJobRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	user := &store.User{Email: "owner@example.com", Source: string(canonical.SourceManual)}
	if err := batch.InsertUser(ctx, user); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	min := 90000.0
	max := 120000.0
	posted := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	job := &store.Job{
		UserID:         user.ID,
		OriginalID:     "jobtrack:42",
		Title:          "Senior Software Engineer",
		Company:        "Acme",
		Location:       "Remote",
		Description:    "Build things",
		ApplicationURL: "https://example.com/jobs/42",
		SalaryMin:      &min,
		SalaryMax:      &max,
		Currency:       "USD",
		Requirements: canonical.Requirements{
			Skills:          []string{"Go", "SQL"},
			ExperienceLevel: "senior",
			RemoteOption:    "remote",
		},
		Status:     canonical.StatusApplied,
		Source:     string(canonical.SourceJobtrack),
		DatePosted: &posted,
		Tags:       []string{"backend"},
		Metadata:   map[string]any{"legacy_notes": "from recruiter"},
	}
	if err := batch.InsertJob(ctx, job); err != nil {
		t.Fatalf("insert job: %v", err)
	}
	mustCommit(t, batch)

	fetched, err := st.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected job row")
	}
	if fetched.Title != job.Title || fetched.Company != job.Company {
		t.Fatalf("unexpected job %q at %q", fetched.Title, fetched.Company)
	}
	if fetched.SalaryMin == nil || *fetched.SalaryMin != min {
		t.Fatalf("salary min did not round-trip: %v", fetched.SalaryMin)
	}
	if fetched.Status != canonical.StatusApplied {
		t.Fatalf("unexpected status %s", fetched.Status)
	}
	if fetched.DatePosted == nil || !fetched.DatePosted.Equal(posted) {
		t.Fatalf("date posted did not round-trip: %v", fetched.DatePosted)
	}
	if len(fetched.Requirements.Skills) != 2 {
		t.Fatalf("requirements did not round-trip: %#v", fetched.Requirements)
	}
	if len(fetched.Tags) != 1 || fetched.Tags[0] != "backend" {
		t.Fatalf("tags did not round-trip: %#v", fetched.Tags)
	}
}

func TestStoreListJobsFiltersByOwner(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	first := &store.User{Email: "first@example.com", Source: string(canonical.SourceManual)}
	second := &store.User{Email: "second@example.com", Source: string(canonical.SourceManual)}
	for _, user := range []*store.User{first, second} {
		if err := batch.InsertUser(ctx, user); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}
	for i, owner := range []*store.User{first, first, second} {
		job := &store.Job{
			UserID:  owner.ID,
			Title:   "Engineer",
			Company: "Acme",
			Status:  canonical.StatusNotApplied,
			Source:  string(canonical.SourceManual),
		}
		if err := batch.InsertJob(ctx, job); err != nil {
			t.Fatalf("insert job %d: %v", i, err)
		}
	}
	mustCommit(t, batch)

	all, err := st.ListJobs(ctx, 0)
	if err != nil {
		t.Fatalf("list all jobs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID < all[i-1].ID {
			t.Fatal("expected jobs ordered by id")
		}
	}

	mine, err := st.ListJobs(ctx, first.ID)
	if err != nil {
		t.Fatalf("list owner jobs: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 jobs for first owner, got %d", len(mine))
	}
}

func TestStoreRollbackDiscardsBatch(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	user := &store.User{Email: "gone@example.com", Source: string(canonical.SourceManual)}
	if err := batch.InsertUser(ctx, user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if err := batch.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	count, err := st.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty store after rollback, got %d users", count)
	}
}

func TestStoreDeleteJobCascadesApplications(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	user := &store.User{Email: "owner@example.com", Source: string(canonical.SourceManual)}
	if err := batch.InsertUser(ctx, user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	job := &store.Job{
		UserID:  user.ID,
		Title:   "Engineer",
		Company: "Acme",
		Status:  canonical.StatusApplied,
		Source:  string(canonical.SourceJobtrack),
	}
	if err := batch.InsertJob(ctx, job); err != nil {
		t.Fatalf("insert job: %v", err)
	}
	app := &store.Application{
		JobID:  job.ID,
		UserID: user.ID,
		Status: canonical.StatusApplied,
		Notes:  "initial outreach",
	}
	if err := batch.InsertApplication(ctx, app); err != nil {
		t.Fatalf("insert application: %v", err)
	}
	mustCommit(t, batch)

	batch, err = st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := batch.DeleteJob(ctx, job.ID); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	mustCommit(t, batch)

	apps, err := st.ApplicationsByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("applications by job: %v", err)
	}
	if len(apps) != 0 {
		t.Fatalf("expected cascade delete of applications, got %d", len(apps))
	}
}

func TestStoreStats(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	user := &store.User{Email: "owner@example.com", Source: string(canonical.SourceManual)}
	if err := batch.InsertUser(ctx, user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	min := 100000.0
	jobs := []*store.Job{
		{UserID: user.ID, Title: "Engineer", Company: "Acme", Status: canonical.StatusApplied, Source: string(canonical.SourceJobtrack), SalaryMin: &min, ApplicationURL: "https://example.com"},
		{UserID: user.ID, Title: "Engineer II", Company: "Acme", Status: canonical.StatusApplied, Source: string(canonical.SourceContractflow)},
		{UserID: user.ID, Title: "Manager", Company: "Globex", Status: canonical.StatusRejected, Source: string(canonical.SourceJobtrack)},
	}
	for _, job := range jobs {
		if err := batch.InsertJob(ctx, job); err != nil {
			t.Fatalf("insert job: %v", err)
		}
	}
	mustCommit(t, batch)

	totals, err := st.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Jobs != 3 || totals.Users != 1 {
		t.Fatalf("unexpected totals %+v", totals)
	}

	byStatus, err := st.JobCountsByStatus(ctx)
	if err != nil {
		t.Fatalf("counts by status: %v", err)
	}
	if byStatus[canonical.StatusApplied] != 2 || byStatus[canonical.StatusRejected] != 1 {
		t.Fatalf("unexpected status counts %#v", byStatus)
	}

	bySource, err := st.JobCountsBySource(ctx)
	if err != nil {
		t.Fatalf("counts by source: %v", err)
	}
	if bySource[string(canonical.SourceJobtrack)] != 2 {
		t.Fatalf("unexpected source counts %#v", bySource)
	}

	coverage, err := st.JobFieldCoverage(ctx)
	if err != nil {
		t.Fatalf("field coverage: %v", err)
	}
	if coverage.Salary != 1 {
		t.Fatalf("expected one job with salary, got %d", coverage.Salary)
	}
	if coverage.URL != 1 {
		t.Fatalf("expected one job with URL, got %d", coverage.URL)
	}
}

func TestStoreCheckHealth(t *testing.T) {
	st := openTestStore(t)

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("check health: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable {
		t.Fatalf("expected readable database, got %+v", health)
	}
	if !health.TableExists {
		t.Fatal("expected jobs table to exist")
	}
	if len(health.MissingColumns) != 0 {
		t.Fatalf("unexpected missing columns %v", health.MissingColumns)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
}
