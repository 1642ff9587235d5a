package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"jobvault/internal/canonical"
	"jobvault/internal/config"
	"jobvault/internal/logging"
	"jobvault/internal/migrate"
	"jobvault/internal/store"
	"jobvault/internal/testsupport"
)

func seedBothSources(t *testing.T, cfg *config.Config) {
	t.Helper()
	testsupport.SeedJobtrackSnapshot(t, cfg.Sources.Jobtrack.Snapshot,
		testsupport.Stmt{
			SQL: `INSERT INTO jobs (id, title, company, status, salary, date_applied, description, tags)
			      VALUES (1, 'Sr. Software Engineer', 'Acme Corp', 'applied', '$90,000 - $120,000', '2024-01-10', 'Go backend role', 'backend')`,
		},
		testsupport.Stmt{
			SQL: `INSERT INTO jobs (id, title, company, status) VALUES (2, 'Data Analyst', 'Globex', 'saved')`,
		},
	)
	testsupport.SeedContractflowSnapshot(t, cfg.Sources.Contractflow.Snapshot,
		testsupport.Stmt{
			SQL: `INSERT INTO contracts (id, user_id, client_company, role_title, status, created_at, signed_at)
			      VALUES (1, NULL, 'Acme', 'Senior Software Engineer', 'signed', '2024-01-15', '2024-02-01')`,
		},
	)
}

func openRunStore(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, cfg)
}

func TestRunMigratesAndDeduplicatesAcrossSources(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedBothSources(t, cfg)
	uploads := cfg.Sources.Jobtrack.UploadsDir
	if err := os.MkdirAll(filepath.Join(uploads, "resumes"), 0o755); err != nil {
		t.Fatalf("mkdir uploads: %v", err)
	}
	if err := os.WriteFile(filepath.Join(uploads, "resumes", "resume.pdf"), []byte("resume"), 0o644); err != nil {
		t.Fatalf("write upload: %v", err)
	}

	st := openRunStore(t, cfg)
	orchestrator := migrate.New(cfg, st, logging.NewNop())
	report, err := orchestrator.Run(context.Background(), migrate.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.RunID == "" {
		t.Fatal("expected a run id")
	}
	jt := report.Sources["jobtrack"]
	if jt == nil || jt.JobsExtracted != 2 || jt.JobsImported != 2 {
		t.Fatalf("unexpected jobtrack report %+v", jt)
	}
	if jt.FilesMigrated != 1 || jt.DocumentsImported != 1 {
		t.Fatalf("expected the resume to migrate, got %+v", jt)
	}
	cf := report.Sources["contractflow"]
	if cf == nil || cf.JobsExtracted != 1 || cf.JobsImported != 1 {
		t.Fatalf("unexpected contractflow report %+v", cf)
	}
	if !report.Dedupe.Ran || report.Dedupe.DuplicatesMerged != 1 {
		t.Fatalf("expected one merged duplicate, got %+v", report.Dedupe)
	}

	ctx := context.Background()
	jobs, err := st.ListJobs(ctx, 0)
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs after dedupe, got %d", len(jobs))
	}
	var acme *store.Job
	for _, job := range jobs {
		if strings.Contains(strings.ToLower(job.Company), "acme") {
			acme = job
		}
	}
	if acme == nil {
		t.Fatal("expected the Acme job to survive")
	}
	if acme.Status != canonical.StatusOfferReceived {
		t.Fatalf("expected the signed contract's status to win, got %s", acme.Status)
	}
	wantApplied := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if acme.DateApplied == nil || !acme.DateApplied.Equal(wantApplied) {
		t.Fatalf("expected date_applied to follow the adopted status, got %v", acme.DateApplied)
	}
	if acme.SalaryMin == nil || *acme.SalaryMin != 90000 {
		t.Fatalf("expected the jobtrack salary to survive the merge, got %v", acme.SalaryMin)
	}

	if report.Validation == nil {
		t.Fatal("expected a validation report")
	}
	if report.Validation.Totals.Jobs != 2 {
		t.Fatalf("unexpected validation totals %+v", report.Validation.Totals)
	}
	if report.Validation.DataQuality["salary"] != 50.0 {
		t.Fatalf("expected 50.0%% salary coverage, got %v", report.Validation.DataQuality["salary"])
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedBothSources(t, cfg)

	st := openRunStore(t, cfg)
	orchestrator := migrate.New(cfg, st, logging.NewNop())
	report, err := orchestrator.Run(context.Background(), migrate.RunOptions{DryRun: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !report.DryRun {
		t.Fatal("expected dry-run flag in report")
	}
	if report.Sources["jobtrack"].JobsExtracted != 2 {
		t.Fatalf("expected extraction counts in dry run, got %+v", report.Sources["jobtrack"])
	}
	if report.Sources["jobtrack"].JobsImported != 0 {
		t.Fatal("expected no imports in dry run")
	}

	ctx := context.Background()
	totals, err := st.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Jobs != 0 || totals.Users != 0 || totals.Documents != 0 {
		t.Fatalf("expected untouched store after dry run, got %+v", totals)
	}
}

func TestRunSkipsMissingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// Only contractflow gets a snapshot; jobtrack's file never existed.
	testsupport.SeedContractflowSnapshot(t, cfg.Sources.Contractflow.Snapshot,
		testsupport.Stmt{
			SQL: `INSERT INTO contracts (id, user_id, client_company, role_title, status) VALUES (1, NULL, 'Acme', 'Engineer', 'sent')`,
		},
	)

	st := openRunStore(t, cfg)
	orchestrator := migrate.New(cfg, st, logging.NewNop())
	report, err := orchestrator.Run(context.Background(), migrate.RunOptions{})
	if err != nil {
		t.Fatalf("expected missing snapshot to be survivable, got %v", err)
	}

	jt := report.Sources["jobtrack"]
	if jt == nil || !jt.Skipped || len(jt.Errors) == 0 {
		t.Fatalf("expected jobtrack to be skipped with an error note, got %+v", jt)
	}
	if report.Sources["contractflow"].JobsImported != 1 {
		t.Fatalf("expected contractflow to proceed, got %+v", report.Sources["contractflow"])
	}
}

func TestRunSourceWithRealUsersGainsNoSyntheticAccount(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Sources.Jobtrack.Enabled = false
	testsupport.SeedContractflowSnapshot(t, cfg.Sources.Contractflow.Snapshot,
		testsupport.Stmt{
			SQL: `INSERT INTO users (id, email, full_name) VALUES (7, 'dana@example.com', 'Dana Reyes')`,
		},
		testsupport.Stmt{
			SQL: `INSERT INTO contracts (id, user_id, client_company, role_title, status) VALUES (1, 7, 'Acme', 'Engineer', 'sent')`,
		},
	)

	st := openRunStore(t, cfg)
	orchestrator := migrate.New(cfg, st, logging.NewNop())
	report, err := orchestrator.Run(context.Background(), migrate.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Sources["contractflow"].UsersImported != 1 {
		t.Fatalf("expected the real user imported, got %+v", report.Sources["contractflow"])
	}

	ctx := context.Background()
	count, err := st.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the real account, got %d users", count)
	}
	synthetic, err := st.UserByEmail(ctx, "imported@jobvault.local")
	if err != nil {
		t.Fatalf("lookup default user: %v", err)
	}
	if synthetic != nil {
		t.Fatalf("expected no synthetic account, got %v", synthetic)
	}
}

func TestRunRefusesConcurrentRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	holder := flock.New(cfg.LockPath())
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire lock for test: %v", err)
	}
	defer holder.Unlock()

	st := openRunStore(t, cfg)
	orchestrator := migrate.New(cfg, st, logging.NewNop())
	if _, err := orchestrator.Run(context.Background(), migrate.RunOptions{}); err == nil {
		t.Fatal("expected a held lock to refuse the run")
	}
}

func TestRunSkipDedupeLeavesDuplicates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedBothSources(t, cfg)

	st := openRunStore(t, cfg)
	orchestrator := migrate.New(cfg, st, logging.NewNop())
	report, err := orchestrator.Run(context.Background(), migrate.RunOptions{SkipDedupe: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Dedupe.Ran {
		t.Fatal("expected dedupe to be skipped")
	}

	totals, err := st.Totals(context.Background())
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Jobs != 3 {
		t.Fatalf("expected all 3 imported jobs to remain, got %d", totals.Jobs)
	}
}
