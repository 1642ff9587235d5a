package testsupport

import (
	"context"
	"testing"

	"jobvault/internal/config"
	"jobvault/internal/store"
)

// MustOpenStore opens the target store for the provided configuration and
// registers cleanup with the test.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	st, err := store.Open(cfg.Paths.TargetDB)
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

// MustInsertUser persists a user through a single batch and returns it with
// its assigned identifier.
func MustInsertUser(t testing.TB, st *store.Store, user *store.User) *store.User {
	t.Helper()

	ctx := context.Background()
	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin batch: %v", err)
	}
	if err := batch.InsertUser(ctx, user); err != nil {
		batch.Rollback()
		t.Fatalf("insert user: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit user: %v", err)
	}
	return user
}

// MustInsertJob persists a job through a single batch and returns it with
// its assigned identifier.
func MustInsertJob(t testing.TB, st *store.Store, job *store.Job) *store.Job {
	t.Helper()

	ctx := context.Background()
	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin batch: %v", err)
	}
	if err := batch.InsertJob(ctx, job); err != nil {
		batch.Rollback()
		t.Fatalf("insert job: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit job: %v", err)
	}
	return job
}

// MustInsertApplication persists an application through a single batch.
func MustInsertApplication(t testing.TB, st *store.Store, app *store.Application) *store.Application {
	t.Helper()

	ctx := context.Background()
	batch, err := st.Begin(ctx)
	if err != nil {
		t.Fatalf("begin batch: %v", err)
	}
	if err := batch.InsertApplication(ctx, app); err != nil {
		batch.Rollback()
		t.Fatalf("insert application: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("commit application: %v", err)
	}
	return app
}
