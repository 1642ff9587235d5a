package testsupport

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const jobtrackSchema = `
CREATE TABLE jobs (
    id INTEGER PRIMARY KEY,
    title TEXT,
    company TEXT,
    location TEXT,
    description TEXT,
    url TEXT,
    salary TEXT,
    status TEXT,
    requirements TEXT,
    tags TEXT,
    date_posted TEXT,
    date_added TEXT,
    date_applied TEXT
);
CREATE TABLE notes (
    id INTEGER PRIMARY KEY,
    job_id INTEGER,
    content TEXT,
    created_at TEXT
);
CREATE TABLE contacts (
    id INTEGER PRIMARY KEY,
    job_id INTEGER,
    name TEXT,
    email TEXT,
    role TEXT
);
`

const contractflowSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY,
    email TEXT,
    full_name TEXT,
    profile TEXT
);
CREATE TABLE contracts (
    id INTEGER PRIMARY KEY,
    user_id INTEGER,
    client_company TEXT,
    role_title TEXT,
    description TEXT,
    rate TEXT,
    status TEXT,
    created_at TEXT,
    signed_at TEXT
);
CREATE TABLE analyses (
    id INTEGER PRIMARY KEY,
    contract_id INTEGER,
    summary TEXT,
    risk_score REAL,
    created_at TEXT
);
CREATE TABLE agent_executions (
    id INTEGER PRIMARY KEY,
    analysis_id INTEGER,
    agent_name TEXT,
    output TEXT,
    duration_ms INTEGER
);
`

// Stmt is one seeding statement with positional arguments.
type Stmt struct {
	SQL  string
	Args []any
}

// SeedJobtrackSnapshot writes a jobtrack snapshot with the full legacy
// schema and the provided rows.
func SeedJobtrackSnapshot(t testing.TB, path string, stmts ...Stmt) {
	t.Helper()
	seedSnapshot(t, path, jobtrackSchema, stmts)
}

// SeedContractflowSnapshot writes a contractflow snapshot with the full
// legacy schema and the provided rows.
func SeedContractflowSnapshot(t testing.TB, path string, stmts ...Stmt) {
	t.Helper()
	seedSnapshot(t, path, contractflowSchema, stmts)
}

// SeedRawSnapshot writes a snapshot with caller-supplied schema, used to
// exercise extraction against partial or drifted legacy layouts.
func SeedRawSnapshot(t testing.TB, path, schema string, stmts ...Stmt) {
	t.Helper()
	seedSnapshot(t, path, schema, stmts)
}

func seedSnapshot(t testing.TB, path, schema string, stmts []Stmt) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open snapshot %s: %v", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply snapshot schema: %v", err)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt.SQL, stmt.Args...); err != nil {
			t.Fatalf("seed snapshot row: %v", err)
		}
	}
}
