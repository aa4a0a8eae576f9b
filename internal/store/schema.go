package store

const schema = `
CREATE TABLE IF NOT EXISTS wrappers (
    short_name TEXT PRIMARY KEY,
    app_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    origin TEXT,
    scope TEXT,
    has_native_conflict BOOLEAN NOT NULL DEFAULT 0,
    stale BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_wrappers_app_id ON wrappers(app_id);

CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP NOT NULL,
    dry_run BOOLEAN NOT NULL,
    created INTEGER NOT NULL,
    updated INTEGER NOT NULL,
    removed INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    stale INTEGER NOT NULL
);
`
