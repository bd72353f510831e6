package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs: one row per invocation of the download command
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    output_dir TEXT NOT NULL,
    url_count INTEGER NOT NULL,
    saved_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    skipped_count INTEGER DEFAULT 0,
    keep_going BOOLEAN DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running' -- running, success, partial_failure, failed, aborted
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

-- Listings: every listing URL ever seen, keyed by the URL as given
CREATE TABLE IF NOT EXISTS listings (
    listing_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    zpid INTEGER NOT NULL,
    address TEXT NOT NULL,
    folder_name TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_listings_folder ON listings(folder_name);
CREATE INDEX IF NOT EXISTS idx_listings_zpid ON listings(zpid);

-- Attempts: one row per URL processed in a run
CREATE TABLE IF NOT EXISTS attempts (
    attempt_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    listing_id INTEGER,               -- NULL when the URL never parsed
    url TEXT NOT NULL,
    status TEXT NOT NULL,             -- saved, failed, skipped
    stage TEXT,                       -- parse, fetch, save (failed attempts only)
    status_code INTEGER,
    error_message TEXT,
    final_url TEXT,
    file_path TEXT,
    size_bytes INTEGER,
    content_hash TEXT,
    page_title TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    FOREIGN KEY (listing_id) REFERENCES listings(listing_id)
);

CREATE INDEX IF NOT EXISTS idx_attempts_run ON attempts(run_id);
CREATE INDEX IF NOT EXISTS idx_attempts_listing ON attempts(listing_id);
CREATE INDEX IF NOT EXISTS idx_attempts_status ON attempts(status);
`
