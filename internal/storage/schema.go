package storage

const schema = `
-- Vocabulary items. Deleted items stay as tombstones (is_deleted = 1) until a
-- sync round has uploaded them, then they are purged.
CREATE TABLE IF NOT EXISTS vocabulary (
    id TEXT PRIMARY KEY,
    source_text TEXT NOT NULL,
    target_text TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    notes TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'new',
    version INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    is_deleted INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_vocabulary_updated_at ON vocabulary(updated_at);

-- One review record per vocabulary item, stored separately from the item.
CREATE TABLE IF NOT EXISTS reviews (
    vocab_id TEXT PRIMARY KEY,
    ease_factor REAL NOT NULL DEFAULT 2.5,
    interval_days INTEGER NOT NULL DEFAULT 0,
    repetition INTEGER NOT NULL DEFAULT 0,
    next_review_date INTEGER NOT NULL DEFAULT 0,
    total_reviews INTEGER NOT NULL DEFAULT 0,
    correct_count INTEGER NOT NULL DEFAULT 0,
    incorrect_count INTEGER NOT NULL DEFAULT 0,
    forward_correct INTEGER NOT NULL DEFAULT 0,
    forward_incorrect INTEGER NOT NULL DEFAULT 0,
    reverse_correct INTEGER NOT NULL DEFAULT 0,
    reverse_incorrect INTEGER NOT NULL DEFAULT 0,
    last_review_date INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reviews_next_review_date ON reviews(next_review_date);

-- Daily activity keyed by the device-local date. updated_at is NULL on legacy rows.
CREATE TABLE IF NOT EXISTS daily_stats (
    date TEXT PRIMARY KEY,
    cards_reviewed INTEGER NOT NULL DEFAULT 0,
    new_words_added INTEGER NOT NULL DEFAULT 0,
    accuracy_rate REAL NOT NULL DEFAULT 0,
    updated_at INTEGER
);

-- Small key/value table for sync cursor, device identity and sync settings.
CREATE TABLE IF NOT EXISTS sync_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
