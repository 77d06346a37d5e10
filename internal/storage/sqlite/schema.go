// ABOUTME: SQLite database schema for conversation memory
// ABOUTME: Events hold individual turns; summaries hold one row per session
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Conversation events, one row per turn; seq gives insertion order
CREATE TABLE IF NOT EXISTS events (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    memory_id TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('USER', 'ASSISTANT', 'TOOL')),
    content TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

-- Session summaries, one row per (memory, actor, session); namespace is a label only
CREATE TABLE IF NOT EXISTS summaries (
    memory_id TEXT NOT NULL,
    namespace TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    content TEXT NOT NULL,
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (memory_id, actor_id, session_id)
);

CREATE INDEX IF NOT EXISTS idx_events_session ON events(memory_id, actor_id, session_id, seq);
CREATE UNIQUE INDEX IF NOT EXISTS idx_summaries_session ON summaries(memory_id, actor_id, session_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 2
