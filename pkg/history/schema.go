package history

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history schema.
const Schema = `
-- Routing decisions, one row per emitted decision
CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    model_id TEXT NOT NULL,
    provider_id TEXT NOT NULL,
    strategy TEXT NOT NULL,
    rule_id TEXT,
    reason TEXT NOT NULL,
    estimated_cost_usd REAL NOT NULL,
    estimated_latency_ms INTEGER NOT NULL,
    confidence REAL NOT NULL,
    fallbacks TEXT,
    tenant_id TEXT,
    user_id TEXT,
    task_type TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at);
CREATE INDEX IF NOT EXISTS idx_decisions_tenant ON decisions(tenant_id, created_at);

-- Raw invocation outcomes, the source of windowed aggregates
CREATE TABLE IF NOT EXISTS outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    model_id TEXT NOT NULL,
    latency_ms INTEGER NOT NULL,
    success INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_model_created ON outcomes(model_id, created_at);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);
`
