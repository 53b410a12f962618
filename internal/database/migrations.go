package database

type migration struct {
	version int
	name    string
	sql     string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// migrations are applied in order; version n is migrations[n-1].
var migrations = []migration{
	{1, "documents", migrationV1Documents},
	{2, "imports", migrationV2Imports},
}

// migrationV1Documents creates the document table. A document is one
// reference file: the Proprium, a missal edition, the decree log, an
// overlay or the diocese index. Bodies are stored as the JSON the engine
// decodes; the checksum lets an import skip unchanged rows.
const migrationV1Documents = `
CREATE TABLE documents (
    kind TEXT NOT NULL CHECK (kind IN (
        'proprium', 'missal', 'decrees',
        'wider_region', 'national', 'diocesan', 'diocese_index'
    )),
    id TEXT NOT NULL,
    body TEXT NOT NULL CHECK (json_valid(body)),
    checksum TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (kind, id)
);

CREATE INDEX idx_documents_kind ON documents(kind);
`

// migrationV2Imports records each import run.
const migrationV2Imports = `
CREATE TABLE imports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    origin TEXT NOT NULL,
    inserted INTEGER NOT NULL DEFAULT 0,
    updated INTEGER NOT NULL DEFAULT 0,
    unchanged INTEGER NOT NULL DEFAULT 0,
    removed INTEGER NOT NULL DEFAULT 0,
    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
