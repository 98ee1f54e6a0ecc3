package mysql

// Schema is applied statement by statement; the driver DSN need not allow multiStatements.
var schemaSQL = []string{
	`
CREATE TABLE IF NOT EXISTS collections (
  name       VARCHAR(64) NOT NULL PRIMARY KEY,
  created_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`
CREATE TABLE IF NOT EXISTS documents (
  seq        BIGINT      NOT NULL AUTO_INCREMENT PRIMARY KEY,
  id         CHAR(36)    NOT NULL,
  collection VARCHAR(64) NOT NULL,
  body       JSON        NOT NULL,
  created_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE KEY uq_documents_id (id),
  KEY idx_documents_collection (collection, seq)
)`,
}

const ensureCollectionSQL = `INSERT IGNORE INTO collections (name) VALUES (?)`

// Row lock on the collection entry serializes concurrent seeders.
const lockCollectionSQL = `SELECT name FROM collections WHERE name = ? FOR UPDATE`

const insertDocumentSQL = `
INSERT INTO documents (id, collection, body)
VALUES (?, ?, ?)
`

const countDocumentsSQL = `SELECT COUNT(*) FROM documents WHERE collection = ?`

const listCollectionsSQL = `SELECT name FROM collections ORDER BY name`

// Prefix for Find; compileFilter appends predicates and the ORDER BY.
const findDocumentsPrefix = "SELECT body FROM documents WHERE collection = ?"
