package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"joblens-engine/internal/dataset"
)

// The archive replaces the source system's "save the cleaned CSV to disk,
// reload it in the other dashboard" handoff: cleaned datasets are persisted
// locally and can be reopened as a fresh session later.

type ArchiveMeta struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Profile   string    `json:"profile"`
	RowCount  int       `json:"rowCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS archives (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  profile TEXT NOT NULL,
  row_count INTEGER NOT NULL,
  columns TEXT NOT NULL,
  records BLOB NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_archives_created_at ON archives(created_at DESC);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveDataset archives a cleaned dataset and prunes the archive down to keep
// entries (newest retained). Records are stored as one JSON blob; datasets
// here are dashboard-sized, not warehouse-sized.
func SaveDataset(ctx context.Context, db *sql.DB, name string, profile dataset.Profile, columns []string, records []dataset.Record, keep int) (int64, error) {
	colsB, err := json.Marshal(columns)
	if err != nil {
		return 0, err
	}
	recsB, err := json.Marshal(records)
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `
INSERT INTO archives (name, profile, row_count, columns, records, created_at)
VALUES (?, ?, ?, ?, ?, ?);`,
		name, string(profile), len(records), string(colsB), recsB,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert archive: %w", err)
	}
	id, _ := res.LastInsertId()

	if keep > 0 {
		// A failed prune leaves extra archives behind; the save itself stands.
		if _, err := db.ExecContext(ctx, `
DELETE FROM archives
WHERE id NOT IN (SELECT id FROM archives ORDER BY id DESC LIMIT ?);`, keep); err != nil {
			log.Printf("[archive] prune to %d failed: %v", keep, err)
		}
	}
	return id, nil
}

func ListDatasets(ctx context.Context, db *sql.DB) ([]ArchiveMeta, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, name, profile, row_count, created_at
FROM archives
ORDER BY id DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArchiveMeta
	for rows.Next() {
		var m ArchiveMeta
		var createdStr string
		if err := rows.Scan(&m.ID, &m.Name, &m.Profile, &m.RowCount, &createdStr); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadDataset rehydrates an archived dataset.
func LoadDataset(ctx context.Context, db *sql.DB, id int64) (ArchiveMeta, []string, []dataset.Record, error) {
	var m ArchiveMeta
	var createdStr, colsJSON string
	var recsB []byte

	err := db.QueryRowContext(ctx, `
SELECT id, name, profile, row_count, columns, records, created_at
FROM archives WHERE id = ?;`, id).
		Scan(&m.ID, &m.Name, &m.Profile, &m.RowCount, &colsJSON, &recsB, &createdStr)
	if err != nil {
		return ArchiveMeta{}, nil, nil, err
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)

	var columns []string
	if err := json.Unmarshal([]byte(colsJSON), &columns); err != nil {
		return ArchiveMeta{}, nil, nil, fmt.Errorf("decode archive columns: %w", err)
	}
	var records []dataset.Record
	if err := json.Unmarshal(recsB, &records); err != nil {
		return ArchiveMeta{}, nil, nil, fmt.Errorf("decode archive records: %w", err)
	}
	return m, columns, records, nil
}
