package db

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/buildops/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/dataset.yaml
var datasetYAML []byte

const datasetSeedName = "dataset-v1"

// Dataset maps each entity kind to its raw records.
type Dataset map[domain.Kind][]map[string]any

// LoadDataset decodes the embedded fixture dataset.
func LoadDataset() (Dataset, error) {
	return ParseDataset(datasetYAML)
}

// ParseDataset decodes a YAML document keyed by entity kind. Every record
// must carry an id with the kind's prefix.
func ParseDataset(doc []byte) (Dataset, error) {
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	out := make(Dataset, len(raw))
	for name, records := range raw {
		kind, err := domain.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("dataset section %q: %w", name, err)
		}
		for i, rec := range records {
			id, _ := rec["id"].(string)
			if err := kind.ValidateID(id); err != nil {
				return nil, fmt.Errorf("dataset %s[%d]: %w", name, i, err)
			}
		}
		out[kind] = records
	}
	return out, nil
}

// Seed loads the embedded dataset into an empty store. It runs at most once
// per database: a marker row in seed_runs makes later calls no-ops, so
// records deleted by the user stay deleted across restarts.
func Seed(ctx context.Context, conn *sql.DB) error {
	ds, err := LoadDataset()
	if err != nil {
		return err
	}
	return SeedDataset(ctx, conn, datasetSeedName, ds)
}

// SeedDataset inserts ds under the given marker name.
func SeedDataset(ctx context.Context, conn *sql.DB, name string, ds Dataset) error {
	uow := NewSQLiteUnitOfWork(conn)
	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO seed_runs (name) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("marking seed run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		for _, kind := range domain.AllKinds() {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO id_sequences (kind, prefix, next_seq) VALUES (?, ?, 1)`,
				string(kind), kind.Prefix()); err != nil {
				return fmt.Errorf("registering %s sequence: %w", kind, err)
			}
			for _, rec := range ds[kind] {
				body, err := json.Marshal(rec)
				if err != nil {
					return fmt.Errorf("encoding %s record: %w", kind, err)
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO records (kind, id, body) VALUES (?, ?, ?)`,
					string(kind), rec["id"], string(body)); err != nil {
					return fmt.Errorf("inserting %s %v: %w", kind, rec["id"], err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seeding %s: %w", name, err)
	}
	return migrateBackfillSequences(conn)
}
