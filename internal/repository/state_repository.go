package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abinashpathak707-web/kishore-general-store/internal/db"
	"github.com/jackc/pgx/v5"
)

// Fixed keys for the persisted state records. Absence of a key means an
// empty collection (or no PIN), not an error.
const (
	KeyProducts  = "khata:products"
	KeyCustomers = "khata:customers"
	KeyBills     = "khata:bills"
	KeyPIN       = "khata:pin"
)

// SchemaVersion is written with every record so future shape changes can be
// migrated at the storage boundary instead of trusted implicitly.
const SchemaVersion = 1

// Record is the versioned envelope every state key round-trips through.
type Record struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// StateRepository stores each application collection as one JSON record in
// the khata_state key/value table, written whole on every mutation.
type StateRepository struct {
	DB *db.Postgres
}

// Load reads the record under key into out. A missing key, an empty payload
// or an unknown schema version leaves out at its zero value so the caller
// starts from the empty-state default.
func (r StateRepository) Load(ctx context.Context, key string, out any) error {
	var payload []byte
	err := r.DB.Pool.QueryRow(ctx, `SELECT payload FROM khata_state WHERE key=$1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return fmt.Errorf("decode %s envelope: %w", key, err)
	}
	if rec.Version == 0 || rec.Version > SchemaVersion || len(rec.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(rec.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Save writes data under key, replacing whatever was there.
func (r StateRepository) Save(ctx context.Context, key string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	payload, err := json.Marshal(Record{Version: SchemaVersion, Data: raw})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", key, err)
	}

	_, err = r.DB.Pool.Exec(ctx, `
		INSERT INTO khata_state (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload=EXCLUDED.payload, updated_at=now()
	`, key, payload)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// DeleteAll removes the given keys. Used only by the full data wipe.
func (r StateRepository) DeleteAll(ctx context.Context, keys ...string) error {
	_, err := r.DB.Pool.Exec(ctx, `DELETE FROM khata_state WHERE key = ANY($1)`, keys)
	if err != nil {
		return fmt.Errorf("delete state keys: %w", err)
	}
	return nil
}
