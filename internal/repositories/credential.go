package repositories

import (
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// CredentialRepository persists credential keys in the credentials table.
//
// It satisfies session.Backend.
type CredentialRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db, now: time.Now}
}

// Load returns the value stored under key.
func (r *CredentialRepository) Load(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query credential: %w", err)
	}
	return value, true, nil
}

// Save upserts every key in values within a single transaction.
func (r *CredentialRepository) Save(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	query := `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := r.now()
	return withTx(r.db, func(tx *sql.Tx) error {
		for _, key := range sortedKeys(values) {
			if _, err := tx.Exec(query, key, values[key], now); err != nil {
				return fmt.Errorf("failed to save credential %s: %w", key, err)
			}
		}
		return nil
	})
}

// Remove deletes keys. Missing keys are ignored.
func (r *CredentialRepository) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return withTx(r.db, func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.Exec(`DELETE FROM credentials WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to remove credential %s: %w", key, err)
			}
		}
		return nil
	})
}

// StoredKey is a credential key and when it was last written. Values are not exposed.
type StoredKey struct {
	Key       string
	UpdatedAt time.Time
}

// List returns the stored keys ordered by name.
func (r *CredentialRepository) List() ([]StoredKey, error) {
	rows, err := r.db.Query(`SELECT key, updated_at FROM credentials ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var keys []StoredKey
	for rows.Next() {
		var k StoredKey
		if err := rows.Scan(&k.Key, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
