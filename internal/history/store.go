package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// CacheEntry is a cached analysis result, keyed by a hash of the submitted
// media and owner context.
type CacheEntry struct {
	Behavior    string
	Explanation string
	Tip         string
}

// Store persists per-user history snapshots and the analysis cache.
type Store interface {
	// Load returns the user's history, newest first. A missing or unreadable
	// snapshot yields an empty history, never an error visible to the user.
	Load(userID int64) ([]Item, error)
	// Save overwrites the user's persisted snapshot with items.
	Save(userID int64, items []Item) error
	// Clear removes the user's snapshot.
	Clear(userID int64) error

	GetAnalysisCache(hash string) (*CacheEntry, error)
	SetAnalysisCache(hash string, entry *CacheEntry) error

	Close() error
}

// SQLiteStore implements Store on a local SQLite database. When an
// encryption key is set, snapshots are sealed with AES-GCM at rest.
type SQLiteStore struct {
	db            *sql.DB
	encryptionKey []byte
	mu            sync.RWMutex
}

// NewSQLiteStore opens (and if needed creates) the database at dbPath.
// encryptionKey may be nil for plaintext snapshots.
func NewSQLiteStore(dbPath string, encryptionKey []byte) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, encryptionKey: encryptionKey}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	snapshotsQuery := `
	CREATE TABLE IF NOT EXISTS history_snapshots (
		telegram_id INTEGER PRIMARY KEY,
		snapshot TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(snapshotsQuery); err != nil {
		return fmt.Errorf("failed to create history_snapshots table: %w", err)
	}

	cacheQuery := `
	CREATE TABLE IF NOT EXISTS analysis_cache (
		media_hash TEXT PRIMARY KEY,
		behavior TEXT NOT NULL,
		explanation TEXT NOT NULL,
		tip TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(cacheQuery); err != nil {
		return fmt.Errorf("failed to create analysis_cache table: %w", err)
	}
	return nil
}

// Load implements Store. Corrupt snapshots (bad JSON, undecryptable blob)
// are logged and treated as an empty history so a broken row can never
// wedge the bot for that user.
func (s *SQLiteStore) Load(userID int64) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshot string
	err := s.db.QueryRow(
		"SELECT snapshot FROM history_snapshots WHERE telegram_id = ?", userID,
	).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history snapshot: %w", err)
	}

	raw := []byte(snapshot)
	if s.encryptionKey != nil {
		raw, err = decrypt(snapshot, s.encryptionKey)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("undecryptable history snapshot, starting empty")
			return nil, nil
		}
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("corrupt history snapshot, starting empty")
		return nil, nil
	}
	return items, nil
}

// Save implements Store. The snapshot is written wholesale; there are no
// incremental updates.
func (s *SQLiteStore) Save(userID int64, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	snapshot := string(raw)
	if s.encryptionKey != nil {
		snapshot, err = encrypt(raw, s.encryptionKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt history: %w", err)
		}
	}

	_, err = s.db.Exec(`
		INSERT INTO history_snapshots (telegram_id, snapshot, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(telegram_id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`, userID, snapshot, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save history snapshot: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM history_snapshots WHERE telegram_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// GetAnalysisCache implements Store. A miss returns (nil, nil).
func (s *SQLiteStore) GetAnalysisCache(hash string) (*CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry CacheEntry
	err := s.db.QueryRow(
		"SELECT behavior, explanation, tip FROM analysis_cache WHERE media_hash = ?", hash,
	).Scan(&entry.Behavior, &entry.Explanation, &entry.Tip)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis cache: %w", err)
	}
	return &entry, nil
}

// SetAnalysisCache implements Store.
func (s *SQLiteStore) SetAnalysisCache(hash string, entry *CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO analysis_cache (media_hash, behavior, explanation, tip)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(media_hash) DO UPDATE SET
			behavior = excluded.behavior,
			explanation = excluded.explanation,
			tip = excluded.tip
	`, hash, entry.Behavior, entry.Explanation, entry.Tip)
	if err != nil {
		return fmt.Errorf("failed to write analysis cache: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
