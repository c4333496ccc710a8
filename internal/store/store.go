// Package store provides optional persistent storage for the flood
// monitoring service. It uses BoltDB to keep a local trail of fetched river
// levels and risk assessments, which the dashboard uses for its status line
// and as a degraded history series when the backend is unreachable.
//
// The store is optional: the service runs without it when no data path is
// configured.
package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	riverLevelsBucket = "river_levels" // Bucket for gauge readings
	riskEventsBucket  = "risk_events"  // Bucket for risk assessments
)

// RiverLevelRecord is one persisted gauge reading.
type RiverLevelRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Level     float64   `json:"level"`
	Unit      string    `json:"unit"`
}

// RiskRecord is one persisted risk assessment.
type RiskRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
	Level      string    `json:"level"`
	Confidence float64   `json:"confidence,omitempty"`
}

// Store persists fetched flood data using BoltDB.
type Store struct {
	db *bbolt.DB
}

// New creates a store backed by a database file under dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "floodwatch-data.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(riverLevelsBucket)); err != nil {
			return fmt.Errorf("create river levels bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(riskEventsBucket)); err != nil {
			return fmt.Errorf("create risk events bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection gracefully.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StoreRiverLevel appends a gauge reading, keyed by timestamp for ordered
// range scans.
func (s *Store) StoreRiverLevel(rec RiverLevelRecord) error {
	return s.put(riverLevelsBucket, rec.Timestamp, rec)
}

// StoreRisk appends a risk assessment.
func (s *Store) StoreRisk(rec RiskRecord) error {
	return s.put(riskEventsBucket, rec.Timestamp, rec)
}

func (s *Store) put(bucket string, ts time.Time, v any) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}

		return b.Put(key(ts), data)
	})
}

// RiverLevels retrieves gauge readings within a time range, oldest first.
// The range is inclusive of both ends.
func (s *Store) RiverLevels(start, end time.Time) ([]RiverLevelRecord, error) {
	var records []RiverLevelRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(riverLevelsBucket)).Cursor()

		min, max := key(start), key(end)
		for k, v := c.Seek(min); k != nil && string(k) <= string(max); k, v = c.Next() {
			var rec RiverLevelRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue // Skip malformed records
			}
			records = append(records, rec)
		}
		return nil
	})

	return records, err
}

// RecentRiverLevels returns up to n of the most recent gauge readings,
// oldest first.
func (s *Store) RecentRiverLevels(n int) ([]RiverLevelRecord, error) {
	var records []RiverLevelRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(riverLevelsBucket)).Cursor()

		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var rec RiverLevelRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				continue
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cursor walked backwards; restore chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Counts reports how many river-level and risk records are persisted.
func (s *Store) Counts() (riverLevels, riskEvents int, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		riverLevels = tx.Bucket([]byte(riverLevelsBucket)).Stats().KeyN
		riskEvents = tx.Bucket([]byte(riskEventsBucket)).Stats().KeyN
		return nil
	})
	return riverLevels, riskEvents, err
}

// key formats a timestamp as a fixed-width sortable bucket key.
func key(ts time.Time) []byte {
	return []byte(fmt.Sprintf("%020d", ts.UnixNano()))
}
