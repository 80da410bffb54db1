// Package storage persists trained forests for reuse across runs. It
// uses BoltDB as the underlying engine: one models bucket, one JSON
// payload per model name, each payload carrying the forest together
// with its training report so cross-validation metadata survives the
// round trip.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"

	"emg-forest/internal/common"
	"emg-forest/internal/forest"
)

const modelsBucket = "models" // Bucket name for serialized model payloads

// Store provides persistent model storage backed by BoltDB.
type Store struct {
	db   *bbolt.DB
	path string
}

// Open opens (or creates) the model database at the given path and
// ensures the models bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open model database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(modelsBucket)); err != nil {
			return fmt.Errorf("create models bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection gracefully.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveModel stores a training report under the given model name. The
// forest is validated first so an invalid model is never persisted.
func (s *Store) SaveModel(name string, report *forest.Report) error {
	if report == nil || report.Forest == nil {
		return fmt.Errorf("save model %q: nil report or forest", name)
	}
	if err := report.Forest.Validate(); err != nil {
		return fmt.Errorf("save model %q: %w", name, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(modelsBucket))
		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal model: %w", err)
		}
		if err := b.Put([]byte(name), data); err != nil {
			return err
		}
		log.Info().Str("model", name).Int("bytes", len(data)).Msg("model saved")
		return nil
	})
}

// LoadModel restores a training report by model name. Missing, corrupt
// or foreign payloads, and payloads whose forest violates tree
// invariants, fail with a DeserializationError — a partially populated
// forest is never returned.
func (s *Store) LoadModel(name string) (*forest.Report, error) {
	var report forest.Report
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(modelsBucket))
		data := b.Get([]byte(name))
		if data == nil {
			return &common.DeserializationError{Path: s.path, Reason: fmt.Sprintf("model %q not found", name)}
		}
		if err := json.Unmarshal(data, &report); err != nil {
			return &common.DeserializationError{Path: s.path, Reason: err.Error()}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if report.Forest == nil {
		return nil, &common.DeserializationError{Path: s.path, Reason: "payload has no forest"}
	}
	if err := report.Forest.Validate(); err != nil {
		return nil, &common.DeserializationError{Path: s.path, Reason: err.Error()}
	}
	return &report, nil
}

// Save is a one-shot convenience: open the database at path, store the
// report under name, close.
func Save(path, name string, report *forest.Report) error {
	s, err := Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveModel(name, report)
}

// Load is the one-shot counterpart of Save. A file that is not a model
// database at all is a deserialization failure, not an I/O error.
func Load(path, name string) (*forest.Report, error) {
	s, err := Open(path)
	if err != nil {
		return nil, &common.DeserializationError{Path: path, Reason: err.Error()}
	}
	defer s.Close()
	return s.LoadModel(name)
}
