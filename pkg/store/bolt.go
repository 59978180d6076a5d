package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/goliatone/go-settingsgen/internal/logger"
	"github.com/goliatone/go-settingsgen/pkg/model"
)

// Bolt keeps the record in a bbolt bucket named after the scope, one
// JSON-encoded value per key.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
	logger *logger.Logger
}

var _ Store = (*Bolt)(nil)

// NewBolt opens (or creates) the bbolt file at path and ensures the scope
// bucket exists.
func NewBolt(path, scope string, opts ...Option) (*Bolt, error) {
	if scope == "" {
		scope = DefaultScope
	}
	cfg := newOptions(opts)
	log := cfg.logger.Component("bolt")

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt %s: %w", path, err)
	}

	bucket := []byte(scope)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create bucket %q: %w", scope, err)
	}
	log.Debug().Str("path", path).Str("bucket", scope).Msg("bolt store opened")

	return &Bolt{db: db, bucket: bucket, logger: log}, nil
}

func (s *Bolt) Load(ctx context.Context) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := model.Record{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("retrieve bucket %q", s.bucket)
		}
		return b.ForEach(func(k, v []byte) error {
			value, err := decodeValue(string(k), v)
			if err != nil {
				return err
			}
			record[string(k)] = value
			return nil
		})
	})
	if err != nil {
		return nil, s.wrap("load", err)
	}
	return record, nil
}

func (s *Bolt) Save(ctx context.Context, record model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("retrieve bucket %q", s.bucket)
		}
		for key, value := range record {
			data, err := encodeValue(key, value)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(key), data); err != nil {
				return fmt.Errorf("put %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return s.wrap("save", err)
	}
	s.logger.Debug().Str("bucket", string(s.bucket)).Int("keys", len(record)).Msg("settings saved")
	return nil
}

func (s *Bolt) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("retrieve bucket %q", s.bucket)
		}
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return fmt.Errorf("delete %q: %w", key, err)
			}
		}
		return nil
	})
	return s.wrap("delete", err)
}

func (s *Bolt) Close() error {
	return s.db.Close()
}

func (s *Bolt) wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bolt.ErrDatabaseNotOpen):
		return fmt.Errorf("%w: %s", ErrClosed, op)
	case errors.Is(err, ErrEncode), errors.Is(err, ErrDecode):
		return err
	default:
		return fmt.Errorf("store: %s settings: %w", op, err)
	}
}
