package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingsgen/internal/logger"
	"github.com/goliatone/go-settingsgen/pkg/model"
)

// YAMLFile keeps the record as a YAML mapping in a single file. Writes go
// through a temporary file and a rename.
type YAMLFile struct {
	mu     sync.Mutex
	path   string
	logger *logger.Logger
}

var _ Store = (*YAMLFile)(nil)

// NewYAMLFile returns a store backed by path. The file is created on the
// first Save.
func NewYAMLFile(path string, opts ...Option) *YAMLFile {
	cfg := newOptions(opts)
	return &YAMLFile{
		path:   filepath.Clean(path),
		logger: cfg.logger.Component("yaml"),
	}
}

func (s *YAMLFile) Load(ctx context.Context) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *YAMLFile) Save(ctx context.Context, record model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	for key, value := range record {
		current[key] = normalizeValue(value)
	}
	return s.write(current)
}

func (s *YAMLFile) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(current, key)
	}
	return s.write(current)
}

func (s *YAMLFile) Close() error { return nil }

func (s *YAMLFile) read() (model.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}

	record := model.Record{}
	if len(bytes.TrimSpace(data)) == 0 {
		return record, nil
	}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, s.path, err)
	}
	return record, nil
}

func (s *YAMLFile) write(record model.Record) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(record)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, s.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store: create directory for %s: %w", s.path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", s.path, err)
	}

	s.logger.Debug().Str("path", s.path).Int("keys", len(record)).Msg("settings written")
	return nil
}
