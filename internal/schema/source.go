package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/brandonsmith301/text-to-sql/internal/storage"
)

// ErrNotFound reports that the schema-definition document does not exist.
// Callers treat it as "no context available", not as a fault.
var ErrNotFound = errors.New("schema: definition not found")

// Source yields raw schema-definition text for parsing. Load is called on
// every retrieval, so the metadata model is always rebuilt fresh.
type Source interface {
	Load(ctx context.Context) (string, error)
	Ready(ctx context.Context) error
}

// FileSource reads the schema definition from a local file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("schema file path is required")
	}
	return &FileSource{Path: path}, nil
}

func (s *FileSource) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read schema file %q: %w", s.Path, err)
	}
	return string(data), nil
}

func (s *FileSource) Ready(_ context.Context) error {
	if _, err := os.Stat(s.Path); err != nil {
		return fmt.Errorf("schema file %q is not readable: %w", s.Path, err)
	}
	return nil
}

// ObjectSource reads the schema definition from an object store key.
type ObjectSource struct {
	Store storage.ObjectStore
	Key   string
}

func NewObjectSource(store storage.ObjectStore, key string) (*ObjectSource, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("schema object key is required")
	}
	return &ObjectSource{Store: store, Key: strings.TrimSpace(key)}, nil
}

func (s *ObjectSource) Load(ctx context.Context) (string, error) {
	reader, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get schema object %q: %w", s.Key, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read schema object %q: %w", s.Key, err)
	}
	return string(data), nil
}

func (s *ObjectSource) Ready(ctx context.Context) error {
	if _, err := s.Store.Stat(ctx, s.Key); err != nil {
		return fmt.Errorf("schema object %q is not readable: %w", s.Key, err)
	}
	return nil
}
