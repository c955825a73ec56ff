package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/ossim/service/dao"
	"github.com/viant/ossim/service/dao/criteria"
)

// FsStore persists entities as JSON files under baseURL, one file per key.
// baseURL can be any afs URL (file://, mem://, s3://, ...).
type FsStore[K comparable, T any] struct {
	baseURL     string
	fs          afs.Service
	keySelector func(*T) K
	filter      criteria.Filter[T]
	logger      *slog.Logger
	mu          sync.RWMutex
}

var _ dao.Service[string, struct{}] = (*FsStore[string, struct{}])(nil)

// NewFsStore creates a file store rooted at baseURL.
func NewFsStore[K comparable, T any](baseURL string, fs afs.Service, keySelector func(*T) K, filter criteria.Filter[T]) *FsStore[K, T] {
	if fs == nil {
		fs = afs.New()
	}
	return &FsStore[K, T]{
		baseURL:     baseURL,
		fs:          fs,
		keySelector: keySelector,
		filter:      filter,
		logger:      slog.Default(),
	}
}

// Save persists an entity.
func (s *FsStore[K, T]) Save(ctx context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	if emptyKey(key) {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %v: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.entityURL(key)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", URL, err)
	}
	return nil
}

// Load retrieves an entity by key.
func (s *FsStore[K, T]) Load(ctx context.Context, key K) (*T, error) {
	if emptyKey(key) {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	URL := s.entityURL(key)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %v", dao.ErrNotFound, key)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URL, err)
	}
	var ret T
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", URL, err)
	}
	return &ret, nil
}

// Delete removes an entity.
func (s *FsStore[K, T]) Delete(ctx context.Context, key K) error {
	if emptyKey(key) {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.entityURL(key)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", URL, err)
	}
	if !exists {
		return fmt.Errorf("%w: %v", dao.ErrNotFound, key)
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete %s: %w", URL, err)
	}
	return nil
}

// List returns all stored entities ordered by file URL.
func (s *FsStore[K, T]) List(ctx context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil || !exists {
		return nil, err
	}
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.baseURL, err)
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].URL() < objects[j].URL() })
	var ret []*T
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("skipping unreadable entity", "url", object.URL(), "error", err)
			continue
		}
		var entity T
		if err := json.Unmarshal(data, &entity); err != nil {
			s.logger.Warn("skipping malformed entity", "url", object.URL(), "error", err)
			continue
		}
		if s.filter != nil && !s.filter(&entity, parameters) {
			continue
		}
		ret = append(ret, &entity)
	}
	return ret, nil
}

func (s *FsStore[K, T]) entityURL(key K) string {
	return url.Join(s.baseURL, fmt.Sprintf("%v.json", key))
}
