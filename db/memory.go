package db

import (
	"context"
	"slices"
	"sync"
	"velograph/model"
)

// MemoryStore 没有配置数据库时使用, 进程退出即丢失
type MemoryStore struct {
	mu    sync.RWMutex
	paths map[string]model.PathRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{paths: make(map[string]model.PathRecord)}
}

func (s *MemoryStore) SavePath(ctx context.Context, rec *model.PathRecord) error {
	prepare(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) GetPath(ctx context.Context, id string) (*model.PathRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.paths[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// ListPaths 按创建时间倒序, 时间相同按 ID 排
func (s *MemoryStore) ListPaths(ctx context.Context) ([]model.PathRecord, error) {
	s.mu.RLock()
	recs := make([]model.PathRecord, 0, len(s.paths))
	for _, rec := range s.paths {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(recs, func(a, b model.PathRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return recs, nil
}

func (s *MemoryStore) CountPaths(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.paths)), nil
}
