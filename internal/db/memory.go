package db

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"reup-todo-backend/internal/tasks"
)

type memoryEntry struct {
	task tasks.Task
	seq  uint64
}

// Memory keeps tasks in process memory. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	m    map[string]memoryEntry
	next uint64
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]memoryEntry)}
}

func (s *Memory) List(ctx context.Context) ([]tasks.Task, error) {
	s.mu.RLock()
	entries := make([]memoryEntry, 0, len(s.m))
	for _, e := range s.m {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]tasks.Task, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.task)
	}
	return out, nil
}

func (s *Memory) Insert(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = uuid.NewString()
	s.next++
	s.m[t.ID] = memoryEntry{task: t, seq: s.next}
	return t, nil
}

func (s *Memory) FindByID(ctx context.Context, id string) (tasks.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.m[id]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return e.task, nil
}

func (s *Memory) SetDone(ctx context.Context, id string, done bool) (tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[id]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	e.task.Done = done
	s.m[id] = e
	return e.task, nil
}

func (s *Memory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return tasks.ErrNotFound
	}
	delete(s.m, id)
	return nil
}

func (s *Memory) Close(ctx context.Context) error { return nil }
