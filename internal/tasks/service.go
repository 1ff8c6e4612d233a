package tasks

import (
	"context"
	"strings"
	"time"
)

// Repository is implemented by the storage backends in internal/db.
// FindByID, SetDone and Delete return ErrNotFound for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]Task, error)
	Insert(ctx context.Context, t Task) (Task, error)
	FindByID(ctx context.Context, id string) (Task, error)
	SetDone(ctx context.Context, id string, done bool) (Task, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListTasks returns every task, newest first.
func (s *Service) ListTasks(ctx context.Context) ([]Task, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, Wrap("list", err)
	}
	return list, nil
}

func (s *Service) CreateTask(ctx context.Context, title string) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, ErrValidation
	}

	t, err := s.repo.Insert(ctx, Task{
		Title:     title,
		Done:      false,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	})
	if err != nil {
		return Task{}, Wrap("insert", err)
	}
	return t, nil
}

func (s *Service) GetTask(ctx context.Context, id string) (Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Task{}, Wrap("find", err)
	}
	return t, nil
}

// UpdateTaskDone sets done to *done, or flips the stored value when done
// is nil.
func (s *Service) UpdateTaskDone(ctx context.Context, id string, done *bool) (Task, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}

	next := !t.Done
	if done != nil {
		next = *done
	}

	updated, err := s.repo.SetDone(ctx, id, next)
	if err != nil {
		return Task{}, Wrap("update", err)
	}
	return updated, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return Wrap("delete", s.repo.Delete(ctx, id))
}
