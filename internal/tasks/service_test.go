package tasks_test

import (
	"context"
	"errors"
	"testing"

	"reup-todo-backend/internal/db"
	"reup-todo-backend/internal/tasks"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateTask(t *testing.T) {
	svc := tasks.NewService(db.NewMemory())
	ctx := context.Background()

	a, err := svc.CreateTask(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	b, err := svc.CreateTask(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if a.Done {
		t.Errorf("Done: got true, want false")
	}
	if a.Title != "Buy milk" {
		t.Errorf("Title: got %q, want %q", a.Title, "Buy milk")
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids not unique: %q, %q", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Errorf("CreatedAt not set")
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	svc := tasks.NewService(db.NewMemory())
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := svc.CreateTask(ctx, title); !errors.Is(err, tasks.ErrValidation) {
			t.Errorf("CreateTask(%q): got %v, want ErrValidation", title, err)
		}
	}

	list, err := svc.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("len(list): got %d, want 0", len(list))
	}
}

func TestListTasksNewestFirst(t *testing.T) {
	svc := tasks.NewService(db.NewMemory())
	ctx := context.Background()

	a, _ := svc.CreateTask(ctx, "A")
	b, _ := svc.CreateTask(ctx, "B")

	list, err := svc.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list): got %d, want 2", len(list))
	}
	if list[0].ID != b.ID || list[1].ID != a.ID {
		t.Errorf("order: got [%s %s], want [%s %s]", list[0].Title, list[1].Title, "B", "A")
	}
}

func TestUpdateTaskDone(t *testing.T) {
	svc := tasks.NewService(db.NewMemory())
	ctx := context.Background()

	task, _ := svc.CreateTask(ctx, "toggle me")
	other, _ := svc.CreateTask(ctx, "leave me")

	tests := []struct {
		name string
		done *bool
		want bool
	}{
		{"explicit true", boolPtr(true), true},
		{"explicit true again", boolPtr(true), true},
		{"toggle", nil, false},
		{"toggle back", nil, true},
		{"explicit false", boolPtr(false), false},
	}

	for _, tt := range tests {
		got, err := svc.UpdateTaskDone(ctx, task.ID, tt.done)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got.Done != tt.want {
			t.Errorf("%s: got done=%v, want %v", tt.name, got.Done, tt.want)
		}
		if got.Title != task.Title || !got.CreatedAt.Equal(task.CreatedAt) {
			t.Errorf("%s: immutable fields changed: %+v", tt.name, got)
		}
	}

	o, err := svc.GetTask(ctx, other.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if o.Done {
		t.Errorf("unrelated task changed")
	}
}

func TestMissingTask(t *testing.T) {
	svc := tasks.NewService(db.NewMemory())
	ctx := context.Background()

	if _, err := svc.UpdateTaskDone(ctx, "nope", boolPtr(true)); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("UpdateTaskDone: got %v, want ErrNotFound", err)
	}
	if _, err := svc.UpdateTaskDone(ctx, "nope", nil); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("UpdateTaskDone toggle: got %v, want ErrNotFound", err)
	}
	if err := svc.DeleteTask(ctx, "nope"); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("DeleteTask: got %v, want ErrNotFound", err)
	}

	list, _ := svc.ListTasks(ctx)
	if len(list) != 0 {
		t.Errorf("len(list): got %d, want 0", len(list))
	}
}

func TestDeleteTask(t *testing.T) {
	svc := tasks.NewService(db.NewMemory())
	ctx := context.Background()

	task, _ := svc.CreateTask(ctx, "gone")
	if err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := svc.GetTask(ctx, task.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("GetTask after delete: got %v, want ErrNotFound", err)
	}
	if err := svc.DeleteTask(ctx, task.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("second DeleteTask: got %v, want ErrNotFound", err)
	}
}

func TestStoreErrorWrapping(t *testing.T) {
	boom := errors.New("connection reset")
	svc := tasks.NewService(failingRepo{err: boom})

	_, err := svc.ListTasks(context.Background())

	var se *tasks.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("got %T, want *StoreError", err)
	}
	if se.Op != "list" {
		t.Errorf("Op: got %q, want list", se.Op)
	}
	if !errors.Is(err, boom) {
		t.Errorf("cause lost: %v", err)
	}
}

type failingRepo struct{ err error }

func (f failingRepo) List(context.Context) ([]tasks.Task, error) { return nil, f.err }
func (f failingRepo) Insert(context.Context, tasks.Task) (tasks.Task, error) {
	return tasks.Task{}, f.err
}
func (f failingRepo) FindByID(context.Context, string) (tasks.Task, error) {
	return tasks.Task{}, f.err
}
func (f failingRepo) SetDone(context.Context, string, bool) (tasks.Task, error) {
	return tasks.Task{}, f.err
}
func (f failingRepo) Delete(context.Context, string) error { return f.err }
func (f failingRepo) Close(context.Context) error          { return nil }
