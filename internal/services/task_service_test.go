package services

import (
	"context"
	"errors"
	"testing"

	"github.com/xvierd/clockin/internal/adapters/storage"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

func setupTestStorage(t *testing.T) (ports.Storage, func()) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { _ = store.Close() }
}

func loadedTaskService(t *testing.T, store ports.Storage) *TaskService {
	t.Helper()
	svc := NewTaskService(store.Tasks(), nil)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return svc
}

func ids(tasks []*domain.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestTaskService_Load(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	svc := NewTaskService(store.Tasks(), nil)
	if svc.Loaded() {
		t.Fatal("Loaded() = true before Load")
	}

	tasks, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tasks) != 21 {
		t.Errorf("Load() returned %d tasks, want 21", len(tasks))
	}
	if !svc.Loaded() {
		t.Error("Loaded() = false after Load")
	}
}

func TestTaskService_ByLevelAndParent(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	svc := loadedTaskService(t, store)

	parent := func(v int64) *int64 { return &v }

	tests := []struct {
		name   string
		level  domain.Level
		parent *int64
		want   []int64
	}{
		{"projects", domain.LevelProject, nil, []int64{1, 2, 3}},
		{"tasks of frontend", domain.LevelTask, parent(1), []int64{101, 102, 103}},
		{"subtasks of ui components", domain.LevelSubtask, parent(101), []int64{1011, 1012, 1013}},
		{"subactions", domain.LevelSubaction, parent(10122), []int64{101221, 101222}},
		{"level mismatch", domain.LevelAction, parent(101), nil},
		{"leaf without children", domain.LevelTask, parent(4), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(svc.ByLevelAndParent(tt.level, tt.parent))
			if len(got) != len(tt.want) {
				t.Fatalf("ByLevelAndParent() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ByLevelAndParent()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTaskService_UpdateStatus(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	svc := loadedTaskService(t, store)
	ctx := context.Background()

	t.Run("valid status", func(t *testing.T) {
		task, err := svc.UpdateStatus(ctx, 1013, "in progress")
		if err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}
		if task.Status != domain.StatusInProgress {
			t.Errorf("Status = %v, want %v", task.Status, domain.StatusInProgress)
		}
		cached, _ := svc.ByID(1013)
		if cached.Status != domain.StatusInProgress {
			t.Errorf("cached Status = %v, want %v", cached.Status, domain.StatusInProgress)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, 1013, "DONE")
		if !errors.Is(err, domain.ErrInvalidStatus) {
			t.Errorf("UpdateStatus() error = %v, want ErrInvalidStatus", err)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, 77, "TODO")
		if !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("UpdateStatus() error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestTaskService_Search(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	svc := loadedTaskService(t, store)

	if got := svc.Search("  "); got != nil {
		t.Errorf("Search(blank) = %v, want nil", ids(got))
	}

	got := svc.Search("validation")
	if len(got) < 3 {
		t.Fatalf("Search(validation) = %v, want at least 3 matches", ids(got))
	}
	found := map[int64]bool{}
	for _, task := range got {
		found[task.ID] = true
	}
	for _, want := range []int64{10122, 101221, 101222} {
		if !found[want] {
			t.Errorf("Search(validation) missing %d", want)
		}
	}
}

func TestTaskService_Path(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	svc := NewTaskService(store.Tasks(), nil)
	if _, err := svc.Path(101221); !errors.Is(err, domain.ErrTasksNotLoaded) {
		t.Errorf("Path() before load error = %v, want ErrTasksNotLoaded", err)
	}

	svc = loadedTaskService(t, store)
	path, err := svc.Path(101221)
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	want := []int64{1, 101, 1012, 10122, 101221}
	got := ids(path)
	if len(got) != len(want) {
		t.Fatalf("Path() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Path()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if _, err := svc.Path(5); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Path(5) error = %v, want ErrTaskNotFound", err)
	}
}
