package background

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryTaskStore_Lifecycle(t *testing.T) {
	s := NewInMemoryTaskStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); err != ErrTaskNotFound {
		t.Fatalf("Get(missing) err = %v, want ErrTaskNotFound", err)
	}

	result := &TaskResult{
		ProcessID: "match_1",
		Type:      TaskTypeMatch,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
	}
	if err := s.Store(ctx, result); err != nil {
		t.Fatalf("Store: %v", err)
	}

	result.Status = TaskStatusSuccess
	if err := s.Update(ctx, result); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(ctx, "match_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != TaskStatusSuccess {
		t.Errorf("status = %s, want SUCCESS", got.Status)
	}

	if err := s.Delete(ctx, "match_1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "match_1"); err != ErrTaskNotFound {
		t.Errorf("Get after delete err = %v, want ErrTaskNotFound", err)
	}
}

func TestInMemoryTaskStore_CleanupDropsOnlyExpired(t *testing.T) {
	s := NewInMemoryTaskStore()
	ctx := context.Background()

	old := &TaskResult{ProcessID: "old", Type: TaskTypeMatch, CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &TaskResult{ProcessID: "fresh", Type: TaskTypeMatch, CreatedAt: time.Now()}
	s.Store(ctx, old)
	s.Store(ctx, fresh)

	if err := s.Cleanup(ctx, 24*time.Hour); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if _, err := s.Get(ctx, "old"); err != ErrTaskNotFound {
		t.Errorf("expired task survived cleanup")
	}
	if _, err := s.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh task dropped by cleanup: %v", err)
	}
}
