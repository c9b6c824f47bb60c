package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tbourn/go-protocol-backend/internal/domain"
)

func TestAppendActivity_PrunesOldest(t *testing.T) {
	db := newTestDB(t, &domain.ActivityLog{})
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		a := &domain.ActivityLog{
			ID:        fmt.Sprintf("a%d", i),
			Action:    "Created protocol",
			Type:      domain.ActivityCreate,
			UserID:    "u1",
			CreatedAt: int64(i * 100),
		}
		if err := AppendActivity(ctx, db, a, 3); err != nil {
			t.Fatalf("AppendActivity %d: %v", i, err)
		}
	}

	total, err := CountActivity(ctx, db)
	if err != nil || total != 3 {
		t.Fatalf("CountActivity = %d, %v; want 3", total, err)
	}
	page, err := ListActivityPage(ctx, db, 0, 10)
	if err != nil {
		t.Fatalf("ListActivityPage: %v", err)
	}
	if len(page) != 3 || page[0].ID != "a5" || page[2].ID != "a3" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestAppendActivity_DefaultsAndUnbounded(t *testing.T) {
	db := newTestDB(t, &domain.ActivityLog{})
	ctx := context.Background()
	a := &domain.ActivityLog{Action: "x", Type: domain.ActivitySettings, UserID: "u"}
	if err := AppendActivity(ctx, db, a, 0); err != nil {
		t.Fatalf("AppendActivity: %v", err)
	}
	if a.ID == "" || a.CreatedAt == 0 {
		t.Fatalf("defaults not applied: %+v", a)
	}
}

func TestDeleteAndClearActivity(t *testing.T) {
	db := newTestDB(t, &domain.ActivityLog{})
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		_ = AppendActivity(ctx, db, &domain.ActivityLog{ID: fmt.Sprintf("a%d", i), Action: "x", Type: "edit", UserID: "u", CreatedAt: int64(i)}, 0)
	}

	if err := DeleteActivity(ctx, db, "a2"); err != nil {
		t.Fatalf("DeleteActivity: %v", err)
	}
	if err := DeleteActivity(ctx, db, "a2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete twice: want ErrNotFound, got %v", err)
	}
	if err := ClearActivity(ctx, db); err != nil {
		t.Fatalf("ClearActivity: %v", err)
	}
	if n, _ := CountActivity(ctx, db); n != 0 {
		t.Fatalf("count after clear = %d", n)
	}
}
