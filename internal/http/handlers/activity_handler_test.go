package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tbourn/go-protocol-backend/internal/domain"
	"github.com/tbourn/go-protocol-backend/internal/services"
)

func TestListActivity_Pagination(t *testing.T) {
	f := newFixture(t)
	f.activity.listPage = func(_ context.Context, page, size int) ([]domain.ActivityLog, int64, error) {
		return []domain.ActivityLog{{ID: "a1", Action: "Protocolo criado", Type: "create"}}, 45, nil
	}
	w := f.do(http.MethodGet, "/api/v1/activity?page=2&page_size=20", "")
	if w.Code != http.StatusOK || f.activity.gotPage != 2 || f.activity.gotPageSize != 20 {
		t.Fatalf("status=%d page=%d size=%d", w.Code, f.activity.gotPage, f.activity.gotPageSize)
	}
	var body ListActivityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	p := body.Pagination
	if len(body.Activity) != 1 || p.Total != 45 || p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("body=%+v", body)
	}
}

func TestListActivity_DefaultsAndClamp(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodGet, "/api/v1/activity?page=0&page_size=9999", "")
	if f.activity.gotPage != 1 || f.activity.gotPageSize != 100 {
		t.Fatalf("page=%d size=%d", f.activity.gotPage, f.activity.gotPageSize)
	}
	f.do(http.MethodGet, "/api/v1/activity", "")
	if f.activity.gotPageSize != 20 {
		t.Fatalf("default size=%d", f.activity.gotPageSize)
	}
}

func TestDeleteAndClearActivity(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodDelete, "/api/v1/activity/a1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete -> %d", w.Code)
	}
	f.activity.del = func(context.Context, string) error { return services.ErrActivityNotFound }
	if w := f.do(http.MethodDelete, "/api/v1/activity/zz", ""); w.Code != http.StatusNotFound {
		t.Fatalf("delete missing -> %d", w.Code)
	}
	if w := f.do(http.MethodDelete, "/api/v1/activity", ""); w.Code != http.StatusNoContent || !f.activity.cleared {
		t.Fatalf("clear -> %d cleared=%v", w.Code, f.activity.cleared)
	}
}
