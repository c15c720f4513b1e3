package state

import (
	"testing"
	"time"
)

func TestBriefStoreAddList(t *testing.T) {
	store := NewBriefStore(t.TempDir())

	rb, err := store.Add("weekly-promo", "Promote the weekly deals", "0 9 * * MON", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if rb.ID == "" {
		t.Error("expected generated id")
	}
	if !rb.Enabled {
		t.Error("new briefs should be enabled")
	}

	briefs, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(briefs) != 1 || briefs[0].Name != "weekly-promo" {
		t.Errorf("unexpected list: %+v", briefs)
	}
}

func TestBriefStoreGetByName(t *testing.T) {
	store := NewBriefStore(t.TempDir())

	added, err := store.Add("launch", "Launch campaign", "@daily", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	byName, err := store.Get("launch")
	if err != nil {
		t.Fatalf("Get by name failed: %v", err)
	}
	if byName.ID != added.ID {
		t.Errorf("expected %s, got %s", added.ID, byName.ID)
	}

	if _, err := store.Get("missing"); err == nil {
		t.Error("expected error for unknown brief")
	}
}

func TestBriefStoreRemove(t *testing.T) {
	store := NewBriefStore(t.TempDir())

	if _, err := store.Add("a", "brief a", "@daily", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Remove("a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	briefs, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(briefs) != 0 {
		t.Errorf("expected empty store, got %d briefs", len(briefs))
	}

	if err := store.Remove("a"); err == nil {
		t.Error("expected error removing missing brief")
	}
}

func TestBriefStoreEnableDisable(t *testing.T) {
	store := NewBriefStore(t.TempDir())

	if _, err := store.Add("toggle", "brief", "@hourly", ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.SetEnabled("toggle", false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}

	rb, err := store.Get("toggle")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rb.Enabled {
		t.Error("expected brief disabled")
	}
}

func TestBriefStoreMarkRun(t *testing.T) {
	store := NewBriefStore(t.TempDir())

	rb, err := store.Add("runs", "brief", "@daily", "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	ranAt := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	if err := store.MarkRun(rb.ID, ranAt); err != nil {
		t.Fatalf("MarkRun failed: %v", err)
	}

	got, err := store.Get(rb.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.LastRun.Equal(ranAt) {
		t.Errorf("expected last run %v, got %v", ranAt, got.LastRun)
	}
}
