package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/localizei/internal/catalog"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	stores := []catalog.Store{{ID: "1", Name: "Padaria"}, {ID: "2", Name: "Pet Shop"}}
	cats := []catalog.Category{{ID: "alimentacao", Name: "Alimentação"}}

	before := time.Now()
	s.BeginRefresh()
	if !s.Snapshot().Loading {
		t.Fatal("Loading = false after BeginRefresh")
	}
	s.Update(stores, cats, nil)

	snap := s.Snapshot()
	if snap.Loading {
		t.Fatal("Loading = true after Update")
	}
	if len(snap.Stores) != 2 || snap.Stores[0].ID != "1" {
		t.Fatalf("snapshot stores = %#v, want 2 items", snap.Stores)
	}
	if len(snap.Categories) != 1 {
		t.Fatalf("snapshot categories = %#v, want 1 item", snap.Categories)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	snap.Stores[0].Name = "mutated"
	if got := s.Snapshot().Stores[0].Name; got != "Padaria" {
		t.Fatalf("Snapshot should clone stores; got %q", got)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]catalog.Store{{ID: "1"}}, nil, nil)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.Update(nil, nil, origErr)

	snap := s.Snapshot()
	if len(snap.Stores) != 1 || snap.Stores[0].ID != "1" {
		t.Fatalf("stores changed on error: got %#v want %#v", snap.Stores, prev.Stores)
	}
	if !snap.LastUpdated.Equal(prev.LastUpdated) {
		t.Fatalf("LastUpdated moved on error: %v -> %v", prev.LastUpdated, snap.LastUpdated)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatal("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatal("Snapshot should clone error instance")
	}
}

func TestStore_NilCategoriesKeepsCurrent(t *testing.T) {
	var s Store
	s.Update(nil, catalog.DefaultCategories, nil)
	s.Update([]catalog.Store{{ID: "x"}}, nil, nil)

	if got := len(s.Snapshot().Categories); got != len(catalog.DefaultCategories) {
		t.Fatalf("categories = %d, want %d", got, len(catalog.DefaultCategories))
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(nil, nil, errors.New("first"))
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after a single failure")
	}

	s.Update(nil, nil, errors.New("second"))
	if !s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = false, want true after 2 failures")
	}

	s.Update([]catalog.Store{{ID: "1"}}, nil, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("failures = %d offline = %v after success, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_SeedDoesNotOverwriteLiveData(t *testing.T) {
	var s Store

	cachedAt := time.Now().Add(-time.Hour)
	s.Seed([]catalog.Store{{ID: "cached"}}, nil, cachedAt)
	snap := s.Snapshot()
	if !snap.FromCache || !snap.HasListing() || !snap.LastUpdated.Equal(cachedAt) {
		t.Fatalf("seeded snapshot = %#v", snap)
	}

	s.Update([]catalog.Store{{ID: "live"}}, nil, nil)
	s.Seed([]catalog.Store{{ID: "late-cache"}}, nil, cachedAt)

	snap = s.Snapshot()
	if snap.FromCache {
		t.Fatal("FromCache = true after live update")
	}
	if snap.Stores[0].ID != "live" {
		t.Fatalf("Seed overwrote live data: %#v", snap.Stores)
	}
}
