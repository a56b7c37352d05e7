package paging

import (
	"context"
	"errors"
	"testing"
)

// fakeFetcher отдает заранее подготовленные страницы по ссылке
type fakeFetcher struct {
	pages map[string]Page[int]
	calls int
}

func (f *fakeFetcher) GetJSON(_ context.Context, url string, dst any) error {
	f.calls++

	page, ok := f.pages[url]
	if !ok {
		return errors.New("unexpected url: " + url)
	}

	*dst.(*Page[int]) = page
	return nil
}

func TestItemsSinglePage(t *testing.T) {
	f := &fakeFetcher{}
	first := Page[int]{Items: []int{1, 2, 3}}

	items, err := Items(context.Background(), f, first)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(items) != 3 {
		t.Errorf("Expected 3 items, got %d", len(items))
	}
	if f.calls != 0 {
		t.Errorf("Expected no fetches for a single page, got %d", f.calls)
	}
}

func TestItemsFollowsNextLinks(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]Page[int]{
			"p1": {Items: []int{3, 4}, Next: "p2"},
			"p2": {Items: []int{5}},
		},
	}
	first := Page[int]{Items: []int{1, 2}, Next: "p1"}

	items, err := Items(context.Background(), f, first)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Порядок элементов сохраняется
	want := []int{1, 2, 3, 4, 5}
	if len(items) != len(want) {
		t.Fatalf("Expected %d items, got %d", len(want), len(items))
	}
	for i, v := range want {
		if items[i] != v {
			t.Errorf("Expected item %d at position %d, got %d", v, i, items[i])
		}
	}
	if f.calls != 2 {
		t.Errorf("Expected 2 fetches, got %d", f.calls)
	}
}

func TestItemsPropagatesFetchError(t *testing.T) {
	f := &fakeFetcher{}
	first := Page[int]{Items: []int{1}, Next: "missing"}

	if _, err := Items(context.Background(), f, first); err == nil {
		t.Error("Expected error for a failed page fetch")
	}
}

func TestCursorItemsFollowsNextLinks(t *testing.T) {
	pages := map[string]CursorPage[string]{
		"c1": {Items: []string{"b"}, Next: "c2"},
		"c2": {Items: []string{"c"}},
	}

	var calls int
	fetch := func(_ context.Context, url string) (CursorPage[string], error) {
		calls++
		page, ok := pages[url]
		if !ok {
			return CursorPage[string]{}, errors.New("unexpected url: " + url)
		}
		return page, nil
	}

	first := CursorPage[string]{Items: []string{"a"}, Next: "c1"}
	items, err := CursorItems(context.Background(), first, fetch)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(items) != len(want) {
		t.Fatalf("Expected %d items, got %d", len(want), len(items))
	}
	for i, v := range want {
		if items[i] != v {
			t.Errorf("Expected item %q at position %d, got %q", v, i, items[i])
		}
	}
	if calls != 2 {
		t.Errorf("Expected 2 fetches, got %d", calls)
	}
}
