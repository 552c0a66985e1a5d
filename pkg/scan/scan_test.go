package scan

import (
	"reflect"
	"testing"
)

func TestPageMatchesAndPaginates(t *testing.T) {
	items := []string{"user:1", "user:2", "order:1", "user:3"}

	next, page := Page(items, 0, "user:*", 2)
	want := []string{"user:1", "user:2"}
	if !reflect.DeepEqual(page, want) {
		t.Errorf("page = %v, want %v", page, want)
	}
	if next != 2 {
		t.Errorf("next = %d, want 2", next)
	}

	next, page = Page(items, next, "user:*", 2)
	want = []string{"user:3"}
	if !reflect.DeepEqual(page, want) {
		t.Errorf("page = %v, want %v", page, want)
	}
	if next != 0 {
		t.Errorf("next = %d, want 0 (exhausted)", next)
	}
}

func TestPageDefaultPattern(t *testing.T) {
	items := []string{"b", "a", "c"}
	_, page := Page(items, 0, "", DefaultCount)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(page, want) {
		t.Errorf("page = %v, want %v", page, want)
	}
}

func TestPageInvalidPatternMatchesNothing(t *testing.T) {
	items := []string{"a", "b"}
	next, page := Page(items, 0, "[", DefaultCount)
	if len(page) != 0 || next != 0 {
		t.Errorf("expected empty page and cursor 0, got page=%v next=%d", page, next)
	}
}

func TestPageEmptyItems(t *testing.T) {
	next, page := Page(nil, 0, "*", DefaultCount)
	if page != nil || next != 0 {
		t.Errorf("expected nil page and cursor 0 for empty input, got page=%v next=%d", page, next)
	}
}
