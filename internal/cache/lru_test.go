package cache

import "testing"

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](3)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	// Добавление сверх емкости вытесняет самую старую запись
	c.Put("d", 4)

	if c.Len() != 3 {
		t.Errorf("Expected 3 entries, got %d", c.Len())
	}
	if c.Contains("a") {
		t.Error("Expected oldest entry to be evicted")
	}
	for _, key := range []string{"b", "c", "d"} {
		if !c.Contains(key) {
			t.Errorf("Expected key %q to survive eviction", key)
		}
	}
}

func TestLRUGetBumpsRecency(t *testing.T) {
	c := New[int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	// Чтение делает запись недавно использованной
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Expected to get a=1, got %d, %v", v, ok)
	}

	c.Put("c", 3)

	if !c.Contains("a") {
		t.Error("Expected recently used entry to survive")
	}
	if c.Contains("b") {
		t.Error("Expected least recently used entry to be evicted")
	}
}

func TestLRUPeekDoesNotBumpRecency(t *testing.T) {
	c := New[int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	if v, ok := c.Peek("a"); !ok || v != 1 {
		t.Fatalf("Expected to peek a=1, got %d, %v", v, ok)
	}

	c.Put("c", 3)

	if c.Contains("a") {
		t.Error("Expected peeked entry to be evicted as least recently used")
	}
}

func TestLRUPutUpdatesExistingKey(t *testing.T) {
	c := New[int](2)

	c.Put("a", 1)
	c.Put("a", 10)

	if c.Len() != 1 {
		t.Errorf("Expected 1 entry after update, got %d", c.Len())
	}
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Expected updated value 10, got %d", v)
	}
}

func TestLRUDelete(t *testing.T) {
	c := New[int](2)

	c.Put("a", 1)

	if !c.Delete("a") {
		t.Error("Expected delete of existing key to report true")
	}
	if c.Delete("a") {
		t.Error("Expected delete of missing key to report false")
	}
	if c.Contains("a") {
		t.Error("Expected deleted key to be gone")
	}
}

func TestLRUDefaultCapacity(t *testing.T) {
	c := New[int](0)

	if c.Capacity() != 64 {
		t.Errorf("Expected default capacity 64, got %d", c.Capacity())
	}
}
