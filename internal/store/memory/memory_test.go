package memory

import "testing"

func TestSetGetDelete(t *testing.T) {
	s, err := New(10)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	if err := s.Set("property-store", `{"1":{}}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found, err := s.Get("property-store")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected to find key")
	}
	if value != `{"1":{}}` {
		t.Fatalf("Expected stored blob, got %q", value)
	}

	if err := s.Delete("property-store"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := s.Get("property-store"); found {
		t.Fatal("Expected key to be gone after delete")
	}
}

func TestGetMissing(t *testing.T) {
	s, err := New(10)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	_, found, err := s.Get("nonexistent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Fatal("Expected missing key")
	}
}

func TestCapacityBound(t *testing.T) {
	s, err := New(2)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	s.Set("a", "1")
	s.Set("b", "2")
	s.Set("c", "3")

	if s.Len() != 2 {
		t.Fatalf("Expected 2 entries after eviction, got %d", s.Len())
	}
	if _, found, _ := s.Get("a"); found {
		t.Fatal("Expected oldest key to be evicted")
	}
}

func TestSetOverwrites(t *testing.T) {
	s, err := New(10)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	s.Set("k", "old")
	s.Set("k", "new")

	value, _, _ := s.Get("k")
	if value != "new" {
		t.Fatalf("Expected %q, got %q", "new", value)
	}
}
