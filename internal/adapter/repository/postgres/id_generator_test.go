package postgres

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorMintsValidULIDs(t *testing.T) {
	gen := NewULIDGenerator()

	id := gen.Generate()
	if _, err := ulid.Parse(id); err != nil {
		t.Fatalf("generated id %q is not a ULID: %v", id, err)
	}
}

func TestULIDGeneratorMintsSortableIDs(t *testing.T) {
	gen := NewULIDGenerator()

	seen := make(map[string]bool, 1000)
	prev := ""
	for i := 0; i < 1000; i++ {
		id := gen.Generate()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d mints", id, i)
		}
		seen[id] = true
		if id <= prev {
			t.Fatalf("ids must sort in mint order: %q after %q", id, prev)
		}
		prev = id
	}
}
