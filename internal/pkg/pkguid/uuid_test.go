package pkguid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerate(t *testing.T) {
	gen := NewUUID()

	id, err := uuid.Parse(gen.Generate())
	if err != nil {
		t.Fatalf("expected valid uuid, got %v", err)
	}
	if id.Version() != 7 {
		t.Fatalf("expected version 7, got %d", id.Version())
	}

	if a, b := gen.Generate(), gen.Generate(); a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}
