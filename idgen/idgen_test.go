package idgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDv7_Valid(t *testing.T) {
	gen := UUIDv7()
	id := gen()
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("UUIDv7 produced unparseable ID %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("version = %d, want 7", parsed.Version())
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("rule_", func() string { return "abc123" })
	if id := gen(); id != "rule_abc123" {
		t.Fatalf("unexpected ID: %s", id)
	}
	if !strings.HasPrefix(Prefixed("audit_", Default)(), "audit_") {
		t.Fatal("expected audit_ prefix")
	}
}

func TestNew(t *testing.T) {
	if New() == New() {
		t.Fatal("New returned identical IDs")
	}
}
