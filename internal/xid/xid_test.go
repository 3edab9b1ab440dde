package xid

import (
	"strings"
	"testing"
)

func TestNewCarriesPrefix(t *testing.T) {
	id := New("TRX")
	if !strings.HasPrefix(id, "TRX-") {
		t.Fatalf("id = %q", id)
	}
	if len(id) <= len("TRX-") {
		t.Fatalf("id has no body: %q", id)
	}
}

func TestTransactionIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := Transaction()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
