// Package xid generates collision-free identifiers with a readable prefix.
// Ledger IDs used to be derived from wall-clock time, which collided when
// two checkouts landed in the same second; UUIDs remove that failure mode.
package xid

import (
	"fmt"

	"github.com/google/uuid"
)

func New(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// Transaction returns a ledger transaction identifier.
func Transaction() string {
	return New("TRX")
}
