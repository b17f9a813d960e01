package ids

import "github.com/google/uuid"

// New returns a random identifier for records created without a ledger hash.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
