package core

// IDGenerator produces identifiers for ledger records
type IDGenerator interface {
	// NewID returns a fresh random identifier
	NewID() string
	// DeriveKey returns the same identifier for the same parts, every time
	DeriveKey(parts ...string) string
}
