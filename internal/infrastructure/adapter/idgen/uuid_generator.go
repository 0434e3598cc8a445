package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// ledgerNamespace scopes derived keys so they never collide with random ids
var ledgerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://fireesports.gg/ledger"))

// UUIDGenerator hands out random v4 ids and name-based v5 keys
type UUIDGenerator struct{}

// NewUUIDGenerator creates an id generator
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// DeriveKey hashes the parts into a v5 UUID. Parts are joined with '|', which
// account and tournament ids cannot contain.
func (UUIDGenerator) DeriveKey(parts ...string) string {
	return uuid.NewSHA1(ledgerNamespace, []byte(strings.Join(parts, "|"))).String()
}
