package store

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID mints a ULID for store-owned rows. Agents keep their serial ids
// from the schema; this covers audit rows like faucet grants.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
