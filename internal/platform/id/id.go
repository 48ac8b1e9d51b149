package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"

	"folio/internal/platform/slug"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Derived builds a library entry id from the display name and import time.
// The short random suffix keeps two imports of the same name in the same
// millisecond apart.
func Derived(name string, at time.Time) string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	return slug.Make(name) + "-" + strconv.FormatInt(at.UnixMilli(), 36) + "-" + hex.EncodeToString(buf)
}
