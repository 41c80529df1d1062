package internal

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier. It prefers a random UUID; when the
// system entropy source is unavailable it falls back to a timestamp plus a
// pseudo-random number. Uniqueness is probabilistic, not guaranteed.
func NewID(prefix string) string {
	if id, err := uuid.NewRandom(); err == nil {
		return prefix + "-" + id.String()
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, time.Now().UnixMilli(), rand.Intn(1000000))
}

// randomSuffix returns a short hex fragment for composing display-level ids
// such as tool log and diagnostic log entry ids.
func randomSuffix() string {
	return fmt.Sprintf("%06x", rand.Intn(1<<24))
}
