// ABOUTME: Record identifier generation
// ABOUTME: Monotonic ULIDs stay unique for creates within the same millisecond
package crm

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type IDSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

func NewIDSource() *IDSource {
	return &IDSource{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// New returns a ULID string stamped with t.
func (s *IDSource) New(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}
