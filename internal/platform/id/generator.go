package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// ClockGenerator issues Unix-millisecond ids for records created while the
// backend is unreachable. Ids are strictly increasing within one process
// even when two records are created in the same millisecond.
type ClockGenerator struct {
	clock clockwork.Clock
	last  atomic.Int64
}

func NewClockGenerator(clock clockwork.Clock) *ClockGenerator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClockGenerator{clock: clock}
}

func (g *ClockGenerator) NewID() (string, error) {
	for {
		now := g.clock.Now().UnixMilli()
		last := g.last.Load()
		if now <= last {
			now = last + 1
		}
		if g.last.CompareAndSwap(last, now) {
			return strconv.FormatInt(now, 10), nil
		}
	}
}
