package id

import (
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestClockGenerator_UsesUnixMillis(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	g := NewClockGenerator(clockwork.NewFakeClockAt(at))

	got, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if want := strconv.FormatInt(at.UnixMilli(), 10); got != want {
		t.Fatalf("unexpected id: want %s got %s", want, got)
	}
}

func TestClockGenerator_StrictlyIncreasing(t *testing.T) {
	clock := clockwork.NewFakeClock()
	g := NewClockGenerator(clock)

	first, _ := g.NewID()
	second, _ := g.NewID()
	if first == second {
		t.Fatalf("expected distinct ids within the same millisecond, got %s twice", first)
	}

	a, _ := strconv.ParseInt(first, 10, 64)
	b, _ := strconv.ParseInt(second, 10, 64)
	if b != a+1 {
		t.Fatalf("expected second id to follow first, got %d then %d", a, b)
	}

	clock.Advance(time.Second)
	third, _ := g.NewID()
	c, _ := strconv.ParseInt(third, 10, 64)
	if c != a+1000 {
		t.Fatalf("expected id to track the clock after advance, got %d", c)
	}
}

func TestRandomGenerator_HexLength(t *testing.T) {
	got, err := NewRandomGenerator().NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(got) != 32 {
		t.Fatalf("expected 32 hex chars, got %d (%s)", len(got), got)
	}
}
