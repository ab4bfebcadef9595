package clock

import (
	"testing"
	"time"
)

func TestFake_Advance(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := Fake(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}
	c.Advance(90 * time.Minute)
	if got, want := c.Now(), start.Add(90*time.Minute); !got.Equal(want) {
		t.Errorf("after Advance, Now() = %v, want %v", got, want)
	}
	c.Set(start)
	if got := c.Now(); !got.Equal(start) {
		t.Errorf("after Set, Now() = %v, want %v", got, start)
	}
}

func TestReal_Moves(t *testing.T) {
	t.Parallel()
	before := time.Now()
	if got := Real().Now(); got.Before(before) {
		t.Errorf("Real().Now() = %v, earlier than %v", got, before)
	}
}
