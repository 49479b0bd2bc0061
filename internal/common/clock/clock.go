// Package clock gives the game service a replaceable notion of now.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock reports the current time. Any clockwork.Clock satisfies it.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/mindmeld/internal/common/clock Clock
type Clock interface {
	Now() time.Time
}

// UTCClock reports the time of an underlying clockwork clock in UTC so
// stored timestamps compare the same across hosts
type UTCClock struct {
	base clockwork.Clock
}

// New returns the wall clock
func New() *UTCClock {
	return NewFrom(clockwork.NewRealClock())
}

// NewFrom wraps base, the real clock when nil
func NewFrom(base clockwork.Clock) *UTCClock {
	if base == nil {
		base = clockwork.NewRealClock()
	}
	return &UTCClock{base: base}
}

func (c *UTCClock) Now() time.Time {
	return c.base.Now().UTC()
}
