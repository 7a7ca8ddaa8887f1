// Package clock abstracts wall time so day boundaries can be driven in tests.
package clock

import (
	"time"

	"github.com/mcoot/crackthecode/internal/model"
)

type Clock interface {
	Now() time.Time
}

// UTC reads the system clock in UTC; all service dates are UTC
type UTC struct{}

func New() UTC {
	return UTC{}
}

func (UTC) Now() time.Time {
	return time.Now().UTC()
}

// Today is the UTC calendar date of c.Now()
func Today(c Clock) string {
	return model.DateOf(c.Now())
}

// Since is the elapsed time on c
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}
