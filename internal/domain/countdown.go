package domain

import (
	"fmt"
	"time"
)

const (
	// daysPerYear is a fixed year length; the countdown is not calendar-aware.
	daysPerYear = 365
	day         = 24 * time.Hour

	// milestoneOffset is the remaining budget to limit warming to 1.5°C, as
	// published on the milestone start date.
	milestoneOffset = (5*daysPerYear + 91) * day

	// ReachedText replaces the countdown once the target has passed.
	ReachedText = "Event reached"
)

var milestoneStart = time.Date(2024, time.April, 22, 12, 0, 0, 0, time.UTC)

// MilestoneTarget returns the fixed instant the dashboard counts down to.
func MilestoneTarget() time.Time {
	return milestoneStart.Add(milestoneOffset)
}

// Countdown computes the time left until a fixed target.
type Countdown struct {
	target time.Time
}

// NewCountdown returns a countdown to target.
func NewCountdown(target time.Time) Countdown {
	return Countdown{target: target}
}

// Target returns the instant being counted down to.
func (c Countdown) Target() time.Time {
	return c.target
}

// Remaining returns target - now, clamped at zero.
func (c Countdown) Remaining(now time.Time) time.Duration {
	d := c.target.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// CountdownState is the remaining time split into display units.
type CountdownState struct {
	Years   int  `json:"years"`
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Reached bool `json:"reached"`
}

// At decomposes the time left at now. Years are whole days divided by 365 and
// days are the remainder; leap days are not accounted for. Sub-second
// precision is truncated. At or after the target the state is zero and
// Reached is set.
func (c Countdown) At(now time.Time) CountdownState {
	d := c.target.Sub(now)
	if d <= 0 {
		return CountdownState{Reached: true}
	}

	total := int64(d / time.Second)
	days := total / int64(day/time.Second)
	rem := total % int64(day/time.Second)

	return CountdownState{
		Years:   int(days / daysPerYear),
		Days:    int(days % daysPerYear),
		Hours:   int(rem / 3600),
		Minutes: int(rem % 3600 / 60),
		Seconds: int(rem % 60),
	}
}

// Now evaluates the countdown against the package clock.
func (c Countdown) Now() CountdownState {
	return c.At(clock.Now())
}

// String formats the state as "Y years, D days, HH:MM:SS".
func (s CountdownState) String() string {
	if s.Reached {
		return ReachedText
	}
	return fmt.Sprintf("%d years, %d days, %02d:%02d:%02d", s.Years, s.Days, s.Hours, s.Minutes, s.Seconds)
}
