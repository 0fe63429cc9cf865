// Package clock owns simulated-time policy for the position feed.
//
// The ephemeris engine is a pure function of Julian Date; deciding which
// date to ask for belongs here. A Clock maps wall time onto a Julian Date
// at a configurable rate and supports pause, resume, and seeking, which
// is what a time scrubber needs from the serving side.
package clock

import (
	"sync"
	"time"

	"orrery-ng/internal/ephemeris"
)

// Clock converts wall-clock time to simulated Julian Dates.
//
// While running, the simulated date advances by Rate simulated days per
// wall-clock day from the last anchor point. All methods are safe for
// concurrent use.
type Clock struct {
	mu sync.Mutex

	anchorJD   float64   // simulated date at the anchor instant
	anchorWall time.Time // wall time of the anchor
	rate       float64   // simulated days per wall day
	paused     bool

	now func() time.Time // injectable for tests
}

// New returns a running clock anchored so that the simulated date equals
// startJD at the moment of the call. Rate 1 tracks real time; negative
// rates run backwards.
func New(startJD, rate float64) *Clock {
	c := &Clock{now: time.Now}
	c.anchorJD = startJD
	c.anchorWall = c.now()
	c.rate = rate
	return c
}

// NewAt is New with an injectable time source.
func NewAt(startJD, rate float64, now func() time.Time) *Clock {
	c := New(startJD, rate)
	c.now = now
	c.anchorWall = now()
	return c
}

// JD returns the current simulated Julian Date.
func (c *Clock) JD() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jdLocked()
}

func (c *Clock) jdLocked() float64 {
	if c.paused {
		return c.anchorJD
	}
	elapsedDays := c.now().Sub(c.anchorWall).Seconds() / 86400.0
	return c.anchorJD + c.rate*elapsedDays
}

// Rate returns the current rate in simulated days per wall day.
func (c *Clock) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Paused reports whether the clock is frozen.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// SetRate changes the speed without jumping the current simulated date.
func (c *Clock) SetRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reanchorLocked()
	c.rate = rate
}

// Pause freezes the simulated date at its current value.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.reanchorLocked()
	c.paused = true
}

// Resume continues from the frozen date at the current rate.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.anchorWall = c.now()
	c.paused = false
}

// Seek jumps the simulated date (scrub). Pause state and rate are kept.
func (c *Clock) Seek(jd float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchorJD = jd
	c.anchorWall = c.now()
}

func (c *Clock) reanchorLocked() {
	c.anchorJD = c.jdLocked()
	c.anchorWall = c.now()
}

// Snapshot is a settings/status view of the clock.
type Snapshot struct {
	JD      float64 `json:"jd"`
	TimeUTC string  `json:"time_utc"`
	Rate    float64 `json:"rate"`
	Paused  bool    `json:"paused"`
}

// Snapshot returns the clock state at one instant.
func (c *Clock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	jd := c.jdLocked()
	return Snapshot{
		JD:      jd,
		TimeUTC: ephemeris.JDTime(jd).Format(time.RFC3339Nano),
		Rate:    c.rate,
		Paused:  c.paused,
	}
}
