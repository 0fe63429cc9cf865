// Package feed turns the pure position engine into a periodic frame
// stream. The engine itself has no scheduling; the feed owns the ticker
// and fans computed frames out to subscribers (websocket clients, the
// UDP feed). A slow subscriber drops frames instead of stalling the loop.
package feed

import (
	"context"
	"log"
	"sync"
	"time"

	"orrery-ng/internal/clock"
	"orrery-ng/internal/ephemeris"
)

// Frame is one computed snapshot of the solar system.
type Frame struct {
	JD      float64                 `json:"jd"`
	TimeUTC string                  `json:"time_utc"`
	Planets []ephemeris.PlanetState `json:"planets"`
}

// Broadcaster fans frames out to any number of subscribers and keeps the
// most recent frame so new subscribers get an immediate sample.
type Broadcaster struct {
	mu       sync.RWMutex
	subs     map[int]chan Frame
	nextID   int
	last     Frame
	haveLast bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Frame)}
}

// Subscribe registers a listener. The returned channel receives frames
// until Unsubscribe; the current frame, if any, is delivered first.
func (b *Broadcaster) Subscribe(buffer int) (int, <-chan Frame) {
	if buffer <= 0 {
		buffer = 2
	}
	ch := make(chan Frame, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	if b.haveLast {
		ch <- b.last
	}
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers the frame to every subscriber, skipping any whose
// buffer is full.
func (b *Broadcaster) Publish(f Frame) {
	b.mu.Lock()
	b.last = f
	b.haveLast = true
	for _, ch := range b.subs {
		select {
		case ch <- f:
		default:
		}
	}
	b.mu.Unlock()
}

// Last returns the most recent frame, if one has been published.
func (b *Broadcaster) Last() (Frame, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last, b.haveLast
}

// SubscriberCount reports the number of active subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Producer drives the engine once per interval at the clock's current
// simulated date and publishes the result.
type Producer struct {
	Engine      *ephemeris.Engine
	Clock       *clock.Clock
	Broadcaster *Broadcaster
	Interval    time.Duration

	// OnFrame, if set, observes every published frame (metrics hook).
	OnFrame func(Frame)

	// OnSolve, if set, observes how long each position solve took.
	OnSolve func(time.Duration)
}

// Run blocks until ctx is cancelled. Engine errors are invariant
// violations; they are logged and stop the loop rather than being
// broadcast as garbage frames.
func (p *Producer) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f, err := p.frame()
			if err != nil {
				log.Printf("feed: position query failed: %v", err)
				return err
			}
			p.Broadcaster.Publish(f)
			if p.OnFrame != nil {
				p.OnFrame(f)
			}
		}
	}
}

func (p *Producer) frame() (Frame, error) {
	jd := p.Clock.JD()
	start := time.Now()
	states, err := p.Engine.Positions(jd)
	if err != nil {
		return Frame{}, err
	}
	if p.OnSolve != nil {
		p.OnSolve(time.Since(start))
	}
	return Frame{
		JD:      jd,
		TimeUTC: ephemeris.JDTime(jd).Format(time.RFC3339Nano),
		Planets: states,
	}, nil
}
