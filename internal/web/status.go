package web

import (
	"sync/atomic"
	"time"

	"orrery-ng/internal/clock"
)

// Status aggregates cheap service counters for the UI and /api/status.
// Writers are the feed loop and stream handlers; reads take a snapshot.
type Status struct {
	startUnixNano   int64
	framesPublished uint64
	lastFrameNano   int64
	listen          atomic.Value // string
	udpDest         atomic.Value // string
	interval        atomic.Value // string
}

func NewStatus() *Status {
	s := &Status{}
	now := time.Now().UTC()
	atomic.StoreInt64(&s.startUnixNano, now.UnixNano())
	s.listen.Store("")
	s.udpDest.Store("")
	s.interval.Store("")
	return s
}

// SetStatic records configuration values that do not change after start.
func (s *Status) SetStatic(listen, udpDest, interval string) {
	if listen != "" {
		s.listen.Store(listen)
	}
	if udpDest != "" {
		s.udpDest.Store(udpDest)
	}
	if interval != "" {
		s.interval.Store(interval)
	}
}

// MarkFrame records one published frame.
func (s *Status) MarkFrame(nowUTC time.Time) {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	atomic.StoreInt64(&s.lastFrameNano, nowUTC.UnixNano())
	atomic.AddUint64(&s.framesPublished, 1)
}

type StatusSnapshot struct {
	Service              string         `json:"service"`
	NowUTC               string         `json:"now_utc"`
	UptimeSec            int64          `json:"uptime_sec"`
	Listen               string         `json:"listen"`
	UDPDest              string         `json:"udp_dest,omitempty"`
	Interval             string         `json:"interval"`
	FramesPublishedTotal uint64         `json:"frames_published_total"`
	LastFrameUTC         string         `json:"last_frame_utc,omitempty"`
	StreamClients        int            `json:"stream_clients"`
	Clock                clock.Snapshot `json:"clock"`
}

// Snapshot assembles the current status. clockSnap and streamClients are
// supplied by the caller so Status itself stays free of dependencies on
// the feed machinery.
func (s *Status) Snapshot(nowUTC time.Time, clockSnap clock.Snapshot, streamClients int) StatusSnapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()
	lastFrame := atomic.LoadInt64(&s.lastFrameNano)

	snap := StatusSnapshot{
		Service:              "orrery-ng",
		NowUTC:               nowUTC.UTC().Format(time.RFC3339Nano),
		UptimeSec:            int64(nowUTC.Sub(start).Seconds()),
		Listen:               s.listen.Load().(string),
		UDPDest:              s.udpDest.Load().(string),
		Interval:             s.interval.Load().(string),
		FramesPublishedTotal: atomic.LoadUint64(&s.framesPublished),
		StreamClients:        streamClients,
		Clock:                clockSnap,
	}
	if lastFrame != 0 {
		snap.LastFrameUTC = time.Unix(0, lastFrame).UTC().Format(time.RFC3339Nano)
	}
	return snap
}
