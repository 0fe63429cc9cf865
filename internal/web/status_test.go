package web

import (
	"testing"
	"time"

	"orrery-ng/internal/clock"
	"orrery-ng/internal/ephemeris"
)

func TestStatus_Snapshot(t *testing.T) {
	s := NewStatus()
	s.SetStatic(":8080", "239.0.0.1:4000", "100ms")

	frameTime := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	s.MarkFrame(frameTime)
	s.MarkFrame(frameTime.Add(100 * time.Millisecond))

	c := clock.New(ephemeris.J2000, 2.0)
	snap := s.Snapshot(frameTime.Add(time.Second), c.Snapshot(), 3)

	if snap.Service != "orrery-ng" {
		t.Fatalf("service=%q", snap.Service)
	}
	if snap.FramesPublishedTotal != 2 {
		t.Fatalf("frames=%d want 2", snap.FramesPublishedTotal)
	}
	if snap.Listen != ":8080" || snap.UDPDest != "239.0.0.1:4000" || snap.Interval != "100ms" {
		t.Fatalf("static fields: %+v", snap)
	}
	if snap.StreamClients != 3 {
		t.Fatalf("stream_clients=%d want 3", snap.StreamClients)
	}
	if snap.Clock.Rate != 2.0 {
		t.Fatalf("clock rate=%v want 2.0", snap.Clock.Rate)
	}
	wantLast := frameTime.Add(100 * time.Millisecond).Format(time.RFC3339Nano)
	if snap.LastFrameUTC != wantLast {
		t.Fatalf("last_frame_utc=%q want %q", snap.LastFrameUTC, wantLast)
	}
}

func TestStatus_NoFramesOmitsLastFrame(t *testing.T) {
	s := NewStatus()
	snap := s.Snapshot(time.Now().UTC(), clock.Snapshot{}, 0)
	if snap.LastFrameUTC != "" {
		t.Fatalf("last_frame_utc=%q want empty", snap.LastFrameUTC)
	}
	if snap.FramesPublishedTotal != 0 {
		t.Fatalf("frames=%d want 0", snap.FramesPublishedTotal)
	}
}
