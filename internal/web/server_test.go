package web

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"orrery-ng/internal/clock"
	"orrery-ng/internal/ephemeris"
	"orrery-ng/internal/feed"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	eng, err := ephemeris.NewEngine(ephemeris.Planets(), ephemeris.DefaultSceneScale)
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return Deps{
		Engine:      eng,
		Clock:       clock.New(ephemeris.J2000, 1.0),
		Status:      NewStatus(),
		Broadcaster: feed.NewBroadcaster(),
		Logs:        NewLogBuffer(100),
	}
}

func getJSON(t *testing.T, h http.Handler, url string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK && out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("GET %s: bad JSON: %v\n%s", url, err, rec.Body.String())
		}
	}
	return rec
}

func TestPositionsEndpoint_ExplicitJD(t *testing.T) {
	h := Handler(newTestDeps(t))

	var frame feed.Frame
	rec := getJSON(t, h, "/api/positions?jd=2451545.0", &frame)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if frame.JD != ephemeris.J2000 {
		t.Fatalf("jd=%v want %v", frame.JD, ephemeris.J2000)
	}
	if len(frame.Planets) != ephemeris.PlanetCount {
		t.Fatalf("planets=%d want %d", len(frame.Planets), ephemeris.PlanetCount)
	}
	if frame.Planets[0].Name != "Mercury" || frame.Planets[7].Name != "Neptune" {
		t.Fatalf("unexpected order: %q ... %q", frame.Planets[0].Name, frame.Planets[7].Name)
	}
}

func TestPositionsEndpoint_TimeParam(t *testing.T) {
	h := Handler(newTestDeps(t))

	var frame feed.Frame
	rec := getJSON(t, h, "/api/positions?time=2000-01-01T12:00:00Z", &frame)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if math.Abs(frame.JD-ephemeris.J2000) > 1e-9 {
		t.Fatalf("jd=%v want %v", frame.JD, ephemeris.J2000)
	}
}

func TestPositionsEndpoint_DefaultsToClock(t *testing.T) {
	d := newTestDeps(t)
	d.Clock = clock.New(2460000.5, 1.0)
	d.Clock.Pause()
	h := Handler(d)

	var frame feed.Frame
	rec := getJSON(t, h, "/api/positions", &frame)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if math.Abs(frame.JD-2460000.5) > 1e-6 {
		t.Fatalf("jd=%v want ~2460000.5", frame.JD)
	}
}

func TestPositionsEndpoint_RejectsBadInput(t *testing.T) {
	h := Handler(newTestDeps(t))
	for _, url := range []string{
		"/api/positions?jd=abc",
		"/api/positions?jd=NaN",
		"/api/positions?jd=+Inf",
		"/api/positions?time=notatime",
	} {
		rec := getJSON(t, h, url, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("GET %s: status=%d want 400", url, rec.Code)
		}
	}
}

func TestPositionsEndpoint_MethodNotAllowed(t *testing.T) {
	h := Handler(newTestDeps(t))
	req := httptest.NewRequest(http.MethodPost, "/api/positions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want 405", rec.Code)
	}
}

func TestPlanetsEndpoint(t *testing.T) {
	h := Handler(newTestDeps(t))

	var resp struct {
		SceneScale float64                     `json:"scene_scale"`
		Planets    []ephemeris.OrbitalElements `json:"planets"`
	}
	rec := getJSON(t, h, "/api/planets", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if resp.SceneScale != ephemeris.DefaultSceneScale {
		t.Fatalf("scene_scale=%v want %v", resp.SceneScale, ephemeris.DefaultSceneScale)
	}
	if len(resp.Planets) != ephemeris.PlanetCount {
		t.Fatalf("planets=%d want %d", len(resp.Planets), ephemeris.PlanetCount)
	}
}

func TestStatusEndpoint(t *testing.T) {
	d := newTestDeps(t)
	d.Status.SetStatic(":8080", "", "100ms")
	h := Handler(d)

	var snap StatusSnapshot
	rec := getJSON(t, h, "/api/status", &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if snap.Service != "orrery-ng" {
		t.Fatalf("service=%q want orrery-ng", snap.Service)
	}
	if snap.Listen != ":8080" || snap.Interval != "100ms" {
		t.Fatalf("static fields not reflected: %+v", snap)
	}
}

func TestClockEndpoint_GetAndPost(t *testing.T) {
	d := newTestDeps(t)
	h := Handler(d)

	var snap clock.Snapshot
	rec := getJSON(t, h, "/api/clock", &snap)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status=%d want 200", rec.Code)
	}
	if snap.Rate != 1.0 {
		t.Fatalf("rate=%v want 1.0", snap.Rate)
	}

	body := strings.NewReader(`{"rate": 50, "paused": true, "seek_jd": 2451545.0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/clock", body)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status=%d want 200: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("POST response: %v", err)
	}
	if snap.Rate != 50 || !snap.Paused {
		t.Fatalf("clock not updated: %+v", snap)
	}
	if snap.JD != 2451545.0 {
		t.Fatalf("jd=%v want 2451545.0 after paused seek", snap.JD)
	}
}

func TestClockEndpoint_RejectsBadBody(t *testing.T) {
	h := Handler(newTestDeps(t))
	for _, body := range []string{
		`{"rate": "fast"}`,
		`{"warp": 9}`,
		`{}garbage`,
		`{"rate": 2} {"rate": 9}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/clock", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d want 400", body, rec.Code)
		}
	}
}

func TestLogsEndpoint(t *testing.T) {
	d := newTestDeps(t)
	_, _ = d.Logs.Write([]byte("line one\nline two\n"))
	h := Handler(d)

	var resp LogsResponse
	rec := getJSON(t, h, "/api/logs?tail=1", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if len(resp.Lines) != 1 || resp.Lines[0] != "line two" {
		t.Fatalf("lines=%v want [line two]", resp.Lines)
	}
}
