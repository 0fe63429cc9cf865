package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"orrery-ng/internal/ephemeris"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Web.Listen != ":8080" {
		t.Fatalf("web.listen=%q want :8080", cfg.Web.Listen)
	}
	if cfg.Web.LogLines != 2000 {
		t.Fatalf("web.log_lines=%d want 2000", cfg.Web.LogLines)
	}
	if cfg.Feed.Interval != 100*time.Millisecond {
		t.Fatalf("feed.interval=%s want 100ms", cfg.Feed.Interval)
	}
	if cfg.Feed.Start != "now" {
		t.Fatalf("feed.start=%q want now", cfg.Feed.Start)
	}
	if cfg.Feed.Rate != 1.0 {
		t.Fatalf("feed.rate=%v want 1.0", cfg.Feed.Rate)
	}
	if cfg.Scene.Scale != ephemeris.DefaultSceneScale {
		t.Fatalf("scene.scale=%v want %v", cfg.Scene.Scale, ephemeris.DefaultSceneScale)
	}
}

func TestLoad_UDPRequiresDest(t *testing.T) {
	path := writeTempConfig(t, "udp:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "udp.dest is required when udp.enable is true")
}

func TestLoad_RejectsNegativeScale(t *testing.T) {
	path := writeTempConfig(t, "scene:\n  scale: -1\n")
	_, err := Load(path)
	requireErrEq(t, err, "scene.scale must be > 0")
}

func TestLoad_RejectsBadStart(t *testing.T) {
	path := writeTempConfig(t, "feed:\n  start: 'yesterday'\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for feed.start=yesterday")
	}
}

func TestLoad_RejectsNonFiniteStart(t *testing.T) {
	path := writeTempConfig(t, "feed:\n  start: 'jd:NaN'\n")
	_, err := Load(path)
	requireErrEq(t, err, `feed.start: invalid julian date "jd:NaN"`)
}

func TestLoad_KeepsExplicitValues(t *testing.T) {
	path := writeTempConfig(t, "web:\n  listen: ':9000'\nfeed:\n  interval: 250ms\n  rate: -5\n  start: 'jd:2451545.0'\n  paused: true\nscene:\n  scale: 4.5\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Web.Listen != ":9000" {
		t.Fatalf("web.listen=%q want :9000", cfg.Web.Listen)
	}
	if cfg.Feed.Interval != 250*time.Millisecond {
		t.Fatalf("feed.interval=%s want 250ms", cfg.Feed.Interval)
	}
	if cfg.Feed.Rate != -5 {
		t.Fatalf("feed.rate=%v want -5", cfg.Feed.Rate)
	}
	if !cfg.Feed.Paused {
		t.Fatalf("feed.paused=false want true")
	}
	if cfg.Scene.Scale != 4.5 {
		t.Fatalf("scene.scale=%v want 4.5", cfg.Scene.Scale)
	}
}

func TestStartJD(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"Now", "now", ephemeris.JulianDate(now), false},
		{"Empty", "", ephemeris.JulianDate(now), false},
		{"ExplicitJD", "jd:2451545.0", 2451545.0, false},
		{"RFC3339", "2000-01-01T12:00:00Z", 2451545.0, false},
		{"BadJD", "jd:abc", 0, true},
		{"NaNJD", "jd:NaN", 0, true},
		{"InfJD", "jd:+Inf", 0, true},
		{"BadTimestamp", "last tuesday", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := StartJD(tc.in, now)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("StartJD(%q) expected error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("StartJD(%q) error: %v", tc.in, err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("StartJD(%q)=%v want %v", tc.in, got, tc.want)
			}
		})
	}
}
