package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"orrery-ng/internal/ephemeris"
)

type Config struct {
	Web   WebConfig   `yaml:"web"`
	Feed  FeedConfig  `yaml:"feed"`
	UDP   UDPConfig   `yaml:"udp"`
	Scene SceneConfig `yaml:"scene"`
}

type WebConfig struct {
	Listen   string `yaml:"listen"`
	LogLines int    `yaml:"log_lines"`
}

type FeedConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Start is the initial simulated time: an RFC3339 timestamp, a
	// "jd:<value>" Julian Date, or "now" (the default).
	Start string `yaml:"start"`
	// Rate is simulated days per wall-clock day. 0 means the default
	// (real time); negative runs time backwards.
	Rate   float64 `yaml:"rate"`
	Paused bool    `yaml:"paused"`
}

type UDPConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest"`
}

type SceneConfig struct {
	Scale float64 `yaml:"scale"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}
	if cfg.Web.LogLines <= 0 {
		cfg.Web.LogLines = 2000
	}

	if cfg.Feed.Interval <= 0 {
		cfg.Feed.Interval = 100 * time.Millisecond
	}
	if cfg.Feed.Start == "" {
		cfg.Feed.Start = "now"
	}
	if _, err := StartJD(cfg.Feed.Start, time.Now()); err != nil {
		return Config{}, fmt.Errorf("feed.start: %w", err)
	}
	if cfg.Feed.Rate == 0 {
		cfg.Feed.Rate = 1.0
	}

	if cfg.UDP.Enable && cfg.UDP.Dest == "" {
		return Config{}, fmt.Errorf("udp.dest is required when udp.enable is true")
	}

	if cfg.Scene.Scale == 0 {
		cfg.Scene.Scale = ephemeris.DefaultSceneScale
	}
	if cfg.Scene.Scale < 0 {
		return Config{}, fmt.Errorf("scene.scale must be > 0")
	}

	return cfg, nil
}

// StartJD resolves a feed.start value to a Julian Date. now anchors the
// "now" form.
func StartJD(start string, now time.Time) (float64, error) {
	s := strings.TrimSpace(start)
	switch {
	case s == "" || s == "now":
		return ephemeris.JulianDate(now), nil
	case strings.HasPrefix(s, "jd:"):
		jd, err := strconv.ParseFloat(strings.TrimPrefix(s, "jd:"), 64)
		if err != nil || math.IsNaN(jd) || math.IsInf(jd, 0) {
			return 0, fmt.Errorf("invalid julian date %q", s)
		}
		return jd, nil
	default:
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return 0, fmt.Errorf("must be 'now', 'jd:<value>', or RFC3339, got %q", s)
		}
		return ephemeris.JulianDate(t), nil
	}
}
