package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"orrery-ng/internal/clock"
	"orrery-ng/internal/config"
	"orrery-ng/internal/ephemeris"
	"orrery-ng/internal/feed"
	"orrery-ng/internal/udp"
	"orrery-ng/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logs := web.NewLogBuffer(cfg.Web.LogLines)
	log.SetOutput(io.MultiWriter(os.Stderr, logs))

	engine, err := ephemeris.NewEngine(ephemeris.Planets(), cfg.Scene.Scale)
	if err != nil {
		log.Fatalf("engine init failed: %v", err)
	}

	startJD, err := config.StartJD(cfg.Feed.Start, time.Now())
	if err != nil {
		log.Fatalf("feed.start invalid: %v", err)
	}
	simClock := clock.New(startJD, cfg.Feed.Rate)
	if cfg.Feed.Paused {
		simClock.Pause()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	status := web.NewStatus()
	status.SetStatic(cfg.Web.Listen, cfg.UDP.Dest, cfg.Feed.Interval.String())
	metrics := web.NewMetricsCollector()
	broadcaster := feed.NewBroadcaster()

	log.Printf("orrery-ng starting")
	log.Printf("web listen=%s feed interval=%s rate=%g start jd=%.5f", cfg.Web.Listen, cfg.Feed.Interval, cfg.Feed.Rate, startJD)

	producer := &feed.Producer{
		Engine:      engine,
		Clock:       simClock,
		Broadcaster: broadcaster,
		Interval:    cfg.Feed.Interval,
		OnFrame: func(feed.Frame) {
			status.MarkFrame(time.Now().UTC())
			metrics.RecordFrame()
		},
		OnSolve: func(d time.Duration) {
			metrics.RecordQuery("feed", d)
		},
	}
	go func() {
		if err := producer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("feed stopped: %v", err)
			cancel()
		}
	}()

	if cfg.UDP.Enable {
		sender, err := udp.NewBroadcaster(cfg.UDP.Dest)
		if err != nil {
			log.Fatalf("udp init failed: %v", err)
		}
		defer sender.Close()
		log.Printf("udp feed dest=%s", cfg.UDP.Dest)

		go func() {
			id, frames := broadcaster.Subscribe(4)
			defer broadcaster.Unsubscribe(id)
			for {
				select {
				case <-ctx.Done():
					return
				case f := <-frames:
					if err := sender.SendFrame(f); err != nil {
						log.Printf("udp send failed: %v", err)
					}
				}
			}
		}()
	}

	deps := web.Deps{
		Engine:      engine,
		Clock:       simClock,
		Status:      status,
		Broadcaster: broadcaster,
		Logs:        logs,
		Metrics:     metrics,
		Limiter:     web.NewIPRateLimiter(rate.Limit(1), 5),
	}
	if err := web.Serve(ctx, cfg.Web.Listen, deps); err != nil && ctx.Err() == nil {
		log.Fatalf("web server failed: %v", err)
	}

	log.Printf("orrery-ng stopping")
}
