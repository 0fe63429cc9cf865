package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orrery-ng/internal/clock"
	"orrery-ng/internal/ephemeris"
	"orrery-ng/internal/feed"
)

// Deps carries everything the HTTP surface serves. Metrics, Logs, and
// Stream pieces may be nil; the corresponding endpoints degrade or
// disappear.
type Deps struct {
	Engine      *ephemeris.Engine
	Clock       *clock.Clock
	Status      *Status
	Broadcaster *feed.Broadcaster
	Logs        *LogBuffer
	Metrics     *MetricsCollector
	Limiter     *IPRateLimiter
}

func Handler(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/positions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		jd, err := queryJD(r, d.Clock)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		start := time.Now()
		states, err := d.Engine.Positions(jd)
		if err != nil {
			d.Metrics.RecordQueryError()
			http.Error(w, "position query failed", http.StatusInternalServerError)
			return
		}
		d.Metrics.RecordQuery("http", time.Since(start))

		writeJSON(w, feed.Frame{
			JD:      jd,
			TimeUTC: ephemeris.JDTime(jd).Format(time.RFC3339Nano),
			Planets: states,
		})
	})

	mux.HandleFunc("/api/planets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resp := struct {
			SceneScale float64                     `json:"scene_scale"`
			Planets    []ephemeris.OrbitalElements `json:"planets"`
		}{
			SceneScale: d.Engine.SceneScale(),
			Planets:    d.Engine.Planets(),
		}
		writeJSON(w, resp)
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		clients := 0
		if d.Broadcaster != nil {
			clients = d.Broadcaster.SubscriberCount()
		}
		writeJSON(w, d.Status.Snapshot(time.Now().UTC(), d.Clock.Snapshot(), clients))
	})

	mux.HandleFunc("/api/clock", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, d.Clock.Snapshot())
		case http.MethodPost:
			handleClockUpdate(w, r, d.Clock)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	if d.Logs != nil {
		mux.Handle("/api/logs", d.Logs.Handler())
	}

	if d.Broadcaster != nil {
		mux.Handle("/ws", &StreamHandler{
			Broadcaster: d.Broadcaster,
			Metrics:     d.Metrics,
			Limiter:     d.Limiter,
		})
	}

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// clockUpdate is the POST /api/clock body. Absent fields leave the
// corresponding setting untouched.
type clockUpdate struct {
	Rate   *float64 `json:"rate,omitempty"`
	Paused *bool    `json:"paused,omitempty"`
	SeekJD *float64 `json:"seek_jd,omitempty"`
}

func handleClockUpdate(w http.ResponseWriter, r *http.Request, c *clock.Clock) {
	var upd clockUpdate
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&upd); err != nil {
		http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
		return
	}
	// Decode stops after the first JSON value; reject trailing data.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		http.Error(w, "invalid body: trailing data", http.StatusBadRequest)
		return
	}

	if upd.Rate != nil && !isFinite(*upd.Rate) {
		http.Error(w, "rate must be finite", http.StatusBadRequest)
		return
	}
	if upd.SeekJD != nil && !isFinite(*upd.SeekJD) {
		http.Error(w, "seek_jd must be finite", http.StatusBadRequest)
		return
	}

	if upd.Rate != nil {
		c.SetRate(*upd.Rate)
	}
	// Pause before seeking so a combined pause+seek freezes exactly on
	// the requested date.
	if upd.Paused != nil {
		if *upd.Paused {
			c.Pause()
		} else {
			c.Resume()
		}
	}
	if upd.SeekJD != nil {
		c.Seek(*upd.SeekJD)
	}

	writeJSON(w, c.Snapshot())
}

// queryJD resolves the requested date: ?jd= wins, then ?time= (RFC3339),
// then the simulation clock's current date.
func queryJD(r *http.Request, c *clock.Clock) (float64, error) {
	q := r.URL.Query()
	if v := q.Get("jd"); v != "" {
		jd, err := strconv.ParseFloat(v, 64)
		if err != nil || !isFinite(jd) {
			return 0, fmt.Errorf("jd must be a finite number")
		}
		return jd, nil
	}
	if v := q.Get("time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return 0, fmt.Errorf("time must be RFC3339")
		}
		return ephemeris.JulianDate(t), nil
	}
	return c.JD(), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}

func Serve(ctx context.Context, listenAddr string, d Deps) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           Handler(d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// No WriteTimeout: /ws hijacks the connection and manages its
		// own write deadlines.
		IdleTimeout:    30 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
