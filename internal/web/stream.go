package web

import (
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"orrery-ng/internal/feed"
)

// Upgrader with a permissive origin check: the stream carries public
// read-only data and the UI may be served from another origin during
// development.
var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// IPRateLimiter hands out one token-bucket limiter per client IP,
// bounding how fast any single address can (re)connect to the stream.
type IPRateLimiter struct {
	mu  sync.Mutex
	ips map[string]*rate.Limiter
	r   rate.Limit
	b   int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.ips[ip]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.ips[ip] = limiter
	}
	return limiter
}

// StreamHandler upgrades /ws requests and forwards feed frames to the
// client as JSON messages until the client goes away.
type StreamHandler struct {
	Broadcaster *feed.Broadcaster
	Metrics     *MetricsCollector
	Limiter     *IPRateLimiter

	// WriteTimeout bounds one frame write; a client that cannot keep
	// up is disconnected. Zero means a 10s default.
	WriteTimeout time.Duration
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Limiter != nil {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !h.Limiter.GetLimiter(ip).Allow() {
			http.Error(w, "too many connections", http.StatusTooManyRequests)
			return
		}
	}

	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		log.Printf("stream: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.Metrics.StreamClientConnected()
	defer h.Metrics.StreamClientDisconnected()

	id, frames := h.Broadcaster.Subscribe(4)
	defer h.Broadcaster.Unsubscribe(id)

	// Drain control/close messages so the read side notices disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	timeout := h.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	for {
		select {
		case <-done:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(timeout))
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		}
	}
}
