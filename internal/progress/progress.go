// Package progress reports exhaustive-search progress: a terminal-aware
// log line plus an optional websocket broadcast hub, so a long-running
// search can be watched live. Adapted from the teacher's
// internal/network websocket broadcast hub (a mutex-guarded client map,
// collected under a read lock then written to under per-client locks,
// marking failed clients closed rather than aborting the broadcast) and
// its database-security-scan reporting cadence, now carrying search
// progress instead of VM/security events.
package progress

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/websocket"
	"github.com/mattn/go-isatty"

	"bbfinder/internal/config"
)

// Update is one progress snapshot, broadcast verbatim as JSON to every
// connected websocket client.
type Update struct {
	Candidates int64     `json:"candidates"`
	TotalSteps int64     `json:"total_steps"`
	BestSteps  int       `json:"best_steps"`
	BestProgram string   `json:"best_program,omitempty"`
	Elapsed    string    `json:"elapsed"`
	At         time.Time `json:"at"`
}

// client is one connected websocket subscriber.
type client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

// Hub fans Updates out to any number of websocket subscribers and also
// logs a human-readable line for the controlling terminal.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	nextID  int

	upgrader websocket.Upgrader
	start    time.Time
	isTTY    bool
}

// NewHub creates a broadcast hub. isTTY is normally
// mattn/go-isatty.IsTerminal(os.Stdout.Fd()); passed explicitly here so
// callers (and tests) can force either rendering mode.
func NewHub(isTTY bool) *Hub {
	return &Hub{
		clients:  make(map[string]*client),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		start:    time.Time{},
		isTTY:    isTTY,
	}
}

// IsTerminalStdout is a thin wrapper so callers don't need to import
// mattn/go-isatty directly just to build a Hub.
func IsTerminalStdout(fd uintptr) bool { return isatty.IsTerminal(fd) }

// ServeWS upgrades an HTTP connection to a websocket and registers it as a
// subscriber until it disconnects or a write fails.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("progress: websocket upgrade failed: %v", err)
		return
	}
	h.mu.Lock()
	h.nextID++
	id := fmt.Sprintf("client-%d", h.nextID)
	h.clients[id] = &client{conn: conn}
	h.mu.Unlock()
}

// Report logs a human-readable progress line and broadcasts an Update to
// every connected websocket client, matching the teacher's broadcast
// shape: collect recipients under a read lock, write under each client's
// own lock, and drop (mark closed) any client whose write fails rather
// than aborting the whole broadcast.
func (h *Hub) Report(candidates, totalSteps int64, bestSteps int, bestProgram string) {
	if h.start.IsZero() {
		h.start = time.Now()
	}
	elapsed := time.Since(h.start)

	if h.isTTY {
		fmt.Printf("\r%s programs explored, %s total steps, best %d steps, elapsed %s   ",
			humanize.Comma(candidates), humanize.Comma(totalSteps), bestSteps, elapsed.Round(time.Second))
	} else {
		log.Printf("progress: %s programs explored, %s total steps, best %d steps, elapsed %s",
			humanize.Comma(candidates), humanize.Comma(totalSteps), bestSteps, elapsed.Round(time.Second))
	}

	h.broadcast(Update{
		Candidates:  candidates,
		TotalSteps:  totalSteps,
		BestSteps:   bestSteps,
		BestProgram: bestProgram,
		Elapsed:     elapsed.String(),
		At:          time.Now(),
	})
}

func (h *Hub) broadcast(u Update) {
	payload, err := json.Marshal(u)
	if err != nil {
		log.Printf("progress: marshal update: %v", err)
		return
	}

	h.mu.RLock()
	recipients := make([]*client, 0, len(h.clients))
	ids := make([]string, 0, len(h.clients))
	for id, c := range h.clients {
		recipients = append(recipients, c)
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	var dead []string
	for i, c := range recipients {
		c.mu.Lock()
		if !c.closed {
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.closed = true
				dead = append(dead, ids[i])
			}
		}
		c.mu.Unlock()
	}

	if len(dead) > 0 {
		h.mu.Lock()
		for _, id := range dead {
			delete(h.clients, id)
		}
		h.mu.Unlock()
	}
}

// LogSettings prints a one-line settings summary at search start,
// recovered from the original's ExhaustiveSearcher::dumpSettings /
// Searcher::dumpSettings: the dimensions and limits a run is using, so a
// log watched from the start (or replayed later) records what was
// actually configured.
func (h *Hub) LogSettings(cfg config.Settings) {
	log.Printf("bbfinder: %dx%d grid, tape=%d, max-steps/program=%d, max-steps-total=%d, hang-sample=%d",
		cfg.Width, cfg.Height, cfg.TapeSize, cfg.MaxStepsPerProgram, cfg.MaxTotalSteps, cfg.HangSamplePeriod)
}

// LogHistogram renders a simple ASCII bar chart of step-count buckets to
// the log, recovered from original_source/'s settings-dump behavior
// (spec.md SPEC_FULL.md §13): useful for eyeballing the shape of a
// completed search's step-count distribution.
func LogHistogram(label string, buckets map[int]int64) {
	if len(buckets) == 0 {
		return
	}
	var max int64
	maxKey := 0
	for steps, n := range buckets {
		if n > max {
			max = n
		}
		if steps > maxKey {
			maxKey = steps
		}
	}
	log.Printf("%s histogram:", label)
	for steps := 0; steps <= maxKey; steps++ {
		n, ok := buckets[steps]
		if !ok {
			continue
		}
		barLen := 0
		if max > 0 {
			barLen = int(float64(n) / float64(max) * 40)
		}
		bar := make([]byte, barLen)
		for i := range bar {
			bar[i] = '#'
		}
		log.Printf("  %6d steps | %-40s %s", steps, string(bar), humanize.Comma(n))
	}
}
