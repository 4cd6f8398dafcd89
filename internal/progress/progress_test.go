package progress

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"bbfinder/internal/config"
)

func TestReportWithNoClientsDoesNotPanic(t *testing.T) {
	h := NewHub(false)
	h.Report(3, 42, 7, "AQI=")
}

func TestLogSettingsDoesNotPanic(t *testing.T) {
	h := NewHub(false)
	h.LogSettings(config.Default())
}

func TestLogHistogramEmptyIsNoop(t *testing.T) {
	LogHistogram("test", nil)
}

func TestBroadcastReachesConnectedClient(t *testing.T) {
	h := NewHub(false)
	server := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// give ServeWS a moment to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)
	h.Report(1, 2, 3, "")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if !strings.Contains(string(msg), `"candidates":1`) {
		t.Fatalf("broadcast payload = %s, want it to contain candidates:1", msg)
	}
}
