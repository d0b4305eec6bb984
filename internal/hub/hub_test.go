package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type namedEvent struct {
	Type string `json:"type"`
}

func (e namedEvent) EventName() string { return e.Type }

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		event interface{}
		want  string
	}{
		{"plain", map[string]int{"n": 1}, "data: {\"n\":1}\n\n"},
		{"named", namedEvent{Type: "map_saved"}, "event: map_saved\ndata: {\"type\":\"map_saved\"}\n\n"},
		{"named without name", namedEvent{}, "data: {\"type\":\"\"}\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encode(tt.event)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBroadcastReachesClient(t *testing.T) {
	h := New(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, ": connected") {
		t.Fatalf("first line = %q, err = %v", line, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	h.Broadcast(namedEvent{Type: "graph_changed"})

	var got []string
	for len(got) < 2 {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if line = strings.TrimSpace(line); line != "" {
			got = append(got, line)
		}
	}
	if got[0] != "event: graph_changed" {
		t.Errorf("event line = %q", got[0])
	}
	if got[1] != `data: {"type":"graph_changed"}` {
		t.Errorf("data line = %q", got[1])
	}
}
