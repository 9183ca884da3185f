package loader_test

import (
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/kevinmiles/wsflood/api"
	"github.com/kevinmiles/wsflood/loader"
)

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Record(event string) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *recordingSink) count(class string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if strings.HasPrefix(e, class+" ") {
			n++
		}
	}
	return n
}

var _ api.Sink = (*recordingSink)(nil)

// Full cycle against a real WebSocket server: every scheduled connection
// connects, upgrades and is torn down, and the event stream reflects that.
func TestEngineWithWebSocketHandshake(t *testing.T) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Hold until the load engine closes the connection.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				ws.Close()
				return
			}
		}
	}))
	defer srv.Close()

	addr := srv.Listener.Addr().(*net.TCPAddr)
	sink := &recordingSink{}
	cfg := loader.Config{
		ThreadCount:     2,
		ConnectionCount: 4,
		Endpoints:       []netip.AddrPort{addr.AddrPort()},
	}
	e, err := loader.NewEngine(cfg,
		loader.WithSink(sink),
		loader.WithHandshake(addr.String(), "/", nil),
	)
	if err != nil {
		t.Fatal(err)
	}
	e.Start()

	scheduled := e.Plan().Scheduled()
	if got := sink.count("connect-ok"); got != scheduled {
		t.Errorf("connect-ok = %d, want %d", got, scheduled)
	}
	if got := sink.count("handshake-ok"); got != scheduled {
		t.Errorf("handshake-ok = %d, want %d", got, scheduled)
	}
	if got := sink.count("handshake-rejected"); got != 0 {
		t.Errorf("handshake-rejected = %d, want 0", got)
	}
	if got := sink.count("close-ok"); got != scheduled {
		t.Errorf("close-ok = %d, want %d", got, scheduled)
	}
}

// Against a plain HTTP server every handshake is rejected: connections are
// opened and closed immediately, the held set stays empty and no teardown
// events are emitted.
func TestEngineHandshakeRejectedByPlainServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	addr := srv.Listener.Addr().(*net.TCPAddr)
	sink := &recordingSink{}
	cfg := loader.Config{
		ThreadCount:     1,
		ConnectionCount: 3,
		Endpoints:       []netip.AddrPort{addr.AddrPort()},
	}
	e, err := loader.NewEngine(cfg,
		loader.WithSink(sink),
		loader.WithHandshake(addr.String(), "/", nil),
	)
	if err != nil {
		t.Fatal(err)
	}
	e.Start()

	if got := sink.count("handshake-rejected"); got != 3 {
		t.Errorf("handshake-rejected = %d, want 3", got)
	}
	if got := sink.count("close-ok") + sink.count("close-failure"); got != 0 {
		t.Errorf("teardown events = %d, want 0", got)
	}
}
