// Package remote serves the curve held in a store over websockets so other
// processes can follow edits and evaluate the curve.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"curvedit/internal/store"
)

const writeWait = 200 * time.Millisecond

type point [2]float64

type segmentMsg struct {
	Start   point `json:"start"`
	Control point `json:"control"`
	End     point `json:"end"`
}

type curveMsg struct {
	T        int64        `json:"t"`
	Segments []segmentMsg `json:"segments"`
}

// EvalRequest is what clients send on /ws/eval.
type EvalRequest struct {
	X float64 `json:"x"`
}

// EvalResponse answers an EvalRequest. Error is set when the request could
// not be read.
type EvalResponse struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Error string  `json:"error,omitempty"`
}

// client is one /ws/curve subscriber. send holds at most the newest
// unsent curve; its writer goroutine owns the connection's writes.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	mu      sync.RWMutex
	addr    string
	store   *store.Store
	clients map[*client]bool
	started time.Time

	upgrader websocket.Upgrader
}

func New(addr string, st *store.Store) *Server {
	return &Server{
		addr:     addr,
		store:    st,
		clients:  map[*client]bool{},
		started:  time.Now(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Handler routes /ws/curve, /ws/eval and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/curve", s.HandleCurveWS)
	mux.HandleFunc("/ws/eval", s.HandleEvalWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

// ListenAndServe runs until ctx is cancelled. Open websocket clients are
// closed on the way out.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
		s.closeClients()
	}()

	log.Info().Str("addr", s.addr).Msg("remote server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		s.dropLocked(c)
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(c)
}

func (s *Server) dropLocked(c *client) {
	if !s.clients[c] {
		return
	}
	delete(s.clients, c)
	close(c.send)
	c.conn.Close()
}

// Clients is the number of connected /ws/curve clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// HandleCurveWS sends the current curve on connect and keeps the client
// subscribed to Broadcast until it disconnects or a write fails.
func (s *Server) HandleCurveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("upgrade /ws/curve")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 1)}
	c.send <- s.snapshot()

	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	go s.writeLoop(c)
	go func() {
		defer s.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) writeLoop(c *client) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write curve, dropping client")
			s.drop(c)
			return
		}
	}
}

// Broadcast queues the store's curve for every /ws/curve client without
// waiting on the network. A client that has not sent the previous curve yet
// gets only the newest one.
func (s *Server) Broadcast() {
	b := s.snapshot()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- b:
			continue
		default:
		}
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- b:
		default:
		}
	}
}

func (s *Server) snapshot() []byte {
	segs := s.store.Segments()
	msg := curveMsg{T: time.Now().UnixNano(), Segments: make([]segmentMsg, len(segs))}
	for i, sg := range segs {
		msg.Segments[i] = segmentMsg{
			Start:   point{sg.Start.X, sg.Start.Y},
			Control: point{sg.Control.X, sg.Control.Y},
			End:     point{sg.End.X, sg.End.Y},
		}
	}
	b, _ := json.Marshal(msg)
	return b
}

// HandleEvalWS answers each EvalRequest with the curve's value at x. The
// input also becomes the store's modulation input, so an attached editor
// draws a trace for it.
func (s *Server) HandleEvalWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("upgrade /ws/eval")
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var resp EvalResponse
		var req EvalRequest
		if err := json.Unmarshal(data, &req); err != nil {
			resp.Error = err.Error()
		} else {
			x := min(max(req.X, 0), 1)
			s.store.SetInput(x)
			resp.X, resp.Y = x, s.store.Evaluate(x)
		}

		b, _ := json.Marshal(resp)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write eval")
			return
		}
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"connectors": s.store.NumConnectors(),
		"clients":    s.Clients(),
		"uptime_s":   time.Since(s.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
