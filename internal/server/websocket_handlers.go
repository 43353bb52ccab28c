package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/labelscan/internal/pixbuf"
	"github.com/MeKo-Tech/labelscan/internal/scan"
	"github.com/MeKo-Tech/labelscan/internal/sink"
	"github.com/MeKo-Tech/labelscan/internal/utils"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy for the HTTP endpoints applies; frame payloads carry no
		// credentials.
		return true
	},
}

// WebSocketMessage is the envelope for control and result messages. Frames
// themselves travel as binary messages (PNG or JPEG encoded).
type WebSocketMessage struct {
	Type    string        `json:"type"` // start, stop, started, stopped, reading, error
	Reading *scan.Reading `json:"reading,omitempty"`
	Count   int           `json:"count,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// scanWebSocketHandler drives one live scan session per connection: the
// client pushes frames, the server runs the tick loop and pushes committed
// readings back.
func (s *Server) scanWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()
	slog.Info("scan session connected", "remote_addr", r.RemoteAddr)

	log := sink.NewMemory()
	orch, err := scan.NewOrchestrator(s.scanCfg, s.primary, s.secondary, s.ocr, log)
	if err != nil {
		s.sendMessage(conn, WebSocketMessage{Type: "error", Error: err.Error()})
		return
	}
	defer orch.Stop()

	s.serveScanSession(r, conn, orch, log)
}

func (s *Server) serveScanSession(r *http.Request, conn *websocket.Conn, orch *scan.Orchestrator, log *sink.Memory) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Keepalive pings.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		websocketMessagesTotal.WithLabelValues("received").Inc()

		switch messageType {
		case websocket.TextMessage:
			if !s.handleScanControl(r, conn, orch, log, data) {
				return
			}
		case websocket.BinaryMessage:
			s.handleScanFrame(r, conn, orch, data)
		}
	}
}

// handleScanControl processes start/stop messages; returning false ends the
// session loop.
func (s *Server) handleScanControl(r *http.Request, conn *websocket.Conn, orch *scan.Orchestrator,
	log *sink.Memory, data []byte,
) bool {
	var msg WebSocketMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendMessage(conn, WebSocketMessage{Type: "error", Error: "malformed control message"})
		return true
	}
	switch msg.Type {
	case "start":
		orch.Start()
		s.sendMessage(conn, WebSocketMessage{Type: "started"})
	case "stop":
		orch.Stop()
		s.sendMessage(conn, WebSocketMessage{Type: "stopped", Count: log.Len()})
	default:
		s.sendMessage(conn, WebSocketMessage{Type: "error", Error: "unknown message type"})
	}
	return true
}

// handleScanFrame decodes one pushed frame and runs a tick.
func (s *Server) handleScanFrame(r *http.Request, conn *websocket.Conn, orch *scan.Orchestrator, data []byte) {
	img, err := utils.DecodeImageBytes(data)
	if err != nil {
		s.sendMessage(conn, WebSocketMessage{Type: "error", Error: "could not decode frame"})
		return
	}
	start := time.Now()
	reading, err := orch.Tick(r.Context(), pixbuf.FromImage(img))
	decodeDuration.WithLabelValues("ws").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("sink rejected reading", "error", err)
		s.sendMessage(conn, WebSocketMessage{Type: "error", Error: "failed to record reading"})
		return
	}
	if reading != nil {
		decodeRequestsTotal.WithLabelValues("ws", "ok").Inc()
		readingsCommitted.WithLabelValues(reading.SourceTag).Inc()
		s.sendMessage(conn, WebSocketMessage{Type: "reading", Reading: reading})
	}
}

func (s *Server) sendMessage(conn *websocket.Conn, msg WebSocketMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal WebSocket message", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to write WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
