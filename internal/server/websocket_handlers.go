package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/validate"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketConvertRequest is a conversion request via WebSocket. The PDF
// payload travels base64-encoded inside the JSON message.
type WebSocketConvertRequest struct {
	Type     string                 `json:"type"` // "pdf"
	PDF      []byte                 `json:"pdf,omitempty"`
	Filename string                 `json:"filename,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// WebSocketConvertResponse is a conversion response via WebSocket.
type WebSocketConvertResponse struct {
	Type      string      `json:"type"`
	Status    string      `json:"status"` // "processing", "completed", "error"
	Progress  float64     `json:"progress,omitempty"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// convertWebSocketHandler handles WebSocket connections for streaming
// conversion with progress updates.
func (s *Server) convertWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// Increment active connections metric
	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "client", getClientIP(r))

	// Handle the WebSocket connection
	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		// Read message from client
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		// Record message metric
		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage processes a WebSocket message.
func (s *Server) handleWebSocketMessage(conn WebSocketConnWriter, data []byte) {
	var req WebSocketConvertRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	// Generate a request ID for tracking
	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	// Send processing start message
	s.sendWebSocketResponse(conn, WebSocketConvertResponse{
		Type:      "convert_response",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	// Process the request based on type
	switch req.Type {
	case "pdf":
		s.processWebSocketPDF(conn, req, requestID)
	default:
		s.sendWebSocketError(conn, "invalid_request", "Unsupported request type: "+req.Type)
	}
}

// processWebSocketPDF converts a PDF received over WebSocket, streaming
// progress along the way.
func (s *Server) processWebSocketPDF(conn WebSocketConnWriter, req WebSocketConvertRequest, requestID string) {
	if len(req.PDF) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No PDF data provided")
		return
	}

	// The PDF reader works on files, so stage the payload in a temp file.
	tmpPath, err := s.saveUpload(bytes.NewReader(req.PDF))
	if err != nil {
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Failed to store upload: %v", err))
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()

	// Send progress update
	s.sendWebSocketResponse(conn, WebSocketConvertResponse{
		Type:      "convert_response",
		Status:    "processing",
		Progress:  0.2,
		RequestID: requestID,
	})

	// Extract conversion options
	opts, validateEntries := s.extractConvertOptions(req.Options)

	// Run the conversion
	start := time.Now()
	res, err := s.newConverter(opts).Parse(tmpPath)
	duration := time.Since(start)

	if err != nil {
		convertRequestsTotal.WithLabelValues("websocket", "error").Inc()
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Conversion failed: %v", err))
		return
	}

	// Record metrics
	convertRequestsTotal.WithLabelValues("websocket", "success").Inc()
	convertDuration.WithLabelValues("websocket").Observe(duration.Seconds())
	entriesProduced.WithLabelValues("websocket").Observe(float64(len(res.Entries)))

	result := ConvertResponse{
		Success: true,
		Entries: res.Entries,
		Stats:   convertStats(res),
	}
	if validateEntries {
		v := validate.Compare(res)
		result.Validation = &v
	}

	// Send completion response
	s.sendWebSocketResponse(conn, WebSocketConvertResponse{
		Type:      "convert_response",
		Status:    "completed",
		Progress:  1.0,
		Result:    result,
		RequestID: requestID,
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketConvertResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// extractConvertOptions merges WebSocket options over the server's
// defaults and reports whether validation is wanted.
func (s *Server) extractConvertOptions(options map[string]interface{}) (script.Options, bool) {
	opts := s.parseOpts
	validateEntries := true

	if options == nil {
		return opts, validateEntries
	}

	if v, ok := boolOption(options, "remove_slashes"); ok {
		opts.RemoveSlashes = v
	}
	if v, ok := boolOption(options, "remove_periods"); ok {
		opts.RemovePeriods = v
	}
	if v, ok := boolOption(options, "include_brackets"); ok {
		opts.IncludeBrackets = v
	}
	if v, ok := boolOption(options, "validate"); ok {
		validateEntries = v
	}

	return opts, validateEntries
}

// boolOption reads a bool option that clients may send as a JSON bool
// or as a string flag.
func boolOption(options map[string]interface{}, key string) (bool, bool) {
	switch v := options[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	response := WebSocketConvertResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket error response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket error message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
