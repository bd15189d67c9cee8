package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWebSocketConn records messages written through WebSocketConnWriter.
type mockWebSocketConn struct {
	sentMessages []sentMessage
}

type sentMessage struct {
	messageType int
	data        []byte
}

func (m *mockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.sentMessages = append(m.sentMessages, sentMessage{
		messageType: messageType,
		data:        data,
	})
	return nil
}

// convertResult mirrors WebSocketConvertResponse with a typed Result for
// decoding completed messages.
type convertResult struct {
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Progress  float64         `json:"progress"`
	Result    ConvertResponse `json:"result"`
	Error     string          `json:"error"`
	ErrorType string          `json:"error_type"`
	RequestID string          `json:"request_id"`
}

func decodeSent(t *testing.T, msg sentMessage) convertResult {
	t.Helper()
	var response convertResult
	require.NoError(t, json.Unmarshal(msg.data, &response))
	return response
}

func TestServer_ExtractConvertOptions(t *testing.T) {
	t.Run("nil options keep server defaults", func(t *testing.T) {
		server := &Server{}
		server.parseOpts.RemoveSlashes = true

		opts, validateEntries := server.extractConvertOptions(nil)
		assert.True(t, opts.RemoveSlashes)
		assert.False(t, opts.RemovePeriods)
		assert.True(t, validateEntries)
	})

	t.Run("empty options keep server defaults", func(t *testing.T) {
		server := &Server{}

		opts, validateEntries := server.extractConvertOptions(map[string]interface{}{})
		assert.False(t, opts.RemoveSlashes)
		assert.True(t, validateEntries)
	})

	t.Run("bool values", func(t *testing.T) {
		server := &Server{}
		options := map[string]interface{}{
			"remove_slashes":   true,
			"remove_periods":   true,
			"include_brackets": true,
			"validate":         false,
		}

		opts, validateEntries := server.extractConvertOptions(options)
		assert.True(t, opts.RemoveSlashes)
		assert.True(t, opts.RemovePeriods)
		assert.True(t, opts.IncludeBrackets)
		assert.False(t, validateEntries)
	})

	t.Run("string values", func(t *testing.T) {
		server := &Server{}
		options := map[string]interface{}{
			"remove_slashes": "true",
			"validate":       "0",
		}

		opts, validateEntries := server.extractConvertOptions(options)
		assert.True(t, opts.RemoveSlashes)
		assert.False(t, validateEntries)
	})

	t.Run("unparseable string is ignored", func(t *testing.T) {
		server := &Server{}
		options := map[string]interface{}{
			"remove_slashes": "maybe",
		}

		opts, validateEntries := server.extractConvertOptions(options)
		assert.False(t, opts.RemoveSlashes)
		assert.True(t, validateEntries)
	})

	t.Run("request overrides server default", func(t *testing.T) {
		server := &Server{}
		server.parseOpts.RemoveSlashes = true
		options := map[string]interface{}{
			"remove_slashes": false,
		}

		opts, _ := server.extractConvertOptions(options)
		assert.False(t, opts.RemoveSlashes)
	})
}

func TestServer_SendWebSocketResponse(t *testing.T) {
	server := &Server{}
	conn := &mockWebSocketConn{}

	server.sendWebSocketResponse(conn, WebSocketConvertResponse{
		Type:      "convert_response",
		Status:    "processing",
		Progress:  0.2,
		RequestID: "42",
	})

	require.Len(t, conn.sentMessages, 1)
	assert.Equal(t, websocket.TextMessage, conn.sentMessages[0].messageType)

	response := decodeSent(t, conn.sentMessages[0])
	assert.Equal(t, "convert_response", response.Type)
	assert.Equal(t, "processing", response.Status)
	assert.InDelta(t, 0.2, response.Progress, 0.001)
	assert.Equal(t, "42", response.RequestID)
}

func TestServer_SendWebSocketError(t *testing.T) {
	server := &Server{}
	conn := &mockWebSocketConn{}

	server.sendWebSocketError(conn, "invalid_request", "No PDF data provided")

	require.Len(t, conn.sentMessages, 1)

	response := decodeSent(t, conn.sentMessages[0])
	assert.Equal(t, "error", response.Type)
	assert.Equal(t, "error", response.Status)
	assert.Equal(t, "invalid_request", response.ErrorType)
	assert.Equal(t, "No PDF data provided", response.Error)
}

func TestServer_HandleWebSocketMessage(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		server := newTestServer(&fakeConverter{result: sampleParseResult()})
		conn := &mockWebSocketConn{}

		server.handleWebSocketMessage(conn, []byte("{not json"))

		require.Len(t, conn.sentMessages, 1)
		response := decodeSent(t, conn.sentMessages[0])
		assert.Equal(t, "error", response.Status)
		assert.Equal(t, "invalid_request", response.ErrorType)
	})

	t.Run("unsupported request type", func(t *testing.T) {
		server := newTestServer(&fakeConverter{result: sampleParseResult()})
		conn := &mockWebSocketConn{}

		server.handleWebSocketMessage(conn, []byte(`{"type":"audio"}`))

		require.Len(t, conn.sentMessages, 2)
		assert.Equal(t, "processing", decodeSent(t, conn.sentMessages[0]).Status)

		response := decodeSent(t, conn.sentMessages[1])
		assert.Equal(t, "error", response.Status)
		assert.Contains(t, response.Error, "Unsupported request type")
	})

	t.Run("empty pdf payload", func(t *testing.T) {
		server := newTestServer(&fakeConverter{result: sampleParseResult()})
		conn := &mockWebSocketConn{}

		server.handleWebSocketMessage(conn, []byte(`{"type":"pdf"}`))

		require.Len(t, conn.sentMessages, 2)

		response := decodeSent(t, conn.sentMessages[1])
		assert.Equal(t, "error", response.Status)
		assert.Contains(t, response.Error, "No PDF data provided")
	})

	t.Run("successful conversion streams progress", func(t *testing.T) {
		server := newTestServer(&fakeConverter{result: sampleParseResult()})
		conn := &mockWebSocketConn{}

		payload, err := json.Marshal(WebSocketConvertRequest{
			Type:     "pdf",
			PDF:      []byte("%PDF-1.4 fake content"),
			Filename: "ep01.pdf",
		})
		require.NoError(t, err)

		server.handleWebSocketMessage(conn, payload)

		require.Len(t, conn.sentMessages, 3)

		first := decodeSent(t, conn.sentMessages[0])
		assert.Equal(t, "processing", first.Status)
		assert.InDelta(t, 0.0, first.Progress, 0.001)
		assert.NotEmpty(t, first.RequestID)

		second := decodeSent(t, conn.sentMessages[1])
		assert.Equal(t, "processing", second.Status)
		assert.InDelta(t, 0.2, second.Progress, 0.001)
		assert.Equal(t, first.RequestID, second.RequestID)

		final := decodeSent(t, conn.sentMessages[2])
		assert.Equal(t, "completed", final.Status)
		assert.InDelta(t, 1.0, final.Progress, 0.001)
		assert.Equal(t, first.RequestID, final.RequestID)

		assert.True(t, final.Result.Success)
		assert.Len(t, final.Result.Entries, 2)
		require.NotNil(t, final.Result.Validation)
		assert.True(t, final.Result.Validation.Valid)
		require.NotNil(t, final.Result.Stats)
		assert.Equal(t, 2, final.Result.Stats.Entries)
	})

	t.Run("validation off via options", func(t *testing.T) {
		server := newTestServer(&fakeConverter{result: sampleParseResult()})
		conn := &mockWebSocketConn{}

		payload, err := json.Marshal(WebSocketConvertRequest{
			Type:    "pdf",
			PDF:     []byte("%PDF-1.4 fake content"),
			Options: map[string]interface{}{"validate": false},
		})
		require.NoError(t, err)

		server.handleWebSocketMessage(conn, payload)

		require.Len(t, conn.sentMessages, 3)
		final := decodeSent(t, conn.sentMessages[2])
		assert.Equal(t, "completed", final.Status)
		assert.Nil(t, final.Result.Validation)
	})

	t.Run("conversion failure", func(t *testing.T) {
		server := newTestServer(&fakeConverter{err: errors.New("broken xref table")})
		conn := &mockWebSocketConn{}

		payload, err := json.Marshal(WebSocketConvertRequest{
			Type: "pdf",
			PDF:  []byte("%PDF-1.4 fake content"),
		})
		require.NoError(t, err)

		server.handleWebSocketMessage(conn, payload)

		require.Len(t, conn.sentMessages, 3)

		response := decodeSent(t, conn.sentMessages[2])
		assert.Equal(t, "error", response.Status)
		assert.Equal(t, "processing_error", response.ErrorType)
		assert.Contains(t, response.Error, "broken xref table")
	})
}

func TestServer_WebSocketConvert_EndToEnd(t *testing.T) {
	server := newTestServer(&fakeConverter{result: sampleParseResult()})
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/convert"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer func() { _ = conn.Close() }()

	payload, err := json.Marshal(WebSocketConvertRequest{
		Type:     "pdf",
		PDF:      []byte("%PDF-1.4 fake content"),
		Filename: "ep01.pdf",
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var statuses []string
	var final convertResult
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg convertResult
		require.NoError(t, json.Unmarshal(data, &msg))
		statuses = append(statuses, msg.Status)

		if msg.Status == "completed" || msg.Status == "error" {
			final = msg
			break
		}
	}

	assert.Equal(t, []string{"processing", "processing", "completed"}, statuses)
	assert.InDelta(t, 1.0, final.Progress, 0.001)
	assert.True(t, final.Result.Success)
	assert.Len(t, final.Result.Entries, 2)
}
