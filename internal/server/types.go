package server

import (
	"net/http"

	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/tts"
	"github.com/adflow-io/adflow/internal/validate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scriptConverter is the slice of the parser the handlers need. Tests
// substitute canned results without real PDF uploads.
type scriptConverter interface {
	Parse(path string) (*script.Result, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	registry    *tts.Registry
	parseOpts   script.Options
	genOpts     srt.GenerateOptions
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int

	// newConverter builds a parser for one request's options.
	newConverter func(opts script.Options) scriptConverter
}

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	CORSOrigin      string
	MaxUploadMB     int64
	TimeoutSec      int
	ParseOptions    script.Options
	GenerateOptions srt.GenerateOptions
	Registry        *tts.Registry
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type VoiceInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Engine   string `json:"engine"`
	Gender   string `json:"gender"`
	Language string `json:"language"`
	Style    string `json:"style,omitempty"`
	Emotion  bool   `json:"supports_emotion,omitempty"`
	Cloned   bool   `json:"cloned,omitempty"`
}

type VoicesResponse struct {
	Voices []VoiceInfo `json:"voices"`
	Count  int         `json:"count"`
}

// ConvertStats summarizes one conversion for API clients.
type ConvertStats struct {
	Pages      int   `json:"pages"`
	Words      int   `json:"words"`
	Underlines int   `json:"underlines"`
	Anchors    int   `json:"anchors"`
	Entries    int   `json:"entries"`
	ElapsedMS  int64 `json:"elapsed_ms"`
}

type ConvertResponse struct {
	Success    bool             `json:"success"`
	Entries    []script.Entry   `json:"entries,omitempty"`
	Validation *validate.Result `json:"validation,omitempty"`
	Stats      *ConvertStats    `json:"stats,omitempty"`
	Error      string           `json:"error,omitempty"`
}

type SRTParseResponse struct {
	Success    bool        `json:"success"`
	Entries    []srt.Entry `json:"entries,omitempty"`
	Count      int         `json:"count"`
	DurationMS int64       `json:"duration_ms"`
	Error      string      `json:"error,omitempty"`
}

// NewServer creates a new conversion server instance.
func NewServer(config Config) *Server {
	return &Server{
		registry:    config.Registry,
		parseOpts:   config.ParseOptions,
		genOpts:     config.GenerateOptions,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
		newConverter: func(opts script.Options) scriptConverter {
			return script.NewParser(opts)
		},
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/voices", s.corsMiddleware(s.voicesHandler))
	mux.HandleFunc("/convert", s.corsMiddleware(s.convertHandler))
	mux.HandleFunc("/srt/parse", s.corsMiddleware(s.srtParseHandler))
	// The upgrade needs the raw http.Hijacker, so the websocket route
	// stays outside the CORS wrapper; the upgrader checks origin itself.
	mux.HandleFunc("/ws/convert", s.convertWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
