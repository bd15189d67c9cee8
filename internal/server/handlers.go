package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/validate"
	"github.com/adflow-io/adflow/internal/version"
)

const (
	formatText = "text"
	formatSRT  = "srt"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// voicesHandler returns the TTS voice catalog.
func (s *Server) voicesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.registry == nil {
		s.writeErrorResponse(w, "Voice registry not initialized", http.StatusServiceUnavailable)
		return
	}

	profiles := s.registry.Profiles()
	if engineID := r.URL.Query().Get("engine"); engineID != "" {
		profiles = s.registry.ProfilesByEngine(engineID)
	}

	voices := make([]VoiceInfo, len(profiles))
	for i, p := range profiles {
		voices[i] = VoiceInfo{
			ID:       p.ID,
			Name:     p.Name,
			Engine:   p.EngineID,
			Gender:   p.Gender,
			Language: p.Language,
			Style:    p.Style,
			Emotion:  p.SupportsEmotion,
			Cloned:   p.IsCloned,
		}
	}

	response := VoicesResponse{
		Voices: voices,
		Count:  len(voices),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding voices response: %v\n", err)
	}
}

// convertHandler processes PDF conversion requests.
func (s *Server) convertHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Set content length limit
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	// Parse multipart form
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.handleFormParseError(w, err)
		convertRequestsTotal.WithLabelValues("pdf", "error").Inc()
		return
	}

	// Get uploaded file
	file, header, err := r.FormFile("pdf")
	if err != nil {
		s.writeErrorResponse(w, "No PDF file provided", http.StatusBadRequest)
		convertRequestsTotal.WithLabelValues("pdf", "error").Inc()
		return
	}
	defer func() { _ = file.Close() }()

	// Validate file size
	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		convertRequestsTotal.WithLabelValues("pdf", "error").Inc()
		return
	}

	// Record upload size metric
	uploadSizeBytes.Observe(float64(header.Size))

	// The PDF reader works on files, so stage the upload in a temp file.
	tmpPath, err := s.saveUpload(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to store upload", http.StatusInternalServerError)
		convertRequestsTotal.WithLabelValues("pdf", "error").Inc()
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()

	// Run the conversion with timing
	opts := s.parseRequestOptions(r)
	start := time.Now()
	res, err := s.newConverter(opts).Parse(tmpPath)
	duration := time.Since(start)

	if err != nil {
		convertRequestsTotal.WithLabelValues("pdf", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Conversion failed: %v", err), http.StatusInternalServerError)
		return
	}

	// Record successful metrics
	convertRequestsTotal.WithLabelValues("pdf", "success").Inc()
	convertDuration.WithLabelValues("pdf").Observe(duration.Seconds())
	entriesProduced.WithLabelValues("pdf").Observe(float64(len(res.Entries)))

	s.writeConvertResponse(w, r, res)
}

// srtParseHandler parses an uploaded SRT file into cues.
func (s *Server) srtParseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.handleFormParseError(w, err)
		convertRequestsTotal.WithLabelValues("srt", "error").Inc()
		return
	}

	file, header, err := r.FormFile("srt")
	if err != nil {
		s.writeErrorResponse(w, "No SRT file provided", http.StatusBadRequest)
		convertRequestsTotal.WithLabelValues("srt", "error").Inc()
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		convertRequestsTotal.WithLabelValues("srt", "error").Inc()
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read SRT data", http.StatusInternalServerError)
		convertRequestsTotal.WithLabelValues("srt", "error").Inc()
		return
	}

	// An SRT without cues is an empty result, not an error.
	entries := srt.ParseText(srt.DecodeText(data))
	convertRequestsTotal.WithLabelValues("srt", "success").Inc()

	response := SRTParseResponse{
		Success:    true,
		Entries:    entries,
		Count:      len(entries),
		DurationMS: srt.TotalDuration(entries),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding SRT parse response: %v\n", err)
	}
}

// saveUpload copies an uploaded file into a temp file and returns its path.
func (s *Server) saveUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "adflow-upload-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// parseRequestOptions merges per-request form fields over the server's
// default parse options. Absent fields keep the defaults.
func (s *Server) parseRequestOptions(r *http.Request) script.Options {
	opts := s.parseOpts
	if v, err := strconv.ParseBool(r.FormValue("remove_slashes")); err == nil {
		opts.RemoveSlashes = v
	}
	if v, err := strconv.ParseBool(r.FormValue("remove_periods")); err == nil {
		opts.RemovePeriods = v
	}
	if v, err := strconv.ParseBool(r.FormValue("include_brackets")); err == nil {
		opts.IncludeBrackets = v
	}
	return opts
}

// validateRequested reports whether the request wants entry validation.
// Validation runs unless explicitly switched off.
func validateRequested(r *http.Request) bool {
	v, err := strconv.ParseBool(r.FormValue("validate"))
	if err != nil {
		return true
	}
	return v
}

func (s *Server) handleFormParseError(w http.ResponseWriter, err error) {
	// Distinguish body-too-large from generic parse error
	if strings.Contains(strings.ToLower(err.Error()), "body too large") ||
		strings.Contains(strings.ToLower(err.Error()), "request body too large") {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
	} else {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
	}
}

func (s *Server) writeConvertResponse(w http.ResponseWriter, r *http.Request, res *script.Result) {
	// Determine output format: default json; allow 'format' in query or form
	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	if format == formatSRT {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(srt.Generate(res.Entries, s.genOpts))); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing SRT response: %v\n", err)
		}
		return
	}

	if format == formatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		s.writeConvertTextResponse(w, res)
		return
	}

	// default: json
	response := ConvertResponse{
		Success: true,
		Entries: res.Entries,
		Stats:   convertStats(res),
	}
	if validateRequested(r) {
		v := validate.Compare(res)
		response.Validation = &v
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding convert response: %v\n", err)
	}
}

// writeConvertTextResponse writes a plain text listing of the entries.
func (s *Server) writeConvertTextResponse(w http.ResponseWriter, res *script.Result) {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Pages: %d\n", res.PageCount))
	output.WriteString(fmt.Sprintf("Anchors: %d\n", res.AnchorCount))
	output.WriteString(fmt.Sprintf("Entries: %d\n\n", len(res.Entries)))

	for _, entry := range res.Entries {
		output.WriteString(fmt.Sprintf("#%d %s %s\n", entry.Index, entry.Timecode, entry.Text))
	}

	if _, err := w.Write([]byte(output.String())); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing response: %v\n", err)
	}
}

func convertStats(res *script.Result) *ConvertStats {
	return &ConvertStats{
		Pages:      res.PageCount,
		Words:      res.WordCount,
		Underlines: res.UnderlineCount,
		Anchors:    res.AnchorCount,
		Entries:    len(res.Entries),
		ElapsedMS:  res.Elapsed.Milliseconds(),
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ConvertResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
