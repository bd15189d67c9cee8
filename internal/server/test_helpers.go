package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/tts"
)

// fakeConverter returns a canned parse result instead of reading a PDF.
type fakeConverter struct {
	result *script.Result
	err    error
}

func (f *fakeConverter) Parse(path string) (*script.Result, error) {
	return f.result, f.err
}

// newTestServer builds a server whose converter is replaced by conv.
func newTestServer(conv scriptConverter) *Server {
	s := NewServer(Config{
		CORSOrigin:      "*",
		MaxUploadMB:     50,
		TimeoutSec:      30,
		GenerateOptions: srt.DefaultGenerateOptions(),
	})
	s.newConverter = func(opts script.Options) scriptConverter { return conv }
	return s
}

// sampleParseResult builds a result whose entries agree with the
// underline ground truth, so validation reports it as valid.
func sampleParseResult() *script.Result {
	return &script.Result{
		Entries: []script.Entry{
			{Index: 1, RawTC: "0010", Timecode: "00:00:10:00", TimecodeMS: 10000, Text: "텍스트"},
			{Index: 2, RawTC: "0020", Timecode: "00:00:20:00", TimecodeMS: 20000, Text: "텍스트"},
		},
		AnchorCount:    2,
		UnderlinedText: "텍스트텍스트",
		PageCount:      3,
		WordCount:      120,
		UnderlineCount: 14,
		Elapsed:        42 * time.Millisecond,
	}
}

// stubEngine is a minimal TTS engine for voice listing tests.
type stubEngine struct {
	id     string
	voices []tts.Voice
}

func (e *stubEngine) ID() string   { return e.id }
func (e *stubEngine) Name() string { return e.id }

func (e *stubEngine) Capabilities() tts.Capabilities {
	return tts.Capabilities{Type: tts.EngineCloud}
}

func (e *stubEngine) Voices() []tts.Voice { return e.voices }

func (e *stubEngine) Available() (bool, string) { return true, "" }

func (e *stubEngine) Synthesize(ctx context.Context, req tts.Request) (tts.Result, error) {
	return tts.Result{OutputPath: req.OutputPath}, nil
}

// createMultipartFormRequest builds a multipart upload request against
// target with the file under the given field name.
func createMultipartFormRequest(
	target string,
	field string,
	filename string,
	data []byte,
	extraFields map[string]string,
) (*http.Request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err = part.Write(data); err != nil {
		return nil, err
	}

	for key, value := range extraFields {
		if err = writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}

	if err = writer.Close(); err != nil {
		return nil, err
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req, nil
}
