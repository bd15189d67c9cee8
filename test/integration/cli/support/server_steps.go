package support

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/adflow-io/adflow/internal/config"
	"github.com/adflow-io/adflow/internal/server"
	"github.com/adflow-io/adflow/internal/tts"
)

// HTTPTestServerWrapper runs the real conversion server on an httptest
// listener so API scenarios exercise the production handlers.
type HTTPTestServerWrapper struct {
	Server *httptest.Server
	App    *server.Server
}

// createTestHTTPServer starts the conversion server with default options.
func (testCtx *TestContext) createTestHTTPServer() error {
	cfg := config.DefaultConfig()

	registry := tts.NewRegistry(nil)
	registry.Register(tts.NewClovaEngine("", ""))
	registry.SetSettings(cfg.TTSSettings())

	app := server.NewServer(server.Config{
		CORSOrigin:      "*",
		MaxUploadMB:     50,
		TimeoutSec:      30,
		ParseOptions:    cfg.ParseOptions(),
		GenerateOptions: cfg.GenerateOptions(),
		Registry:        registry,
	})

	mux := http.NewServeMux()
	app.SetupRoutes(mux)

	ts := httptest.NewServer(mux)

	u, err := url.Parse(ts.URL)
	if err != nil {
		ts.Close()
		return fmt.Errorf("failed to parse server URL: %w", err)
	}

	testCtx.ServerHost = u.Hostname()
	if portStr := u.Port(); portStr != "" {
		testCtx.ServerPort, _ = strconv.Atoi(portStr)
	}
	testCtx.HTTPTestServer = &HTTPTestServerWrapper{Server: ts, App: app}

	return nil
}

// stopTestHTTPServer stops the httptest server.
func (testCtx *TestContext) stopTestHTTPServer() error {
	if testCtx.HTTPTestServer != nil && testCtx.HTTPTestServer.Server != nil {
		testCtx.HTTPTestServer.Server.Close()
		testCtx.HTTPTestServer = nil
	}
	return nil
}

// GetServerURL returns the base URL of the running test server.
func (testCtx *TestContext) GetServerURL() string {
	if testCtx.HTTPTestServer != nil && testCtx.HTTPTestServer.Server != nil {
		return testCtx.HTTPTestServer.Server.URL
	}
	return fmt.Sprintf("http://%s:%d", testCtx.ServerHost, testCtx.ServerPort)
}

// theConversionServerIsRunning ensures a test server is up for the scenario.
func (testCtx *TestContext) theConversionServerIsRunning() error {
	if testCtx.HTTPTestServer != nil {
		return nil
	}
	return testCtx.createTestHTTPServer()
}

// recordResponse stores an HTTP response for later assertion steps.
func (testCtx *TestContext) recordResponse(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	testCtx.LastOutput = string(body)
	testCtx.LastHTTPResponse = string(body)
	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastExitCode = 0
	testCtx.LastError = nil
	if resp.StatusCode >= 400 {
		testCtx.LastExitCode = 1
		testCtx.LastError = fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	testCtx.LastHTTPHeaders = make(map[string]string)
	for key, values := range resp.Header {
		if len(values) > 0 {
			testCtx.LastHTTPHeaders[key] = values[0]
		}
	}

	return nil
}

// iGETEndpoint makes a GET request to the given endpoint.
func (testCtx *TestContext) iGETEndpoint(endpoint string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(testCtx.GetServerURL() + endpoint)
	if err != nil {
		testCtx.LastError = err
		testCtx.LastExitCode = 1
		return nil // verification steps report the failure
	}
	return testCtx.recordResponse(resp)
}

// iMakeAnOPTIONSRequestTo makes a CORS preflight request.
func (testCtx *TestContext) iMakeAnOPTIONSRequestTo(endpoint string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequest(http.MethodOptions, testCtx.GetServerURL()+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		testCtx.LastError = err
		testCtx.LastExitCode = 1
		return nil
	}
	return testCtx.recordResponse(resp)
}

// iPOSTToWithoutAFile sends an empty multipart form, exercising the
// missing-upload error path.
func (testCtx *TestContext) iPOSTToWithoutAFile(endpoint string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return testCtx.postForm(endpoint, &buf, writer.FormDataContentType())
}

// iPOSTTheSRTFileTo uploads a fixture SRT file to the given endpoint.
func (testCtx *TestContext) iPOSTTheSRTFileTo(filename, endpoint string) error {
	path := testCtx.tempPath(filename)

	file, err := os.Open(path) //nolint:gosec // G304: paths come from feature files
	if err != nil {
		return fmt.Errorf("failed to open SRT fixture: %w", err)
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("srt", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy SRT data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return testCtx.postForm(endpoint, &buf, writer.FormDataContentType())
}

// postForm sends a multipart POST and records the response.
func (testCtx *TestContext) postForm(endpoint string, body io.Reader, contentType string) error {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequest(http.MethodPost, testCtx.GetServerURL()+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return testCtx.recordResponse(resp)
}

// theResponseStatusShouldBe verifies the HTTP response status.
func (testCtx *TestContext) theResponseStatusShouldBe(expected int) error {
	if testCtx.LastHTTPStatusCode != expected {
		return fmt.Errorf("expected status %d, got %d\nresponse:\n%s",
			expected, testCtx.LastHTTPStatusCode, testCtx.LastHTTPResponse)
	}
	return nil
}

// theResponseShouldBeValidJSON verifies the response body parses as JSON.
func (testCtx *TestContext) theResponseShouldBeValidJSON() error {
	if strings.TrimSpace(testCtx.LastHTTPResponse) == "" {
		return errors.New("response is empty")
	}
	var js json.RawMessage
	if err := json.Unmarshal([]byte(testCtx.LastHTTPResponse), &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w\nresponse:\n%s", err, testCtx.LastHTTPResponse)
	}
	return nil
}

// theJSONResponseShouldContain verifies a dot-separated field path exists in
// the JSON response body.
func (testCtx *TestContext) theJSONResponseShouldContain(fieldPath string) error {
	return jsonHasField(testCtx.LastHTTPResponse, fieldPath)
}

// theResponseShouldContain verifies the response body contains text.
func (testCtx *TestContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastHTTPResponse, expected) {
		return fmt.Errorf("response does not contain %q\nresponse:\n%s",
			expected, testCtx.LastHTTPResponse)
	}
	return nil
}

// accessControlAllowOriginShouldBe verifies the CORS origin header.
func (testCtx *TestContext) accessControlAllowOriginShouldBe(origin string) error {
	got := testCtx.LastHTTPHeaders["Access-Control-Allow-Origin"]
	if got != origin {
		return fmt.Errorf("expected Access-Control-Allow-Origin %q, got %q", origin, got)
	}
	return nil
}

// theResponseShouldIncludeCORSHeaders verifies CORS headers are present.
func (testCtx *TestContext) theResponseShouldIncludeCORSHeaders() error {
	for _, header := range []string{"Access-Control-Allow-Origin", "Access-Control-Allow-Methods"} {
		if testCtx.LastHTTPHeaders[header] == "" {
			return fmt.Errorf("response is missing CORS header %s", header)
		}
	}
	return nil
}

// RegisterServerSteps registers all conversion API step definitions.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the conversion server is running$`, testCtx.theConversionServerIsRunning)

	sc.Step(`^I GET "([^"]*)"$`, testCtx.iGETEndpoint)
	sc.Step(`^I make an OPTIONS request to "([^"]*)"$`, testCtx.iMakeAnOPTIONSRequestTo)
	sc.Step(`^I POST the SRT file "([^"]*)" to "([^"]*)"$`, testCtx.iPOSTTheSRTFileTo)
	sc.Step(`^I POST to "([^"]*)" without a file$`, testCtx.iPOSTToWithoutAFile)

	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should be valid JSON$`, testCtx.theResponseShouldBeValidJSON)
	sc.Step(`^the JSON response should contain "([^"]*)"$`, testCtx.theJSONResponseShouldContain)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
	sc.Step(`^Access-Control-Allow-Origin should be "([^"]*)"$`, testCtx.accessControlAllowOriginShouldBe)
	sc.Step(`^the response should include CORS headers$`, testCtx.theResponseShouldIncludeCORSHeaders)
}
