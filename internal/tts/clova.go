package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adflow-io/adflow/internal/audio"
)

const (
	clovaAPIURL  = "https://naveropenapi.apigw.ntruss.com/tts-premium/v1/tts"
	clovaTimeout = 30 * time.Second
)

// clovaVoices is the fixed voice catalog of the CLOVA Premium API.
var clovaVoices = []Voice{
	{ID: "vdain", Name: "다인", Gender: "female", Language: "ko-KR", Style: "차분한 톤", Description: "AD 나레이션에 적합", SupportsEmotion: true},
	{ID: "vhyeri", Name: "혜리", Gender: "female", Language: "ko-KR", Style: "밝은 톤", Description: "밝고 경쾌한 느낌"},
	{ID: "vyuna", Name: "유나", Gender: "female", Language: "ko-KR", Style: "또렷한 톤", Description: "명확한 발음", SupportsEmotion: true},
	{ID: "vmijin", Name: "미진", Gender: "female", Language: "ko-KR", Style: "부드러운 톤", Description: "부드럽고 차분함"},
	{ID: "vdaeseong", Name: "대성", Gender: "male", Language: "ko-KR", Style: "차분한 톤", Description: "남성 나레이션"},
	{ID: "nara", Name: "나라", Gender: "female", Language: "ko-KR", Style: "기본", Description: "기본 여성 음성"},
	{ID: "nminsang", Name: "민상", Gender: "male", Language: "ko-KR", Style: "기본", Description: "기본 남성 음성"},
	{ID: "njihun", Name: "지훈", Gender: "male", Language: "ko-KR", Style: "뉴스", Description: "뉴스 앵커 스타일"},
	{ID: "njiyun", Name: "지윤", Gender: "female", Language: "ko-KR", Style: "뉴스", Description: "뉴스 앵커 스타일"},
	{ID: "nsujin", Name: "수진", Gender: "female", Language: "ko-KR", Style: "밝은 톤", Description: "밝은 여성 음성"},
}

// ClovaEngine synthesizes speech through the NAVER CLOVA Premium voice API.
type ClovaEngine struct {
	clientID     string
	clientSecret string
	apiURL       string
	client       *http.Client
}

// NewClovaEngine creates a CLOVA engine with the given API credentials.
// Both credentials may be empty; the engine then reports itself unavailable.
func NewClovaEngine(clientID, clientSecret string) *ClovaEngine {
	return &ClovaEngine{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       clovaAPIURL,
		client:       &http.Client{Timeout: clovaTimeout},
	}
}

// ID returns "clova".
func (e *ClovaEngine) ID() string { return "clova" }

// Name returns the display name of the engine.
func (e *ClovaEngine) Name() string { return "NAVER CLOVA" }

// Capabilities describes the CLOVA API feature set. Emotion is only
// honored by a subset of voices; see Voice.SupportsEmotion.
func (e *ClovaEngine) Capabilities() Capabilities {
	return Capabilities{
		Type:             EngineCloud,
		SupportsEmotion:  true,
		RequiresAPIKey:   true,
		MaxTextLength:    5000,
		SupportedFormats: []string{"wav", "mp3"},
	}
}

// Voices returns the builtin CLOVA voice catalog.
func (e *ClovaEngine) Voices() []Voice {
	voices := make([]Voice, len(clovaVoices))
	copy(voices, clovaVoices)
	return voices
}

// SetCredentials replaces the API credentials.
func (e *ClovaEngine) SetCredentials(clientID, clientSecret string) {
	e.clientID = clientID
	e.clientSecret = clientSecret
}

func (e *ClovaEngine) hasCredentials() bool {
	return e.clientID != "" && e.clientSecret != ""
}

// Available reports whether API credentials are configured.
func (e *ClovaEngine) Available() (bool, string) {
	if !e.hasCredentials() {
		return false, "API 키가 설정되지 않았습니다"
	}
	return true, "사용 가능"
}

// Synthesize posts the request to the CLOVA API and writes the returned
// audio to req.OutputPath, creating parent directories as needed. A wav
// response that does not decode as a WAV file (the gateway serves error
// documents with status 200 behind some proxies) is removed again and
// reported as an error.
func (e *ClovaEngine) Synthesize(ctx context.Context, req Request) (Result, error) {
	if !e.hasCredentials() {
		return Result{}, fmt.Errorf("%w: API 키가 설정되지 않았습니다", ErrEngineUnavailable)
	}

	format := req.Format
	if format == "" {
		format = "wav"
	}

	form := url.Values{}
	form.Set("speaker", req.VoiceID)
	form.Set("text", req.Text)
	form.Set("volume", strconv.Itoa(req.Volume))
	form.Set("speed", strconv.Itoa(req.Speed))
	form.Set("pitch", strconv.Itoa(req.Pitch))
	form.Set("format", format)
	// Emotion parameters are only accepted for supporting voices.
	if req.Emotion > 0 {
		form.Set("emotion", strconv.Itoa(req.Emotion))
		form.Set("emotion-strength", strconv.Itoa(req.EmotionStrength))
	}

	body, err := e.post(ctx, form)
	if err != nil {
		return Result{}, err
	}

	if dir := filepath.Dir(req.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return Result{}, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(req.OutputPath, body, 0o600); err != nil {
		return Result{}, fmt.Errorf("writing audio file: %w", err)
	}

	res := Result{OutputPath: req.OutputPath}
	if format == "wav" {
		if !audio.IsValid(req.OutputPath) {
			_ = os.Remove(req.OutputPath)
			return Result{}, errors.New("응답이 유효한 WAV 파일이 아닙니다")
		}
		res.DurationMS = audio.Duration(req.OutputPath)
	}
	return res, nil
}

// TestConnection issues a minimal synthesis request to verify the
// credentials without writing any output.
func (e *ClovaEngine) TestConnection(ctx context.Context) (bool, string) {
	if !e.hasCredentials() {
		return false, "API 키가 설정되지 않았습니다"
	}

	form := url.Values{}
	form.Set("speaker", "nara")
	form.Set("text", "테스트")
	form.Set("volume", "0")
	form.Set("speed", "0")
	form.Set("pitch", "0")
	form.Set("format", "wav")

	if _, err := e.post(ctx, form); err != nil {
		return false, err.Error()
	}
	return true, "연결 성공"
}

func (e *ClovaEngine) post(ctx context.Context, form url.Values) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building CLOVA request: %w", err)
	}
	httpReq.Header.Set("X-NCP-APIGW-API-KEY-ID", e.clientID)
	httpReq.Header.Set("X-NCP-APIGW-API-KEY", e.clientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling CLOVA API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, clovaStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading CLOVA response: %w", err)
	}
	return body, nil
}

func clovaStatusError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return errors.New("인증 실패: API 키를 확인하세요")
	case http.StatusTooManyRequests:
		return errors.New("요청 한도 초과")
	default:
		return fmt.Errorf("HTTP 오류: %d", code)
	}
}
