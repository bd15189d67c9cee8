// Package tts provides text-to-speech engines and a registry that
// unifies their voice catalogs. Engines are external-call wrappers;
// audio inspection lives in the audio package.
package tts

import (
	"context"
	"errors"
)

// EngineType classifies how an engine produces audio.
type EngineType string

const (
	// EngineCloud marks engines backed by a remote API (CLOVA, Google, Azure).
	EngineCloud EngineType = "cloud"
	// EngineLocal marks engines that synthesize on the local machine.
	EngineLocal EngineType = "local"
	// EngineClone marks local engines that can clone voices from reference audio.
	EngineClone EngineType = "clone"
)

// Sentinel errors returned by the registry when a synthesis request
// cannot be routed to an engine.
var (
	ErrUnknownVoice       = errors.New("unknown voice")
	ErrUnknownEngine      = errors.New("unknown engine")
	ErrEngineUnavailable  = errors.New("engine unavailable")
	ErrCloningUnsupported = errors.New("engine does not support voice cloning")
)

// Capabilities describes what an engine supports.
type Capabilities struct {
	Type             EngineType
	SupportsCloning  bool
	SupportsEmotion  bool
	SupportsSSML     bool
	RequiresAPIKey   bool
	MaxTextLength    int
	SupportedFormats []string
}

// Voice describes a single voice offered by an engine.
type Voice struct {
	ID              string
	Name            string
	Gender          string // "male" / "female"
	Language        string
	Style           string
	Description     string
	SupportsEmotion bool
}

// Request carries the parameters for one synthesis call. Speed, Pitch
// and Volume range -5..+5; Emotion is 0 (neutral), 1 (sad) or 2 (happy)
// with EmotionStrength 0..2. An empty Format defaults to "wav".
type Request struct {
	Text            string
	VoiceID         string
	OutputPath      string
	Speed           int
	Pitch           int
	Volume          int
	Emotion         int
	EmotionStrength int
	Format          string
}

// Result reports a completed synthesis.
type Result struct {
	OutputPath string
	DurationMS int64
}

// Engine is implemented by every TTS backend.
type Engine interface {
	// ID returns the stable engine identifier, e.g. "clova".
	ID() string
	// Name returns the human-readable engine name.
	Name() string
	Capabilities() Capabilities
	Voices() []Voice
	// Available reports whether the engine can synthesize right now,
	// with a user-facing status message.
	Available() (bool, string)
	Synthesize(ctx context.Context, req Request) (Result, error)
}

// Cloner is implemented by engines that can build new voices from
// reference audio.
type Cloner interface {
	CloneVoice(ctx context.Context, referenceAudio, name string) (Voice, error)
	DeleteClonedVoice(ctx context.Context, voiceID string) error
}
