package tts

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultEngineID is the engine selected when none is configured.
const DefaultEngineID = "clova"

// Settings selects the active voice and the synthesis options applied
// to every request routed through the registry.
type Settings struct {
	VoiceID         string
	Speed           int
	Pitch           int
	Volume          int
	Emotion         int
	EmotionStrength int
}

// DefaultSettings returns the stock voice selection.
func DefaultSettings() Settings {
	return Settings{
		VoiceID:         "clova.vdain",
		EmotionStrength: 1,
	}
}

// Registry tracks the configured TTS engines and their merged voice
// catalog. Construct one in command or server wiring and pass it to
// consumers; there is no process-wide instance.
type Registry struct {
	mu              sync.RWMutex
	engines         map[string]Engine
	profiles        map[string]Profile
	store           *ProfileStore
	defaultEngineID string
	settings        Settings
}

// NewRegistry creates an empty registry. store may be nil when custom
// profile persistence is not needed.
func NewRegistry(store *ProfileStore) *Registry {
	return &Registry{
		engines:         make(map[string]Engine),
		profiles:        make(map[string]Profile),
		store:           store,
		defaultEngineID: DefaultEngineID,
		settings:        DefaultSettings(),
	}
}

// Register adds an engine and rebuilds its voice profiles, dropping any
// stale entries from a previous registration. Custom profiles in the
// store are not touched.
func (r *Registry) Register(engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := engine.ID()
	r.engines[id] = engine

	for key, p := range r.profiles {
		if p.EngineID == id {
			delete(r.profiles, key)
		}
	}
	voices := engine.Voices()
	for _, v := range voices {
		key := id + "." + v.ID
		r.profiles[key] = Profile{
			ID:              key,
			Name:            v.Name,
			EngineID:        id,
			Gender:          v.Gender,
			Language:        v.Language,
			Style:           v.Style,
			SupportsEmotion: v.SupportsEmotion,
		}
	}

	slog.Debug("Registered TTS engine", "engine", id, "voices", len(voices))
}

// Unregister removes an engine and its voice profiles. It reports
// whether the engine was registered.
func (r *Registry) Unregister(engineID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[engineID]; !ok {
		return false
	}
	delete(r.engines, engineID)
	for key, p := range r.profiles {
		if p.EngineID == engineID {
			delete(r.profiles, key)
		}
	}
	return true
}

// Get looks up an engine by ID.
func (r *Registry) Get(engineID string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engines[engineID]
	return e, ok
}

// Engines returns all registered engines sorted by ID.
func (r *Registry) Engines() []Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engines := make([]Engine, 0, len(r.engines))
	for _, e := range r.engines {
		engines = append(engines, e)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i].ID() < engines[j].ID() })
	return engines
}

// Available returns the engines that report themselves ready.
func (r *Registry) Available() []Engine {
	var available []Engine
	for _, e := range r.Engines() {
		if ok, _ := e.Available(); ok {
			available = append(available, e)
		}
	}
	return available
}

// DefaultEngine returns the engine selected as default.
func (r *Registry) DefaultEngine() (Engine, bool) {
	r.mu.RLock()
	id := r.defaultEngineID
	r.mu.RUnlock()
	return r.Get(id)
}

// SetDefaultEngine selects the default engine. The engine must be
// registered.
func (r *Registry) SetDefaultEngine(engineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[engineID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEngine, engineID)
	}
	r.defaultEngineID = engineID
	return nil
}

// Settings returns the current synthesis settings.
func (r *Registry) Settings() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// SetSettings replaces the synthesis settings.
func (r *Registry) SetSettings(s Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = s
}

// Profile looks up a profile by ID, checking engine-provided profiles
// first and the custom store second.
func (r *Registry) Profile(id string) (Profile, bool) {
	r.mu.RLock()
	p, ok := r.profiles[id]
	r.mu.RUnlock()
	if ok {
		return p, true
	}
	if r.store != nil {
		return r.store.Get(id)
	}
	return Profile{}, false
}

// Profiles returns the merged catalog, engine voices first, cloned
// voices last, each group ordered by name.
func (r *Registry) Profiles() []Profile {
	r.mu.RLock()
	profiles := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	r.mu.RUnlock()

	if r.store != nil {
		profiles = append(profiles, r.store.Custom()...)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].IsCloned != profiles[j].IsCloned {
			return !profiles[i].IsCloned
		}
		return profiles[i].Name < profiles[j].Name
	})
	return profiles
}

// ProfilesByEngine filters the catalog to one engine.
func (r *Registry) ProfilesByEngine(engineID string) []Profile {
	var filtered []Profile
	for _, p := range r.Profiles() {
		if p.EngineID == engineID {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// CurrentProfile returns the profile selected by the settings.
func (r *Registry) CurrentProfile() (Profile, bool) {
	return r.Profile(r.Settings().VoiceID)
}

// Synthesize routes text through the engine owning the currently
// selected voice and writes the audio to outputPath.
func (r *Registry) Synthesize(ctx context.Context, text, outputPath string) (Result, error) {
	return r.SynthesizeVoice(ctx, text, outputPath, r.Settings().VoiceID)
}

// SynthesizeVoice is Synthesize with an explicit voice profile ID. The
// remaining options still come from the settings.
func (r *Registry) SynthesizeVoice(ctx context.Context, text, outputPath, voiceID string) (Result, error) {
	profile, ok := r.Profile(voiceID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownVoice, voiceID)
	}
	engine, ok := r.Get(profile.EngineID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownEngine, profile.EngineID)
	}
	if ok, msg := engine.Available(); !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrEngineUnavailable, msg)
	}

	s := r.Settings()
	req := Request{
		Text:            text,
		VoiceID:         voiceKey(voiceID),
		OutputPath:      outputPath,
		Speed:           s.Speed,
		Pitch:           s.Pitch,
		Volume:          s.Volume,
		Emotion:         s.Emotion,
		EmotionStrength: s.EmotionStrength,
		Format:          "wav",
	}
	return engine.Synthesize(ctx, req)
}

// CloneVoice builds a new voice from reference audio on the first
// registered engine that supports cloning (or the named one) and
// persists it as a custom profile.
func (r *Registry) CloneVoice(ctx context.Context, referenceAudio, name, engineID string) (Profile, error) {
	engine, err := r.cloningEngine(engineID)
	if err != nil {
		return Profile{}, err
	}
	cloner := engine.(Cloner)

	voice, err := cloner.CloneVoice(ctx, referenceAudio, name)
	if err != nil {
		return Profile{}, fmt.Errorf("cloning voice: %w", err)
	}

	profile := Profile{
		ID:             "custom." + voice.ID,
		Name:           name,
		EngineID:       engine.ID(),
		Gender:         voice.Gender,
		Language:       voice.Language,
		Style:          voice.Style,
		IsCloned:       true,
		ReferenceAudio: filepath.Base(referenceAudio),
	}
	if r.store != nil {
		if err := r.store.Register(profile); err != nil {
			return Profile{}, err
		}
	}
	return profile, nil
}

// DeleteClonedVoice removes a custom profile and, when the owning
// engine supports cloning, the engine-side voice as well.
func (r *Registry) DeleteClonedVoice(ctx context.Context, profileID string) error {
	if r.store == nil {
		return fmt.Errorf("%w: %s", ErrUnknownVoice, profileID)
	}
	profile, ok := r.store.Get(profileID)
	if !ok || !profile.IsCloned {
		return fmt.Errorf("%w: %s", ErrUnknownVoice, profileID)
	}

	if engine, ok := r.Get(profile.EngineID); ok {
		if cloner, ok := engine.(Cloner); ok && engine.Capabilities().SupportsCloning {
			if err := cloner.DeleteClonedVoice(ctx, voiceKey(profileID)); err != nil {
				return fmt.Errorf("deleting cloned voice: %w", err)
			}
		}
	}

	_, err := r.store.Delete(profileID)
	return err
}

func (r *Registry) cloningEngine(engineID string) (Engine, error) {
	if engineID != "" {
		engine, ok := r.Get(engineID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, engineID)
		}
		if _, ok := engine.(Cloner); !ok || !engine.Capabilities().SupportsCloning {
			return nil, fmt.Errorf("%w: %s", ErrCloningUnsupported, engineID)
		}
		return engine, nil
	}
	for _, engine := range r.Engines() {
		if _, ok := engine.(Cloner); ok && engine.Capabilities().SupportsCloning {
			return engine, nil
		}
	}
	return nil, ErrCloningUnsupported
}

// voiceKey strips the engine prefix from a profile ID, e.g.
// "clova.vdain" -> "vdain".
func voiceKey(profileID string) string {
	if i := strings.LastIndex(profileID, "."); i >= 0 {
		return profileID[i+1:]
	}
	return profileID
}
