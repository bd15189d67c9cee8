package tts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profile is one entry in the unified voice catalog, either provided by
// an engine or cloned by the user. The ID is "<engine>.<voice>" for
// engine voices and "custom.<voice>" for cloned ones.
type Profile struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	EngineID        string   `json:"engine_id"`
	Gender          string   `json:"gender"`
	Language        string   `json:"language"`
	Style           string   `json:"style,omitempty"`
	SupportsEmotion bool     `json:"supports_emotion,omitempty"`
	IsCloned        bool     `json:"is_cloned,omitempty"`
	ReferenceAudio  string   `json:"reference_audio,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// DisplayName renders the profile for listings.
func (p Profile) DisplayName() string {
	icon := "♂"
	if p.Gender == "female" {
		icon = "♀"
	}
	if p.IsCloned {
		return fmt.Sprintf("🎤 %s (%s)", p.Name, icon)
	}
	return fmt.Sprintf("%s (%s, %s)", p.Name, strings.ToUpper(p.EngineID), icon)
}

// ShortInfo renders gender and style as a one-line description.
func (p Profile) ShortInfo() string {
	var parts []string
	switch p.Gender {
	case "female":
		parts = append(parts, "여성")
	case "male":
		parts = append(parts, "남성")
	}
	if p.Style != "" {
		parts = append(parts, p.Style)
	}
	return strings.Join(parts, " / ")
}

// profileFile is the on-disk JSON layout.
type profileFile struct {
	CustomVoices []Profile `json:"custom_voices"`
}

// ProfileStore persists custom (cloned) voice profiles as a JSON file.
// Engine-provided profiles are rebuilt at registration time and never
// stored here.
type ProfileStore struct {
	path string

	mu     sync.Mutex
	custom map[string]Profile
}

// DefaultProfilePath returns the per-user profile location,
// ~/.adflow/custom_voices.json.
func DefaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".adflow", "custom_voices.json"), nil
}

// OpenProfileStore loads the store at path. A missing file yields an
// empty store; malformed JSON is an error.
func OpenProfileStore(path string) (*ProfileStore, error) {
	s := &ProfileStore{
		path:   path,
		custom: make(map[string]Profile),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading voice profiles: %w", err)
	}

	var file profileFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing voice profiles %s: %w", path, err)
	}
	for _, p := range file.CustomVoices {
		s.custom[p.ID] = p
	}
	return s, nil
}

// Path returns the backing file location.
func (s *ProfileStore) Path() string { return s.path }

// Register adds or replaces a custom profile and saves the store.
// IsCloned is forced on and CreatedAt is stamped when empty.
func (s *ProfileStore) Register(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.IsCloned = true
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().Format(time.RFC3339)
	}
	s.custom[p.ID] = p
	return s.save()
}

// Delete removes a custom profile and saves the store. It reports
// whether a profile with the given ID existed.
func (s *ProfileStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.custom[id]; !ok {
		return false, nil
	}
	delete(s.custom, id)
	return true, s.save()
}

// Get looks up a custom profile by ID.
func (s *ProfileStore) Get(id string) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.custom[id]
	return p, ok
}

// Custom returns all custom profiles sorted by name.
func (s *ProfileStore) Custom() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]Profile, 0, len(s.custom))
	for _, p := range s.custom {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles
}

// save writes the store; callers hold s.mu.
func (s *ProfileStore) save() error {
	file := profileFile{CustomVoices: make([]Profile, 0, len(s.custom))}
	for _, p := range s.custom {
		file.CustomVoices = append(file.CustomVoices, p)
	}
	sort.Slice(file.CustomVoices, func(i, j int) bool {
		return file.CustomVoices[i].ID < file.CustomVoices[j].ID
	})

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding voice profiles: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing voice profiles: %w", err)
	}
	return nil
}
