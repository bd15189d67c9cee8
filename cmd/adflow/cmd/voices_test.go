package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/adflow-io/adflow/internal/config"
	"github.com/adflow-io/adflow/internal/tts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoicesCommand(t *testing.T) {
	assert.NotNil(t, voicesCmd)
	assert.Equal(t, "voices", voicesCmd.Use)
	assert.NotEmpty(t, voicesCmd.Short)
	assert.NotEmpty(t, voicesCmd.Long)
}

func TestBuildVoiceRegistry(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := buildVoiceRegistry(&cfg)

	_, ok := registry.Get("clova")
	assert.True(t, ok)

	profiles := registry.Profiles()
	assert.NotEmpty(t, profiles)

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	assert.Contains(t, ids, "clova.vdain")

	assert.Equal(t, cfg.TTS.Voice, registry.Settings().VoiceID)
}

func TestVoicesCommandInvalidFormat(t *testing.T) {
	setCommandFlag(t, voicesCmd, "format", "yaml")

	err := runVoices(voicesCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestVoicesCommandUnknownEngine(t *testing.T) {
	setCommandFlag(t, voicesCmd, "engine", "espeak")

	err := runVoices(voicesCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown engine")
}

func TestVoicesCommandTextListing(t *testing.T) {
	buf := new(bytes.Buffer)
	voicesCmd.SetOut(buf)

	require.NoError(t, runVoices(voicesCmd, nil))

	output := buf.String()
	assert.Contains(t, output, "NAVER CLOVA [clova]")
	assert.Contains(t, output, "clova.vdain")
	// No credentials in the default config, so the engine is not ready.
	assert.Contains(t, output, "not ready")
}

func TestVoicesCommandJSONListing(t *testing.T) {
	setCommandFlag(t, voicesCmd, "format", "json")

	buf := new(bytes.Buffer)
	voicesCmd.SetOut(buf)

	require.NoError(t, runVoices(voicesCmd, nil))

	var profiles []tts.Profile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &profiles))
	assert.NotEmpty(t, profiles)
	assert.Equal(t, "clova", profiles[0].EngineID)
}

func TestClonedProfiles(t *testing.T) {
	profiles := []tts.Profile{
		{ID: "clova.vdain"},
		{ID: "custom.mine", IsCloned: true},
	}

	cloned := clonedProfiles(profiles)
	require.Len(t, cloned, 1)
	assert.Equal(t, "custom.mine", cloned[0].ID)

	assert.Empty(t, clonedProfiles(profiles[:1]))
}
