package tts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_voices.json")

	store, err := OpenProfileStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Custom())

	require.NoError(t, store.Register(Profile{
		ID: "custom.narrator1", Name: "내레이터", EngineID: "voiceforge",
		Gender: "female", Language: "ko-KR", ReferenceAudio: "sample.wav",
	}))
	require.NoError(t, store.Register(Profile{
		ID: "custom.announcer", Name: "아나운서", EngineID: "voiceforge",
		Gender: "male", Language: "ko-KR",
	}))

	reloaded, err := OpenProfileStore(path)
	require.NoError(t, err)

	p, ok := reloaded.Get("custom.narrator1")
	require.True(t, ok)
	assert.Equal(t, "내레이터", p.Name)
	assert.True(t, p.IsCloned)
	assert.NotEmpty(t, p.CreatedAt)
	assert.Equal(t, "sample.wav", p.ReferenceAudio)

	custom := reloaded.Custom()
	require.Len(t, custom, 2)
	assert.Equal(t, "내레이터", custom[0].Name)
	assert.Equal(t, "아나운서", custom[1].Name)
}

func TestProfileStoreFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "custom_voices.json")

	store, err := OpenProfileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Register(Profile{ID: "custom.v1", Name: "음성", EngineID: "x"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var file map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Contains(t, file, "custom_voices")
}

func TestProfileStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_voices.json")
	store, err := OpenProfileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Register(Profile{ID: "custom.v1", Name: "음성", EngineID: "x"}))

	deleted, err := store.Delete("custom.v1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete("custom.v1")
	require.NoError(t, err)
	assert.False(t, deleted)

	reloaded, err := OpenProfileStore(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Custom())
}

func TestProfileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_voices.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenProfileStore(path)
	require.Error(t, err)
}

func TestProfileStoreKeepsCreatedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom_voices.json")
	store, err := OpenProfileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Register(Profile{
		ID: "custom.v1", Name: "음성", EngineID: "x", CreatedAt: "2024-03-01T09:00:00Z",
	}))

	p, ok := store.Get("custom.v1")
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T09:00:00Z", p.CreatedAt)
}

func TestProfileDisplayName(t *testing.T) {
	engineVoice := Profile{ID: "clova.vdain", Name: "다인", EngineID: "clova", Gender: "female"}
	assert.Equal(t, "다인 (CLOVA, ♀)", engineVoice.DisplayName())

	male := Profile{ID: "clova.vdaeseong", Name: "대성", EngineID: "clova", Gender: "male"}
	assert.Equal(t, "대성 (CLOVA, ♂)", male.DisplayName())

	cloned := Profile{ID: "custom.narrator1", Name: "내레이터", EngineID: "voiceforge", Gender: "female", IsCloned: true}
	assert.Equal(t, "🎤 내레이터 (♀)", cloned.DisplayName())
}

func TestProfileShortInfo(t *testing.T) {
	p := Profile{Gender: "female", Style: "차분한 톤"}
	assert.Equal(t, "여성 / 차분한 톤", p.ShortInfo())

	assert.Equal(t, "남성", Profile{Gender: "male"}.ShortInfo())
	assert.Equal(t, "뉴스", Profile{Style: "뉴스"}.ShortInfo())
	assert.Equal(t, "", Profile{}.ShortInfo())
}
