package batch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adflow-io/adflow/internal/script"
)

func TestProcess_NoPDFFiles(t *testing.T) {
	result, err := Process(context.Background(), []string{}, &Config{Workers: 1})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "no PDF files found")
}

func TestProcess_InvalidPath(t *testing.T) {
	result, err := Process(context.Background(), []string{"/nonexistent/ep.pdf"}, &Config{Workers: 1})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "cannot access")
}

func TestProcess_ConvertsDiscoveredFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeStub(t, filepath.Join(tempDir, "ep01.pdf"))
	writeStub(t, filepath.Join(tempDir, "ep02.pdf"))
	writeStub(t, filepath.Join(tempDir, "notes.txt"))

	config := &Config{
		Workers:  4,
		Validate: true,
		parseFile: func(path string) (*script.Result, error) {
			return fakeParseResult(3), nil
		},
	}

	result, err := Process(context.Background(), []string{tempDir}, config)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	assert.Equal(t, 2, result.Succeeded())
	assert.Zero(t, result.Failed())
	assert.Equal(t, 6, result.TotalEntries())
	assert.Equal(t, 2, result.WorkerCount) // clamped to the job count
	assert.Positive(t, result.Duration)

	for _, item := range result.Items {
		require.NotNil(t, item.Validation)
		assert.True(t, item.Validation.Valid)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	tempDir := t.TempDir()
	writeStub(t, filepath.Join(tempDir, "ep01.pdf"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := &Config{
		Workers: 1,
		parseFile: func(path string) (*script.Result, error) {
			return fakeParseResult(1), nil
		},
	}

	result, err := Process(ctx, []string{tempDir}, config)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 3, workerCount(3, 10))
	assert.Equal(t, 2, workerCount(8, 2))
	assert.Positive(t, workerCount(0, 100))
	assert.Equal(t, 1, workerCount(-1, 1))
}
