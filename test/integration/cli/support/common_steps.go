package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/adflow-io/adflow/internal/testutil"
)

const commandTimeout = 30 * time.Second

// iRunCommand executes a CLI command and captures its output.
// Commands run inside the scenario temp directory so relative file names
// in feature files resolve to the fixtures created there.
func (testCtx *TestContext) iRunCommand(command string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...) //nolint:gosec // G204: commands come from feature files
	cmd.Dir = testCtx.TempDir

	// Point HOME and XDG config at the temp directory so a developer's
	// real ~/.adflow.yaml or voice profile store cannot leak into scenarios.
	cmd.Env = append(os.Environ(),
		"HOME="+testCtx.TempDir,
		"XDG_CONFIG_HOME="+testCtx.TempDir,
	)
	cmd.Env = append(cmd.Env, testCtx.EnvVars...)

	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	output, err := cmd.CombinedOutput()

	testCtx.LastDuration = time.Since(testCtx.LastStartTime)
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastExitCode = 0

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			testCtx.LastExitCode = exitErr.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	}

	return nil
}

// theCommandShouldSucceed verifies the last command exited with code 0.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command %q failed with exit code %d\noutput:\n%s",
			testCtx.LastCommand, testCtx.LastExitCode, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the last command exited non-zero.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command %q succeeded but was expected to fail\noutput:\n%s",
			testCtx.LastCommand, testCtx.LastOutput)
	}
	return nil
}

// theExitCodeShouldBe verifies the exact exit code of the last command.
func (testCtx *TestContext) theExitCodeShouldBe(expected int) error {
	if testCtx.LastExitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\noutput:\n%s",
			expected, testCtx.LastExitCode, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains the expected text.
func (testCtx *TestContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(testCtx.LastOutput, expected) {
		return fmt.Errorf("output does not contain %q\noutput:\n%s", expected, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldNotContain verifies the output omits the given text.
func (testCtx *TestContext) theOutputShouldNotContain(unexpected string) error {
	if strings.Contains(testCtx.LastOutput, unexpected) {
		return fmt.Errorf("output unexpectedly contains %q\noutput:\n%s", unexpected, testCtx.LastOutput)
	}
	return nil
}

// theErrorShouldMention verifies the failure output mentions the given text,
// ignoring case.
func (testCtx *TestContext) theErrorShouldMention(expected string) error {
	haystack := strings.ToLower(testCtx.LastOutput)
	if testCtx.LastError != nil {
		haystack += "\n" + strings.ToLower(testCtx.LastError.Error())
	}
	if !strings.Contains(haystack, strings.ToLower(expected)) {
		return fmt.Errorf("error output does not mention %q\noutput:\n%s", expected, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldBeValidJSON verifies the output parses as JSON. Log lines
// may precede the payload, so parsing starts at the first brace or bracket.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	payload := jsonPayload(testCtx.LastOutput)
	if payload == "" {
		return fmt.Errorf("no JSON payload found in output:\n%s", testCtx.LastOutput)
	}

	var js json.RawMessage
	if err := json.Unmarshal([]byte(payload), &js); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\noutput:\n%s", err, testCtx.LastOutput)
	}
	return nil
}

// theJSONOutputShouldContain verifies a dot-separated field path exists in
// the JSON output.
func (testCtx *TestContext) theJSONOutputShouldContain(fieldPath string) error {
	payload := jsonPayload(testCtx.LastOutput)
	if payload == "" {
		return fmt.Errorf("no JSON payload found in output:\n%s", testCtx.LastOutput)
	}
	return jsonHasField(payload, fieldPath)
}

// theCommandShouldCompleteWithinSeconds verifies command duration.
func (testCtx *TestContext) theCommandShouldCompleteWithinSeconds(seconds int) error {
	limit := time.Duration(seconds) * time.Second
	if testCtx.LastDuration > limit {
		return fmt.Errorf("command took %v, expected at most %v", testCtx.LastDuration, limit)
	}
	return nil
}

// theFileShouldExist verifies a scenario-relative file exists.
func (testCtx *TestContext) theFileShouldExist(filename string) error {
	path := testCtx.tempPath(filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	return nil
}

// theFileShouldContain verifies a scenario-relative file contains text.
func (testCtx *TestContext) theFileShouldContain(filename, expected string) error {
	path := testCtx.tempPath(filename)
	data, err := os.ReadFile(path) //nolint:gosec // G304: paths come from feature files
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !strings.Contains(string(data), expected) {
		return fmt.Errorf("file %s does not contain %q\ncontent:\n%s", filename, expected, string(data))
	}
	return nil
}

// anSRTFileContaining writes an SRT fixture into the scenario directory.
func (testCtx *TestContext) anSRTFileContaining(filename string, content *godog.DocString) error {
	text := content.Content
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := testutil.WriteSRTFile(testCtx.tempPath(filename), text); err != nil {
		return fmt.Errorf("failed to write SRT fixture %s: %w", filename, err)
	}
	return nil
}

// aFileContaining writes an arbitrary text fixture into the scenario directory.
func (testCtx *TestContext) aFileContaining(filename string, content *godog.DocString) error {
	if err := os.WriteFile(testCtx.tempPath(filename), []byte(content.Content), 0o644); err != nil {
		return fmt.Errorf("failed to write fixture %s: %w", filename, err)
	}
	return nil
}

// aClipsDirectory creates an empty clip directory in the scenario directory.
func (testCtx *TestContext) aClipsDirectory(dirname string) error {
	if err := os.MkdirAll(testCtx.tempPath(dirname), 0o750); err != nil {
		return fmt.Errorf("failed to create clips directory %s: %w", dirname, err)
	}
	return nil
}

// aWAVTakeInDirectory writes a silent WAV clip of the given length.
// Clip files are named by the start timecode of their cue, so feature files
// state the name explicitly to document that convention.
func (testCtx *TestContext) aWAVTakeInDirectory(filename string, durationMS int, dirname string) error {
	if err := os.MkdirAll(testCtx.tempPath(dirname), 0o750); err != nil {
		return fmt.Errorf("failed to create clips directory %s: %w", dirname, err)
	}
	path := filepath.Join(testCtx.tempPath(dirname), filename)
	if err := testutil.WriteWAVFile(path, 44100, int64(durationMS)); err != nil {
		return fmt.Errorf("failed to write WAV fixture %s: %w", filename, err)
	}
	return nil
}

// jsonPayload extracts the JSON document from mixed output by scanning for
// the first opening brace or bracket.
func jsonPayload(output string) string {
	for i, r := range output {
		if r == '{' || r == '[' {
			return strings.TrimSpace(output[i:])
		}
	}
	return ""
}

// jsonHasField walks a dot-separated path through a JSON document.
func jsonHasField(payload, fieldPath string) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return fmt.Errorf("output is not valid JSON: %w", err)
	}

	current := doc
	for _, key := range strings.Split(fieldPath, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return fmt.Errorf("field %q not found: %q is not an object", fieldPath, key)
		}
		current, ok = obj[key]
		if !ok {
			return fmt.Errorf("field %q not found in JSON", fieldPath)
		}
	}
	return nil
}

// registerExecutionSteps wires command execution and exit status steps.
func (testCtx *TestContext) registerExecutionSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the exit code should be (\d+)$`, testCtx.theExitCodeShouldBe)
	sc.Step(`^the command should complete within (\d+) seconds$`, testCtx.theCommandShouldCompleteWithinSeconds)
}

// registerOutputSteps wires stdout/stderr assertion steps.
func (testCtx *TestContext) registerOutputSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the JSON output should contain "([^"]*)"$`, testCtx.theJSONOutputShouldContain)
}

// registerFileSteps wires filesystem assertion steps.
func (testCtx *TestContext) registerFileSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
}

// registerFixtureSteps wires SRT and WAV fixture creation steps.
func (testCtx *TestContext) registerFixtureSteps(sc *godog.ScenarioContext) {
	sc.Step(`^an SRT file "([^"]*)" containing:$`, testCtx.anSRTFileContaining)
	sc.Step(`^a file "([^"]*)" containing:$`, testCtx.aFileContaining)
	sc.Step(`^a clips directory "([^"]*)"$`, testCtx.aClipsDirectory)
	sc.Step(`^a WAV take "([^"]*)" of (\d+) ms in "([^"]*)"$`, testCtx.aWAVTakeInDirectory)
}

// RegisterCommonSteps registers all shared step definitions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	testCtx.registerExecutionSteps(sc)
	testCtx.registerOutputSteps(sc)
	testCtx.registerFileSteps(sc)
	testCtx.registerFixtureSteps(sc)
}
