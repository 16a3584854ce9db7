//go:build integration

package steps

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"covertrack/cmd"
	"covertrack/domain/media"

	"github.com/cucumber/godog"
)

// mockFileChecker implements media.FileChecker for scenarios
type mockFileChecker struct {
	existingFiles map[string]bool
	sizes         map[string]int64
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

func (m *mockFileChecker) Size(path string) int64 {
	return m.sizes[path]
}

// mockRemuxer implements media.Remuxer, deriving the output name the way
// the real remuxer does
type mockRemuxer struct {
	codecName  string
	shouldFail bool
	failError  error
	calls      []string
	lastOutput string
}

func (m *mockRemuxer) RemuxFirstAudio(ctx context.Context, inputPath, outputDir string) (*media.RemuxResult, error) {
	m.calls = append(m.calls, inputPath)
	if m.shouldFail {
		return nil, m.failError
	}
	codec := media.ParseCodec(m.codecName)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	m.lastOutput = filepath.Join(outputDir, stem+"."+codec.Extension())
	return &media.RemuxResult{
		OutputPath:     m.lastOutput,
		Codec:          codec,
		PacketsWritten: 100,
	}, nil
}

// extractContext holds test state for extract scenarios
type extractContext struct {
	sourcePath  string
	outputDir   string
	remuxer     *mockRemuxer
	fileChecker *mockFileChecker
	output      *strings.Builder
	err         error
}

// SharedExtractContext is reset before each scenario via Before hook
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedExtractContext = &extractContext{
			remuxer: &mockRemuxer{codecName: "aac", failError: media.ErrNoAudioStream},
			fileChecker: &mockFileChecker{
				existingFiles: make(map[string]bool),
				sizes:         make(map[string]int64),
			},
			output: &strings.Builder{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^the audio output directory is "([^"]*)"$`, theAudioOutputDirectoryIs)
	ctx.Step(`^a source video at "([^"]*)"$`, aSourceVideoAt)
	ctx.Step(`^no source video exists at "([^"]*)"$`, noSourceVideoExistsAt)
	ctx.Step(`^the source's audio codec is "([^"]*)"$`, theSourcesAudioCodecIs)
	ctx.Step(`^the source has no audio stream$`, theSourceHasNoAudioStream)
	ctx.Step(`^I extract audio$`, iExtractAudio)
	ctx.Step(`^I attempt to extract audio$`, iAttemptToExtractAudio)
	ctx.Step(`^the audio output file should be "([^"]*)"$`, theAudioOutputFileShouldBe)
	ctx.Step(`^I should receive an error about a missing source$`, iShouldReceiveAnErrorAboutAMissingSource)
	ctx.Step(`^I should receive an error about a missing audio stream$`, iShouldReceiveAnErrorAboutAMissingAudioStream)
}

func theAudioOutputDirectoryIs(dir string) error {
	getExtractContext().outputDir = dir
	return nil
}

func aSourceVideoAt(path string) error {
	e := getExtractContext()
	e.sourcePath = path
	e.fileChecker.existingFiles[path] = true
	return nil
}

func noSourceVideoExistsAt(path string) error {
	e := getExtractContext()
	e.sourcePath = path
	e.fileChecker.existingFiles[path] = false
	return nil
}

func theSourcesAudioCodecIs(codec string) error {
	getExtractContext().remuxer.codecName = codec
	return nil
}

func theSourceHasNoAudioStream() error {
	e := getExtractContext()
	e.remuxer.shouldFail = true
	e.remuxer.failError = media.ErrNoAudioStream
	return nil
}

func iExtractAudio() error {
	e := getExtractContext()
	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		e.remuxer,
		e.fileChecker,
		e.outputDir,
		e.sourcePath,
		e.output,
	)
	if e.err != nil {
		return fmt.Errorf("unexpected error: %v", e.err)
	}
	return nil
}

func iAttemptToExtractAudio() error {
	e := getExtractContext()
	e.err = cmd.RunExtractAudioWithDependencies(
		context.Background(),
		e.remuxer,
		e.fileChecker,
		e.outputDir,
		e.sourcePath,
		e.output,
	)
	return nil
}

func theAudioOutputFileShouldBe(expected string) error {
	e := getExtractContext()
	if e.remuxer.lastOutput != expected {
		return fmt.Errorf("output file is %q, expected %q", e.remuxer.lastOutput, expected)
	}
	return nil
}

func iShouldReceiveAnErrorAboutAMissingSource() error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected an error, got none")
	}
	if !strings.Contains(e.err.Error(), "not found") && !strings.Contains(e.err.Error(), "does not exist") {
		return fmt.Errorf("error %q does not mention a missing source", e.err)
	}
	return nil
}

func iShouldReceiveAnErrorAboutAMissingAudioStream() error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected an error, got none")
	}
	if !strings.Contains(e.err.Error(), "audio") {
		return fmt.Errorf("error %q does not mention audio", e.err)
	}
	return nil
}
