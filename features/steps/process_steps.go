//go:build integration

package steps

import (
	"context"
	"fmt"
	"strings"

	appprocess "covertrack/application/process"
	"covertrack/cmd"
	domartwork "covertrack/domain/artwork"
	"covertrack/domain/media"
	"covertrack/domain/sampling"

	"github.com/cucumber/godog"
)

// mockProber implements media.Prober for scenarios
type mockProber struct {
	info *media.ContainerInfo
	err  error
}

func (m *mockProber) Probe(ctx context.Context, path string) (*media.ContainerInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

// mockSampler implements sampling.Sampler for scenarios
type mockSampler struct {
	result *sampling.Result
	err    error
	calls  int
}

func (m *mockSampler) SampleFrame(ctx context.Context, inputPath string, fraction float64, opts sampling.Options) (*sampling.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockPreparer implements artwork.Preparer for scenarios
type mockPreparer struct {
	img *domartwork.Image
	err error
}

func (m *mockPreparer) Prepare(path string, opts domartwork.PrepareOptions) (*domartwork.Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.img, nil
}

// mockEmbedder implements artwork.Embedder for scenarios
type mockEmbedder struct {
	err   error
	calls int
}

func (m *mockEmbedder) Embed(audioPath string, img *domartwork.Image, opts domartwork.EmbedOptions) error {
	m.calls++
	return m.err
}

// processContext holds test state for pipeline scenarios
type processContext struct {
	input       appprocess.Input
	prober      *mockProber
	remuxer     *mockRemuxer
	sampler     *mockSampler
	preparer    *mockPreparer
	embedder    *mockEmbedder
	fileChecker *mockFileChecker
	output      *strings.Builder
	err         error
}

// SharedProcessContext is reset before each scenario via Before hook
var SharedProcessContext *processContext

func getProcessContext() *processContext {
	return SharedProcessContext
}

func InitializeProcessScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedProcessContext = &processContext{
			input: appprocess.Input{OutputDir: "/out", Fraction: 0.1},
			prober: &mockProber{info: &media.ContainerInfo{
				DurationTicks:  90_000_000,
				HasDuration:    true,
				GlobalTimeBase: media.TimeBase{Num: 1, Den: 1_000_000},
			}},
			remuxer: &mockRemuxer{codecName: "aac"},
			sampler: &mockSampler{result: &sampling.Result{
				ImagePath: "/out/frame.png", Attempts: 1, TimestampSeconds: 9,
			}},
			preparer: &mockPreparer{img: &domartwork.Image{
				Data: []byte{1}, Kind: domartwork.KindPNG, MIME: "image/png", Width: 100, Height: 100,
			}},
			embedder: &mockEmbedder{},
			fileChecker: &mockFileChecker{
				existingFiles: make(map[string]bool),
				sizes:         make(map[string]int64),
			},
			output: &strings.Builder{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedProcessContext = nil
		return c, nil
	})

	ctx.Step(`^a recording at "([^"]*)" with audio and video streams$`, aRecordingWithAudioAndVideo)
	ctx.Step(`^a recording at "([^"]*)" with only an audio stream$`, aRecordingWithOnlyAudio)
	ctx.Step(`^the recording's audio codec is "([^"]*)"$`, theRecordingsAudioCodecIs)
	ctx.Step(`^I run the pipeline$`, iRunThePipeline)
	ctx.Step(`^the pipeline should produce "([^"]*)"$`, thePipelineShouldProduce)
	ctx.Step(`^a cover should be embedded$`, aCoverShouldBeEmbedded)
	ctx.Step(`^no cover should be embedded$`, noCoverShouldBeEmbedded)
	ctx.Step(`^the output should mention "([^"]*)"$`, theOutputShouldMention)
}

func aRecordingWithAudioAndVideo(path string) error {
	p := getProcessContext()
	p.input.InputPath = path
	p.fileChecker.existingFiles[path] = true
	p.prober.info.Path = path
	p.prober.info.Streams = []media.StreamInfo{
		{Index: 0, Type: media.StreamAudio, Codec: media.CodecAAC, CodecName: "aac"},
		{Index: 1, Type: media.StreamVideo, CodecName: "h264", Width: 1280, Height: 720},
	}
	return nil
}

func aRecordingWithOnlyAudio(path string) error {
	p := getProcessContext()
	p.input.InputPath = path
	p.fileChecker.existingFiles[path] = true
	p.prober.info.Path = path
	p.prober.info.Streams = []media.StreamInfo{
		{Index: 0, Type: media.StreamAudio, Codec: media.CodecAAC, CodecName: "aac"},
	}
	return nil
}

func theRecordingsAudioCodecIs(codec string) error {
	p := getProcessContext()
	p.remuxer.codecName = codec
	for i := range p.prober.info.Streams {
		if p.prober.info.Streams[i].Type == media.StreamAudio {
			p.prober.info.Streams[i].CodecName = codec
			p.prober.info.Streams[i].Codec = media.ParseCodec(codec)
		}
	}
	return nil
}

func iRunThePipeline() error {
	p := getProcessContext()
	p.err = cmd.RunProcessWithDependencies(
		context.Background(),
		p.prober,
		p.remuxer,
		p.sampler,
		p.preparer,
		p.embedder,
		p.fileChecker,
		p.input,
		p.output,
	)
	return nil
}

func thePipelineShouldProduce(expected string) error {
	p := getProcessContext()
	if p.err != nil {
		return fmt.Errorf("pipeline failed: %v", p.err)
	}
	if p.remuxer.lastOutput != expected {
		return fmt.Errorf("audio output is %q, expected %q", p.remuxer.lastOutput, expected)
	}
	return nil
}

func aCoverShouldBeEmbedded() error {
	p := getProcessContext()
	if p.err != nil {
		return fmt.Errorf("pipeline failed: %v", p.err)
	}
	if p.embedder.calls == 0 {
		return fmt.Errorf("embedder was never called")
	}
	return nil
}

func noCoverShouldBeEmbedded() error {
	p := getProcessContext()
	if p.err != nil {
		return fmt.Errorf("pipeline failed: %v", p.err)
	}
	if p.embedder.calls != 0 {
		return fmt.Errorf("embedder was called %d times", p.embedder.calls)
	}
	return nil
}

func theOutputShouldMention(text string) error {
	p := getProcessContext()
	if !strings.Contains(p.output.String(), text) {
		return fmt.Errorf("output %q does not mention %q", p.output.String(), text)
	}
	return nil
}
