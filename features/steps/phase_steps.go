//go:build integration

package steps

import (
	"context"
	"fmt"

	"covertrack/domain/phase"

	"github.com/cucumber/godog"
)

// phaseContext holds test state for phase analysis scenarios
type phaseContext struct {
	measurements phase.Measurements
	analysis     phase.Analysis
	err          error
}

// SharedPhaseContext is reset before each scenario via Before hook
var SharedPhaseContext *phaseContext

func getPhaseContext() *phaseContext {
	return SharedPhaseContext
}

func InitializePhaseScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedPhaseContext = &phaseContext{}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedPhaseContext = nil
		return c, nil
	})

	ctx.Step(`^a mid level of (-?\d+(?:\.\d+)?) dB and a side level of (-?\d+(?:\.\d+)?) dB$`, aMidAndSideLevel)
	ctx.Step(`^a stereo correlation of (-?\d+(?:\.\d+)?)$`, aStereoCorrelation)
	ctx.Step(`^I analyze the phase measurements$`, iAnalyzeThePhaseMeasurements)
	ctx.Step(`^phase inversion should be disabled$`, phaseInversionShouldBeDisabled)
	ctx.Step(`^phase inversion should be allowed$`, phaseInversionShouldBeAllowed)
}

func aMidAndSideLevel(midDB, sideDB float64) error {
	getPhaseContext().measurements = phase.NewMeasurements(midDB, sideDB)
	return nil
}

func aStereoCorrelation(corr float64) error {
	p := getPhaseContext()
	p.measurements = p.measurements.WithCorrelation(corr)
	return nil
}

func iAnalyzeThePhaseMeasurements() error {
	p := getPhaseContext()
	p.analysis, p.err = phase.Analyze(p.measurements, 0)
	return p.err
}

func phaseInversionShouldBeDisabled() error {
	p := getPhaseContext()
	if !p.analysis.DisableInversion {
		return fmt.Errorf("inversion allowed with side share %s", p.analysis.SideSharePercent())
	}
	return nil
}

func phaseInversionShouldBeAllowed() error {
	p := getPhaseContext()
	if p.analysis.DisableInversion {
		return fmt.Errorf("inversion disabled with side share %s", p.analysis.SideSharePercent())
	}
	return nil
}
