//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"separate-songs/cmd"
	"separate-songs/infrastructure/sox"

	"github.com/cucumber/godog"
)

// mockRunner records sox invocations instead of running them
type mockRunner struct {
	calls   [][]string
	failFor map[string]bool // keyed by output filename
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, args)
	if m.failFor[args[1]] {
		return errors.New("exit status 2")
	}
	return nil
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, nil
}

// splitContext holds test state for split scenarios
type splitContext struct {
	inputs []string
	runner *mockRunner
	output *bytes.Buffer
	err    error
}

// SharedSplitContext is reset before each scenario via Before hook
var SharedSplitContext *splitContext

func getSplitContext() *splitContext {
	return SharedSplitContext
}

func InitializeSplitScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedSplitContext = &splitContext{
			runner: &mockRunner{failFor: make(map[string]bool)},
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedSplitContext = nil
		return c, nil
	})

	ctx.Step(`^a recording "([^"]*)"$`, aRecording)
	ctx.Step(`^sox fails for "([^"]*)"$`, soxFailsFor)
	ctx.Step(`^I split the recordings$`, iSplitTheRecordings)
	ctx.Step(`^sox should have been invoked (\d+) times$`, soxShouldHaveBeenInvokedTimes)
	ctx.Step(`^clip (\d+) should be written to "([^"]*)"$`, clipShouldBeWrittenTo)
	ctx.Step(`^clip (\d+) should be trimmed with arguments:$`, clipShouldBeTrimmedWithArguments)
	ctx.Step(`^the clips should be written in this order:$`, theClipsShouldBeWrittenInThisOrder)
	ctx.Step(`^the progress output should contain "([^"]*)"$`, theProgressOutputShouldContain)
	ctx.Step(`^the progress output should contain (\d+) lines$`, theProgressOutputShouldContainLines)
	ctx.Step(`^the split should report no error$`, theSplitShouldReportNoError)
}

func aRecording(path string) error {
	s := getSplitContext()
	s.inputs = append(s.inputs, path)
	return nil
}

func soxFailsFor(clip string) error {
	getSplitContext().runner.failFor[clip] = true
	return nil
}

func iSplitTheRecordings() error {
	s := getSplitContext()
	trimmer := sox.NewTrimmer(sox.WithCommandRunner(s.runner))
	_, s.err = cmd.RunSplitWithDependencies(context.Background(), trimmer, nil, s.inputs, s.output)
	return nil
}

func soxShouldHaveBeenInvokedTimes(n int) error {
	s := getSplitContext()
	if len(s.runner.calls) != n {
		return fmt.Errorf("expected %d sox invocations, got %d", n, len(s.runner.calls))
	}
	return nil
}

func callFor(n int) ([]string, error) {
	s := getSplitContext()
	if n < 1 || n > len(s.runner.calls) {
		return nil, fmt.Errorf("no sox invocation %d (got %d)", n, len(s.runner.calls))
	}
	return s.runner.calls[n-1], nil
}

func clipShouldBeWrittenTo(n int, expected string) error {
	call, err := callFor(n)
	if err != nil {
		return err
	}
	if call[1] != expected {
		return fmt.Errorf("expected clip %d at %q, got %q", n, expected, call[1])
	}
	return nil
}

func clipShouldBeTrimmedWithArguments(n int, table *godog.Table) error {
	call, err := callFor(n)
	if err != nil {
		return err
	}

	// Arguments after input and output must match the table exactly
	var expected []string
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expected = append(expected, row.Cells[0].Value)
	}
	if got := strings.Join(call[2:], " "); got != strings.Join(expected, " ") {
		return fmt.Errorf("expected trim arguments %v, got %v", expected, call[2:])
	}
	return nil
}

func theClipsShouldBeWrittenInThisOrder(table *godog.Table) error {
	s := getSplitContext()
	if len(table.Rows)-1 != len(s.runner.calls) {
		return fmt.Errorf("expected %d clips, got %d", len(table.Rows)-1, len(s.runner.calls))
	}
	for i, row := range table.Rows[1:] {
		if got := s.runner.calls[i][1]; got != row.Cells[0].Value {
			return fmt.Errorf("clip %d: expected %q, got %q", i+1, row.Cells[0].Value, got)
		}
	}
	return nil
}

func theProgressOutputShouldContain(expected string) error {
	s := getSplitContext()
	if !strings.Contains(s.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, s.output.String())
	}
	return nil
}

func theProgressOutputShouldContainLines(n int) error {
	s := getSplitContext()
	if got := strings.Count(s.output.String(), "\n"); got != n {
		return fmt.Errorf("expected %d progress lines, got %d", n, got)
	}
	return nil
}

func theSplitShouldReportNoError() error {
	if err := getSplitContext().err; err != nil {
		return fmt.Errorf("expected no error, got %v", err)
	}
	return nil
}
