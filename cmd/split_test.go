package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"separate-songs/domain/audio"
	"separate-songs/infrastructure/sox"
)

// recordingRunner captures sox command lines instead of executing them
type recordingRunner struct {
	commands [][]string
	fail     map[string]bool // keyed by output filename
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) error {
	r.commands = append(r.commands, append([]string{name}, args...))
	if r.fail[args[1]] {
		return errors.New("exit status 2")
	}
	return nil
}

func (r *recordingRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, nil
}

func TestRunSplitWithDependencies(t *testing.T) {
	runner := &recordingRunner{}
	trimmer := sox.NewTrimmer(sox.WithCommandRunner(runner))
	output := &bytes.Buffer{}

	results, err := RunSplitWithDependencies(context.Background(), trimmer, nil, []string{"song.wav"}, output)
	if err != nil {
		t.Fatalf("RunSplitWithDependencies() unexpected error: %v", err)
	}

	if len(results) != audio.SongCount {
		t.Fatalf("expected %d results, got %d", audio.SongCount, len(results))
	}

	want := []string{
		"sox song.wav song-1.wav trim 0 =215",
		"sox song.wav song-2.wav trim 288 =524",
		"sox song.wav song-3.wav trim 546 =731",
		"sox song.wav song-4.wav trim 755 =995",
		"sox song.wav song-5.wav trim 1054 =1272",
	}
	for i, cmdline := range runner.commands {
		if got := strings.Join(cmdline, " "); got != want[i] {
			t.Errorf("command %d = %q, want %q", i, got, want[i])
		}
	}

	wantOutput := strings.Join([]string{
		"song.wav => song-1.wav (length 3.5833333333333335)",
		"song.wav => song-2.wav (length 3.933333333333333)",
		"song.wav => song-3.wav (length 3.0833333333333335)",
		"song.wav => song-4.wav (length 4.0)",
		"song.wav => song-5.wav (length 3.6333333333333333)",
	}, "\n") + "\n"
	if output.String() != wantOutput {
		t.Errorf("output =\n%s\nwant\n%s", output.String(), wantOutput)
	}
}

func TestRunSplitWithDependencies_FailuresDoNotStopRun(t *testing.T) {
	runner := &recordingRunner{fail: map[string]bool{"a-1.wav": true, "b-5.wav": true}}
	trimmer := sox.NewTrimmer(sox.WithCommandRunner(runner))

	results, err := RunSplitWithDependencies(context.Background(), trimmer, nil, []string{"a.wav", "b.wav"}, nil)
	if err != nil {
		t.Fatalf("trim failures must not surface as an error, got %v", err)
	}

	if len(runner.commands) != 10 {
		t.Errorf("expected 10 sox invocations, got %d", len(runner.commands))
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("expected 2 failed clips, got %d", failed)
	}
}

func useRecordingRunner(t *testing.T) *recordingRunner {
	t.Helper()
	runner := &recordingRunner{}
	previous := soxRunner
	soxRunner = runner
	t.Cleanup(func() { soxRunner = previous })
	return runner
}

func TestExecuteSplit_EveryArgumentIsARecording(t *testing.T) {
	chdir(t, t.TempDir())
	runner := useRecordingRunner(t)
	out := &bytes.Buffer{}

	args := []string{"ranges", "-live.wav", "help", "--config", "__complete", "--"}
	if err := executeSplit(context.Background(), args, out, &bytes.Buffer{}); err != nil {
		t.Fatalf("executeSplit() unexpected error: %v", err)
	}

	if got, want := len(runner.commands), len(args)*audio.SongCount; got != want {
		t.Fatalf("expected %d sox invocations, got %d", want, got)
	}
	for i, arg := range args {
		first := runner.commands[i*audio.SongCount]
		if first[1] != arg {
			t.Errorf("recording %d: sox input = %q, want %q", i+1, first[1], arg)
		}
		if want := audio.ClipFilename(arg, 0); first[2] != want {
			t.Errorf("recording %d: sox output = %q, want %q", i+1, first[2], want)
		}
	}
	if got := strings.Join(runner.commands[5], " "); got != "sox -live.wav -live-1.wav trim 0 =215" {
		t.Errorf("command = %q", got)
	}
	if strings.Contains(out.String(), "CLIP") || strings.Contains(out.String(), "Usage") {
		t.Errorf("an argument was treated as a command:\n%s", out.String())
	}
	if got := strings.Count(out.String(), "\n"); got != len(args)*audio.SongCount {
		t.Errorf("expected %d progress lines, got %d", len(args)*audio.SongCount, got)
	}
}

func TestExecuteSplit_MalformedConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte("sox: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	runner := useRecordingRunner(t)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	if err := executeSplit(context.Background(), []string{"song.wav"}, out, errOut); err != nil {
		t.Fatalf("a broken config must not stop the split, got %v", err)
	}

	if len(runner.commands) != audio.SongCount {
		t.Fatalf("expected %d sox invocations, got %d", audio.SongCount, len(runner.commands))
	}
	if runner.commands[0][0] != "sox" {
		t.Errorf("executable = %q, want default sox", runner.commands[0][0])
	}
	if !strings.Contains(out.String(), "song.wav => song-1.wav (length 3.5833333333333335)") {
		t.Errorf("missing progress output:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "level=WARN") || !strings.Contains(errOut.String(), "failed to parse config file") {
		t.Errorf("expected a warning about the config file, got %q", errOut.String())
	}
}

func TestExecuteSplit_UsesConfiguredSoxPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte("sox:\n  path: /opt/sox/bin/sox\n"), 0644); err != nil {
		t.Fatal(err)
	}
	runner := useRecordingRunner(t)

	if err := executeSplit(context.Background(), []string{"song.wav"}, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if len(runner.commands) == 0 || runner.commands[0][0] != "/opt/sox/bin/sox" {
		t.Errorf("commands = %v, want configured sox path", runner.commands)
	}
}
