package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	appaudio "separate-songs/application/audio"
	"separate-songs/domain/audio"
	"separate-songs/infrastructure/config"
	"separate-songs/infrastructure/sox"

	"github.com/spf13/cobra"
)

// soxRunner executes sox for the split command (replaced in tests)
var soxRunner sox.CommandRunner = &sox.ExecCommandRunner{}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, loadErr := config.Load(config.DefaultPath)
	if loadErr != nil {
		cfg = config.Default()
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr())
	if loadErr != nil {
		logger.Warn("ignoring configuration, using defaults",
			slog.String("path", config.DefaultPath),
			slog.String("error", loadErr.Error()),
		)
	}

	trimmer := sox.NewTrimmer(
		sox.WithSoxPath(cfg.Sox.Path),
		sox.WithCommandRunner(soxRunner),
	)

	_, err := RunSplitWithDependencies(
		cmd.Context(),
		trimmer,
		logger,
		recordingArgs(args),
		cmd.OutOrStdout(),
	)
	return err
}

// RunSplitWithDependencies runs the split with injected dependencies (for testing).
// Trim failures are reported in the results, never as the returned error.
func RunSplitWithDependencies(
	ctx context.Context,
	trimmer audio.Trimmer,
	logger *slog.Logger,
	inputs []string,
	output io.Writer,
) ([]appaudio.ClipResult, error) {
	table := audio.SongRanges()
	if err := audio.ValidateRanges(table[:]); err != nil {
		return nil, fmt.Errorf("song range table is invalid: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	service := appaudio.NewSplitService(trimmer, output, appaudio.WithLogger(logger))
	results := service.Split(ctx, inputs)

	logger.DebugContext(ctx, "split finished",
		slog.Int("recordings", len(inputs)),
		slog.Int("clips", len(results)),
		slog.Int("failed", len(appaudio.Failed(results))),
	)

	return results, nil
}
