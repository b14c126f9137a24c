package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// argsTerminator is placed before the user's arguments so cobra never
// resolves one of them to its hidden completion command
const argsTerminator = "--"

var rootCmd = &cobra.Command{
	Use:   "separate-songs [recording...]",
	Short: "Split a live recording into one clip per song",
	Long: `separate-songs cuts each recording into five clips at fixed song boundaries
using sox:

  1.   0s - 215s
  2. 288s - 524s
  3. 546s - 731s
  4. 755s - 995s
  5. 1054s - 1272s

Clips are written to the current directory as <name>-1.wav ... <name>-5.wav.
A failed cut does not stop the remaining ones. Every argument is a recording;
there are no options. See separate-songs-tools for setup and publishing.

Example:
  separate-songs set1.wav set2.wav`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	RunE:               runSplit,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

// Execute runs the split on the process arguments and exits 1 on error
func Execute() {
	if err := executeSplit(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func executeSplit(ctx context.Context, args []string, out, errOut io.Writer) error {
	rootCmd.SetArgs(append([]string{argsTerminator}, args...))
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	return rootCmd.ExecuteContext(ctx)
}

// recordingArgs drops the terminator added by executeSplit
func recordingArgs(args []string) []string {
	if len(args) > 0 && args[0] == argsTerminator {
		return args[1:]
	}
	return args
}
