package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"separate-songs/domain/audio"

	"github.com/spf13/cobra"
)

var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "List the song boundaries used for splitting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return PrintRanges(cmd.OutOrStdout())
	},
}

func init() {
	toolsCmd.AddCommand(rangesCmd)
}

// PrintRanges writes the fixed range table as a table
func PrintRanges(output io.Writer) error {
	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLIP\tSTART\tEND\tMINUTES")
	for i, r := range audio.SongRanges() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1,
			audio.FormatSeconds(r.Start), audio.FormatSeconds(r.End), audio.FormatMinutes(r.Minutes()))
	}
	return w.Flush()
}
