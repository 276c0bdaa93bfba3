package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/artemave/super-video-grep/internal/services"
	"github.com/artemave/super-video-grep/internal/supercut"
)

func newSegmentsCommand(ctx *commandContext) *cobra.Command {
	opts := &runOptions{}
	var plain bool

	cmd := &cobra.Command{
		Use:   "segments <phrase> <media>...",
		Short: "Print the segments a run would cut, without cutting",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return services.Wrap(services.ErrConfiguration, "segments", "arguments", "need a phrase and at least one media file", nil)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req, err := opts.request(cfg, args, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			if err := requireTools(cfg); err != nil {
				return err
			}

			pipeline, cleanup, err := newPipeline(cfg, opts.noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := pipeline.Plan(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if plain || !shouldColorize(out) {
				printPlainSegments(out, summary)
				return nil
			}
			printSegmentsTable(out, summary)
			return nil
		},
	}

	addMatchingFlags(cmd, opts)
	cmd.Flags().BoolVar(&plain, "plain", false, "Print tab-separated input/start/end lines instead of a table")

	return cmd
}

// printPlainSegments writes one machine-readable line per segment. No matches
// means no output; the exit code stays zero either way.
func printPlainSegments(out io.Writer, summary *supercut.Summary) {
	for _, input := range summary.Inputs {
		for _, span := range input.Spans {
			fmt.Fprintf(out, "%s\t%.3f\t%.3f\n", input.MediaPath, span.Start, span.End)
		}
	}
}

func printSegmentsTable(out io.Writer, summary *supercut.Summary) {
	var rows [][]string
	row := 0
	for _, input := range summary.Inputs {
		for i, span := range input.Spans {
			row++
			matches := ""
			if i < len(input.MatchCounts) {
				matches = strconv.Itoa(input.MatchCounts[i])
			}
			rows = append(rows, []string{
				strconv.Itoa(row),
				input.MediaPath,
				fmt.Sprintf("%.3f", span.Start),
				fmt.Sprintf("%.3f", span.End),
				fmt.Sprintf("%.3f", span.Duration()),
				matches,
			})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No matches found")
		return
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Input", "Start", "End", "Duration", "Matches"},
		rows,
		0, 2, 3, 4, 5,
	))
}
