package main

import (
	"fmt"
	"text/tabwriter"

	"grid-labeler/internal/catalog"
	"grid-labeler/internal/logger"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var directory string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many images carry each label",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.Open(directory, logger.FromEnvironment())
			if err != nil {
				return err
			}
			defer store.Shutdown()

			counts, err := store.Summary(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tCOUNT")
			total := 0
			for _, c := range counts {
				label := c.Label
				if label == "" {
					label = "(empty)"
				}
				fmt.Fprintf(tw, "%s\t%d\n", label, c.Count)
				total += c.Count
			}
			fmt.Fprintf(tw, "total\t%d\n", total)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&directory, "directory", ".", "Directory holding images.db")
	return cmd
}
