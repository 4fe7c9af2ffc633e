package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var columnsAll bool

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List the survey questions that can be mapped",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("columns"); err != nil {
			return err
		}
		loader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		ds, err := loader.Load(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !columnsAll {
			for _, name := range ds.SelectableColumns() {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COLUMN\tKIND\tNON-NULL\tSELECTABLE")
		for _, c := range ds.Schema.Columns {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", c.Name, c.Kind, c.NonNull, c.Selectable())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		zap.L().Info("survey loaded",
			zap.Int("rows", len(ds.Rows)),
			zap.Int("dropped", ds.Dropped),
		)
		return nil
	},
}

func init() {
	columnsCmd.Flags().BoolVar(&columnsAll, "all", false, "show every column with its kind")
	rootCmd.AddCommand(columnsCmd)
}
