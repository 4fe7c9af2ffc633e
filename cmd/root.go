package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hermecp/mapacuestionario/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mapacuestionario",
	Short: "Map and frequency analysis of geolocated survey responses",
	Long:  "Loads a geolocated survey workbook, colors respondents on a map by the answer to one question and exports the frequency table and chart.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
